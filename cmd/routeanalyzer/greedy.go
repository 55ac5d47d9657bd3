package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/routefile"
	"github.com/arrowroute/analyzer/internal/scheduler"
)

// runGreedy implements the `greedy [FILE]` subcommand: run a single
// greedy, per-community expansion search from the start state, or from
// wherever a provided route file leaves off.
func runGreedy(args []string) error {
	fs := pflag.NewFlagSet("greedy", pflag.ContinueOnError)
	settingsPath := fs.String("settings", "", "path to a YAML settings file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("greedy: expected at most one route FILE argument")
	}

	cfg, err := loadSettings(*settingsPath)
	if err != nil {
		return fmt.Errorf("greedy: loading settings: %w", err)
	}
	eng := buildEngine(cfg)

	wrap := geneng.NewWrapper(eng.Start)
	if fs.NArg() == 1 {
		steps, err := readRouteFile(fs.Arg(0))
		if err != nil {
			return fmt.Errorf("greedy: %w", err)
		}
		wrap, err = wrapperFromHistory(eng.Start, steps)
		if err != nil {
			return fmt.Errorf("greedy: replaying seed route: %w", err)
		}
	}

	final, won := scheduler.GreedySearch(eng.World, eng.Scorer, eng.Condensed, wrap, ^uint32(0))
	fmt.Print(routefile.FormatHistory(final.History))
	if won {
		fmt.Printf("greedy search won at %dms\n", final.Elapsed)
		return nil
	}
	fmt.Printf("greedy search stalled after %dms; still needs %v\n", final.Elapsed, eng.World.ItemsNeeded(final.State))
	return nil
}

// wrapperFromHistory replays steps from start into a geneng.Wrapper,
// mirroring internal/scheduler's unexported applyStepStandalone, for the
// CLI's own need to hand GreedySearch a mid-route starting point.
func wrapperFromHistory(start geneng.State, steps []geneng.HistoryStep) (geneng.Wrapper, error) {
	wrap := geneng.NewWrapper(start.Clone())
	for _, step := range steps {
		clone := wrap.State.Clone()
		rp, ok := clone.(geneng.Replayer)
		if !ok {
			return geneng.Wrapper{}, scheduler.ErrNotReplayable
		}
		cost, err := rp.Replay(step)
		if err != nil {
			return geneng.Wrapper{}, err
		}
		wrap.State = clone
		wrap.Elapsed += cost
		if step.IsCollecting() {
			wrap.TimeSinceVisit = 0
		} else {
			wrap.TimeSinceVisit += cost
		}
		wrap = wrap.WithHistory(step)
	}
	return wrap, nil
}
