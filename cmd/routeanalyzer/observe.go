package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/arrowroute/analyzer/internal/minimize"
	"github.com/arrowroute/analyzer/internal/observer"
	"github.com/arrowroute/analyzer/internal/routefile"
)

// runObserve implements the `observe FILE` subcommand: replay a winning
// route and print, step by step, the observations the same backward walk
// recordTrie runs derives at each prefix.
func runObserve(args []string) error {
	fs := pflag.NewFlagSet("observe", pflag.ContinueOnError)
	settingsPath := fs.String("settings", "", "path to a YAML settings file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("observe: expected exactly one route FILE argument")
	}

	cfg, err := loadSettings(*settingsPath)
	if err != nil {
		return fmt.Errorf("observe: loading settings: %w", err)
	}
	eng := buildEngine(cfg)

	steps, err := readRouteFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("observe: %w", err)
	}

	states, _, err := minimize.ReplayStates(eng.Start, steps)
	if err != nil {
		return fmt.Errorf("observe: replay failed: %w", err)
	}
	final := states[len(states)-1]
	if !eng.World.Won(final) {
		fmt.Printf("route did not win: still need %v\n", eng.World.ItemsNeeded(final))
		return nil
	}

	obs := observer.FromVictoryState(eng.World, final)
	for i := len(steps) - 1; i >= 0; i-- {
		obs.ObserveStep(states[i], steps[i])
		fmt.Printf("== %d. %s ==\n", i, routefile.Format(steps[i]))
		for _, o := range obs.ToVec(states[i]) {
			fmt.Printf("  %+v\n", o)
		}
		if i > 0 {
			obs.Update(states[i], states[i-1])
		}
	}
	return nil
}
