package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/minimize"
	"github.com/arrowroute/analyzer/internal/routefile"
	"github.com/arrowroute/analyzer/internal/world"
)

// runRoute implements the `route FILE` subcommand: replay the route and
// print a step-by-step diff, each step's label followed by the state diff
// it produced.
func runRoute(args []string) error {
	fs := pflag.NewFlagSet("route", pflag.ContinueOnError)
	settingsPath := fs.String("settings", "", "path to a YAML settings file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("route: expected exactly one route FILE argument")
	}

	cfg, err := loadSettings(*settingsPath)
	if err != nil {
		return fmt.Errorf("route: loading settings: %w", err)
	}
	eng := buildEngine(cfg)

	steps, err := readRouteFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("route: %w", err)
	}

	states, costs, err := minimize.ReplayStates(eng.Start, steps)
	if err != nil {
		return fmt.Errorf("route: replay failed: %w", err)
	}

	elapsed := uint32(0)
	for i, step := range steps {
		elapsed += costs[i]
		fmt.Printf("== %d. %s ==\n", i, routefile.Format(step))
		fmt.Print(diffStates(eng.World, states[i], states[i+1]))
		fmt.Printf("(elapsed %dms)\n", elapsed)
	}

	final := states[len(states)-1]
	if eng.World.Won(final) {
		fmt.Printf("route wins at %dms\n", elapsed)
	} else {
		fmt.Printf("route does not win; still needs %v\n", eng.World.ItemsNeeded(final))
	}
	return nil
}

// diffStates prints the locations newly visited and any position change
// between before and after. State has no bespoke diff method, so the CLI
// reconstructs one from the capability contract directly.
func diffStates(w world.World, before, after geneng.State) string {
	var out string
	if before.Position() != after.Position() {
		out += fmt.Sprintf("  position: %s -> %s\n", before.Position(), after.Position())
	}
	for _, loc := range w.Locations() {
		if !before.Visited(loc) && after.Visited(loc) {
			out += fmt.Sprintf("  visited: %s\n", loc)
		}
	}
	return out
}
