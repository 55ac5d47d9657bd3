package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/minimize"
)

// runDraw implements the `draw FILE` subcommand: emit a Graphviz DOT graph
// file tracing a winning route's position history.
func runDraw(args []string) error {
	fs := pflag.NewFlagSet("draw", pflag.ContinueOnError)
	settingsPath := fs.String("settings", "", "path to a YAML settings file")
	out := fs.String("out", filepath.Join("data", "route.dot"), "output DOT file path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("draw: expected exactly one route FILE argument")
	}

	cfg, err := loadSettings(*settingsPath)
	if err != nil {
		return fmt.Errorf("draw: loading settings: %w", err)
	}
	eng := buildEngine(cfg)

	steps, err := readRouteFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("draw: %w", err)
	}

	states, _, err := minimize.ReplayStates(eng.Start, steps)
	if err != nil {
		return fmt.Errorf("draw: replay failed: %w", err)
	}
	if !eng.World.Won(states[len(states)-1]) {
		return fmt.Errorf("draw: route does not win")
	}

	dot := renderDOT(steps, states)
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	if err := os.WriteFile(*out, []byte(dot), 0o644); err != nil {
		return fmt.Errorf("draw: writing %s: %w", *out, err)
	}
	fmt.Println("draw: wrote", *out)
	return nil
}

// renderDOT builds a Graphviz digraph from a route's step-by-step
// position trace: one node per distinct spot visited, one edge per step
// that changes position (Exit, MoveLocal, Warp), labeled with the step
// kind, and a dashed self-loop annotation for in-place Get/Activate steps.
func renderDOT(steps []geneng.HistoryStep, states []geneng.State) string {
	var b strings.Builder
	b.WriteString("digraph route {\n")
	b.WriteString("  rankdir=LR;\n")

	seen := make(map[geneng.SpotID]bool)
	node := func(spot geneng.SpotID) {
		if seen[spot] {
			return
		}
		seen[spot] = true
		fmt.Fprintf(&b, "  %q;\n", spot)
	}
	node(states[0].Position())

	for i, step := range steps {
		from, to := states[i].Position(), states[i+1].Position()
		node(to)
		switch step.Kind {
		case geneng.StepExit, geneng.StepMoveLocal, geneng.StepWarp:
			fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", from, to, step.Kind.String())
		case geneng.StepGet:
			fmt.Fprintf(&b, "  %q -> %q [label=%q, style=dashed];\n", from, from, "Get("+string(step.Item)+")")
		case geneng.StepHybrid:
			fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", from, to, "Hybrid("+string(step.Item)+")")
		case geneng.StepActivate:
			fmt.Fprintf(&b, "  %q -> %q [label=%q, style=dashed];\n", from, from, "Activate("+string(step.Action)+")")
		}
	}

	b.WriteString("}\n")
	return b.String()
}
