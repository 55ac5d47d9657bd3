package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/minimize"
	"github.com/arrowroute/analyzer/internal/routefile"
)

// runMinimize implements the `minimize FILE` subcommand: run the same
// minimization passes handleSolution uses inline over a standalone route
// file, then print a unified diff between the original and minimized
// routes.
func runMinimize(args []string) error {
	fs := pflag.NewFlagSet("minimize", pflag.ContinueOnError)
	settingsPath := fs.String("settings", "", "path to a YAML settings file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("minimize: expected exactly one route FILE argument")
	}

	cfg, err := loadSettings(*settingsPath)
	if err != nil {
		return fmt.Errorf("minimize: loading settings: %w", err)
	}
	eng := buildEngine(cfg)

	original, err := readRouteFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("minimize: %w", err)
	}

	_, elapsed, err := minimize.ReplayHistory(eng.Start, original)
	if err != nil {
		return fmt.Errorf("minimize: route does not replay: %w", err)
	}

	cur := original
	cur = minimize.SkipMinimize(eng.World, eng.Start, cur, elapsed)
	cur = minimize.TrieMinimize(eng.World, eng.Trie, eng.Solutions, eng.Start, cur, elapsed)
	cur = minimize.SpotRevisitSwap(eng.World, eng.Start, cur, elapsed)
	cur = minimize.CollectionReorder(eng.World, eng.Start, cur, elapsed)

	_, minElapsed, err := minimize.ReplayHistory(eng.Start, cur)
	if err != nil {
		return fmt.Errorf("minimize: minimized route does not replay: %w", err)
	}

	fmt.Print(unifiedDiff(original, cur))
	fmt.Printf("elapsed: %dms -> %dms\n", elapsed, minElapsed)
	return nil
}

// unifiedDiff prints a minimal unified-style diff between two history
// step sequences: a common-prefix/suffix trim around the differing
// middle, with '-' for removed-from-original and '+' for kept-in-
// minimized lines.
func unifiedDiff(before, after []geneng.HistoryStep) string {
	prefix := 0
	for prefix < len(before) && prefix < len(after) && before[prefix] == after[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(before)-prefix && suffix < len(after)-prefix &&
		before[len(before)-1-suffix] == after[len(after)-1-suffix] {
		suffix++
	}

	var out string
	for _, step := range before[prefix : len(before)-suffix] {
		out += "-" + routefile.Format(step) + "\n"
	}
	for _, step := range after[prefix : len(after)-suffix] {
		out += "+" + routefile.Format(step) + "\n"
	}
	if out == "" {
		out = "(no change)\n"
	}
	return out
}
