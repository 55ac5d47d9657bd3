package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/arrowroute/analyzer/internal/routefile"
	"github.com/arrowroute/analyzer/internal/solutions"
)

// formatSolutionLine renders one data/solutions.txt (or previews.txt,
// best.txt) entry: "Solution #<i>-<j>, est. <elapsed>ms:" followed by a
// short form (the collected-locations sequence) and the full route text.
// i is the solution's rank by elapsed time (1-based, fastest first) and j
// is its step count.
func formatSolutionLine(rank int, sol solutions.Solution) string {
	short := shortForm(sol)
	long := routefile.FormatHistory(sol.History)
	return fmt.Sprintf("Solution #%d-%d, est. %dms: %s\n%s", rank, len(sol.History), sol.Elapsed, short, long)
}

func shortForm(sol solutions.Solution) string {
	var parts []string
	for _, step := range sol.History {
		if step.IsCollecting() {
			parts = append(parts, string(step.Loc))
		}
	}
	return strings.Join(parts, ", ")
}

func rankedByElapsed(all []solutions.Solution) []solutions.Solution {
	sorted := append([]solutions.Solution(nil), all...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Elapsed < sorted[j].Elapsed })
	return sorted
}

// writeSolutionsFile renders every solution, ranked fastest-first, to
// path.
func writeSolutionsFile(path string, all []solutions.Solution) error {
	var b strings.Builder
	for i, sol := range rankedByElapsed(all) {
		b.WriteString(formatSolutionLine(i+1, sol))
		b.WriteString("\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// writeBestFile renders just the single fastest solution.
func writeBestFile(path string, all []solutions.Solution) error {
	ranked := rankedByElapsed(all)
	if len(ranked) == 0 {
		return os.WriteFile(path, nil, 0o644)
	}
	return os.WriteFile(path, []byte(formatSolutionLine(1, ranked[0])), 0o644)
}

// ensureDataDir creates the "data" directory data/*.txt is written under.
func ensureDataDir() error {
	return os.MkdirAll("data", 0o755)
}
