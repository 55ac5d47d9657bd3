package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/solutions"
)

func sampleSolution(elapsed uint32, locs ...geneng.LocationID) solutions.Solution {
	var hist []geneng.HistoryStep
	for _, loc := range locs {
		hist = append(hist, geneng.Get(geneng.ItemID("item-"+string(loc)), loc))
	}
	return solutions.Solution{Elapsed: elapsed, History: hist}
}

func TestShortFormListsCollectedLocationsOnly(t *testing.T) {
	sol := sampleSolution(100, "A", "B")
	sol.History = append(sol.History, geneng.Exit("A->B"))
	assert.Equal(t, "A, B", shortForm(sol))
}

func TestFormatSolutionLineIncludesRankStepCountAndElapsed(t *testing.T) {
	sol := sampleSolution(250, "A")
	line := formatSolutionLine(3, sol)
	assert.True(t, strings.HasPrefix(line, "Solution #3-1, est. 250ms: A\n"))
}

func TestRankedByElapsedSortsFastestFirst(t *testing.T) {
	slow := sampleSolution(500, "A")
	fast := sampleSolution(50, "B")
	mid := sampleSolution(200, "C")

	ranked := rankedByElapsed([]solutions.Solution{slow, fast, mid})
	assert.Equal(t, []uint32{50, 200, 500}, []uint32{ranked[0].Elapsed, ranked[1].Elapsed, ranked[2].Elapsed})
}

func TestRankedByElapsedDoesNotMutateInput(t *testing.T) {
	all := []solutions.Solution{sampleSolution(500, "A"), sampleSolution(50, "B")}
	_ = rankedByElapsed(all)
	assert.Equal(t, uint32(500), all[0].Elapsed)
}
