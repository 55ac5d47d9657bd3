package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/minimize"
	"github.com/arrowroute/analyzer/internal/world/sample"
)

func TestRenderDOTIncludesNodesAndLabeledEdges(t *testing.T) {
	w := sample.NewLinearChain()
	steps := []geneng.HistoryStep{geneng.Exit("A->B"), geneng.Exit("B->C")}

	states, _, err := minimize.ReplayStates(w.Start(), steps)
	require.NoError(t, err)

	dot := renderDOT(steps, states)
	assert.Contains(t, dot, "digraph route {")
	assert.Contains(t, dot, `"A"`)
	assert.Contains(t, dot, `"B"`)
	assert.Contains(t, dot, `"C"`)
	assert.Contains(t, dot, `"A" -> "B" [label="Exit"]`)
	assert.Contains(t, dot, "}\n")
}
