package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/world/sample"
)

func TestDiffStatesReportsPositionChangeAndNewVisits(t *testing.T) {
	w := sample.NewLinearChain()
	before := w.Start()
	after := before.Clone()

	rp := after.(geneng.Replayer)
	_, err := rp.Replay(geneng.Exit("A->B"))
	require.NoError(t, err)

	diff := diffStates(w, before, after)
	assert.Contains(t, diff, "position: A -> B")

	_, err = rp.Replay(geneng.Exit("B->C"))
	require.NoError(t, err)
	_, err = rp.Replay(geneng.Get("atC", "atC"))
	require.NoError(t, err)
	assert.Contains(t, diffStates(w, before, after), "visited: atC")
}

func TestDiffStatesEmptyWhenNoChange(t *testing.T) {
	w := sample.NewLinearChain()
	s := w.Start()
	assert.Equal(t, "", diffStates(w, s, s))
}
