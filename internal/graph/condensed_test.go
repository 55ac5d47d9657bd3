package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/world/sample"
)

func TestBuildLinearChainCondensesToDirectEdges(t *testing.T) {
	w := sample.NewLinearChain()
	g := Build(w)

	edgesFromA := g.Edges("A")
	require.NotEmpty(t, edgesFromA)
	var toC *CondensedEdge
	for i := range edgesFromA {
		if edgesFromA[i].Dst == "C" {
			toC = &edgesFromA[i]
		}
	}
	require.NotNil(t, toC, "condensed graph should collapse A->B->C into a direct A->C edge")
	assert.Equal(t, uint32(20), toC.CostMS)
	assert.Empty(t, toC.Movement)
}

func TestBuildGatedShortcutKeepsBothUndominatedEdges(t *testing.T) {
	w := sample.NewGatedShortcut()
	g := Build(w)

	edgesFromA := g.Edges("A")
	var toC []CondensedEdge
	for _, e := range edgesFromA {
		if e.Dst == "C" {
			toC = append(toC, e)
		}
	}
	require.NotEmpty(t, toC, "A should reach C via the gated direct exit and/or via B")

	// The direct gated exit (cost 12, requires "key") and the via-B route
	// (cost 30, unconditional) must not mutually dominate: the direct edge
	// is cheaper but gated, the via-B edge is costlier but free, so both
	// survive pruning.
	var sawGated, sawFree bool
	for _, e := range toC {
		if len(e.Reqs) > 0 {
			sawGated = true
			assert.Equal(t, uint32(12), e.CostMS)
		} else {
			sawFree = true
		}
	}
	assert.True(t, sawGated, "expected the gated A->C shortcut to survive pruning")
	assert.True(t, sawFree, "expected the unconditional A->B->C route to survive pruning")
}

func TestJoinMovementIsCommutativeAndIdempotent(t *testing.T) {
	a := geneng.ItemID("glide")
	b := geneng.ItemID("climb")
	assert.Equal(t, joinMovement(a, b), joinMovement(b, a))
	assert.Equal(t, a, joinMovement(a, a))
	assert.Equal(t, a, joinMovement("", a))
	assert.Equal(t, a, joinMovement(a, ""))
}

func TestIsSubCapabilityRespectsBaseElement(t *testing.T) {
	assert.True(t, isSubCapability("", "anything"))
	assert.False(t, isSubCapability("anything", ""))
	joined := joinMovement("glide", "climb")
	assert.True(t, isSubCapability("glide", joined))
	assert.True(t, isSubCapability("climb", joined))
}

func TestReqsSubsetAndUnion(t *testing.T) {
	a := []geneng.ExitID{"x"}
	b := []geneng.ExitID{"x", "y"}
	assert.True(t, reqsSubset(a, b))
	assert.False(t, reqsSubset(b, a))
	u := unionReqs(a, b)
	assert.ElementsMatch(t, []geneng.ExitID{"x", "y"}, u)
}
