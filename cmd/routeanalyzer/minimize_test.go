package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/routefile"
)

func TestUnifiedDiffNoChange(t *testing.T) {
	route := []geneng.HistoryStep{geneng.Exit("A->B"), geneng.Get(geneng.ItemID("key"), geneng.LocationID("B"))}
	assert.Equal(t, "(no change)\n", unifiedDiff(route, route))
}

func TestUnifiedDiffTrimsCommonPrefixAndSuffix(t *testing.T) {
	prefix := geneng.Exit("A->B")
	suffix := geneng.Get(geneng.ItemID("key"), geneng.LocationID("C"))
	before := []geneng.HistoryStep{prefix, geneng.MoveLocal("spot1"), suffix}
	after := []geneng.HistoryStep{prefix, geneng.Warp("spot2"), suffix}

	diff := unifiedDiff(before, after)
	assert.Contains(t, diff, "-"+routefile.Format(before[1]))
	assert.Contains(t, diff, "+"+routefile.Format(after[1]))
	assert.NotContains(t, diff, "-"+routefile.Format(prefix))
	assert.NotContains(t, diff, "-"+routefile.Format(suffix))
}
