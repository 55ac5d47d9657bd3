package steiner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/world/sample"
)

func TestEstimateEmptyTargetsIsZero(t *testing.T) {
	s := NewScorer(sample.NewLinearChain())
	assert.Equal(t, uint64(0), s.Estimate("A", nil))
}

func TestEstimateLinearChainMatchesDirectPath(t *testing.T) {
	s := NewScorer(sample.NewLinearChain())
	// "atC" is the only location, sitting at spot C, 20ms from A.
	got := s.Estimate("A", []geneng.LocationID{"atC"})
	assert.Equal(t, uint64(20), got)
}

func TestEstimateGatedShortcutSumsBothTargets(t *testing.T) {
	s := NewScorer(sample.NewGatedShortcut())
	// keyLoc sits at B (15ms via the unconditional A->B exit); atC sits at
	// C, reachable from B in a further 15ms. The reduced graph ignores
	// gating, so the greedy tree should attach keyLoc then atC via B.
	got := s.Estimate("A", []geneng.LocationID{"keyLoc", "atC"})
	assert.Equal(t, uint64(30), got)
}

func TestEstimateIsMemoized(t *testing.T) {
	s := NewScorer(sample.NewLinearChain())
	first := s.Estimate("A", []geneng.LocationID{"atC"})
	s.mu.RLock()
	_, cached := s.memo[memoKey("A", []geneng.LocationID{"atC"})]
	s.mu.RUnlock()
	assert.True(t, cached)
	assert.Equal(t, first, s.Estimate("A", []geneng.LocationID{"atC"}))
}

func TestEstimateUnreachableTargetDoesNotHang(t *testing.T) {
	s := NewScorer(sample.NewEmptyWorld())
	got := s.Estimate("A", []geneng.LocationID{"nowhere"})
	assert.Equal(t, uint64(0), got)
}

func TestEstimateSharedCanonCollapsesToSingleTarget(t *testing.T) {
	s := NewScorer(sample.NewSharedCanonPair())
	// loc1 (10ms via A->B) and loc2 (30ms via A->C) share canon "heart", so
	// reaching either satisfies the group: the estimate should be the
	// cheaper single distance, not the sum of both.
	got := s.Estimate("A", []geneng.LocationID{"loc1", "loc2"})
	assert.Equal(t, uint64(10), got)
}
