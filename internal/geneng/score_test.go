package geneng

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreKeyRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		s := Score{
			Metric:    MetricTimeSince,
			Progress:  rng.Uint32() % 64,
			Primary:   rng.Uint32(),
			Secondary: rng.Uint32(),
			Sequence:  rng.Uint64(),
		}
		key := s.EncodeKey()
		got := DecodeScoreKey(key[:], s.Metric)
		require.Equal(t, s, got)
	}
}

func TestScoreKeyOrderMatchesLess(t *testing.T) {
	a := NewEstimatedTotalScore(3, 100, 1)
	b := NewEstimatedTotalScore(3, 50, 2)
	c := NewEstimatedTotalScore(5, 999, 3)

	assert.True(t, b.Less(a), "lower total should sort first within same progress")
	assert.True(t, c.Less(a), "higher progress should sort first regardless of total")

	ka, kb, kc := a.EncodeKey(), b.EncodeKey(), c.EncodeKey()
	assert.True(t, string(kb[:]) < string(ka[:]))
	assert.True(t, string(kc[:]) < string(ka[:]))
}

func TestBestTimesMergeIsComponentwiseMinAndIdempotent(t *testing.T) {
	a := BestTimes{Elapsed: 100, TimeSinceVisit: 50, EstimatedRemaining: 10}
	b := BestTimes{Elapsed: 80, TimeSinceVisit: 60, EstimatedRemaining: 5}

	merged := a.Merge(b)
	assert.Equal(t, uint32(80), merged.Elapsed)
	assert.Equal(t, uint32(50), merged.TimeSinceVisit)

	again := merged.Merge(merged)
	assert.Equal(t, merged, again, "merge must be idempotent")
}

func TestWrapperHistoryTruncates(t *testing.T) {
	w := Wrapper{}
	for i := 0; i < MaxHistoryLen+10; i++ {
		w = w.WithHistory(Activate(ActionID("a")))
	}
	assert.Len(t, w.History, MaxHistoryLen)
}

func TestBiasInt32RoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 2147483647, -2147483648, 12345, -98765} {
		require.Equal(t, v, UnbiasInt32(BiasInt32(v)))
	}
}
