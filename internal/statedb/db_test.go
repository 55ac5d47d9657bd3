package statedb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrowroute/analyzer/internal/geneng"
)

func TestMinMergeIsComponentwiseMinAndIdempotent(t *testing.T) {
	db := New()
	r1 := db.MinMerge("s", geneng.BestTimes{Elapsed: 100, TimeSinceVisit: 10, EstimatedRemaining: 5})
	assert.Equal(t, uint32(100), r1.Times.Elapsed)

	r2 := db.MinMerge("s", geneng.BestTimes{Elapsed: 80, TimeSinceVisit: 20, EstimatedRemaining: 1})
	assert.Equal(t, uint32(80), r2.Times.Elapsed)
	assert.Equal(t, uint32(10), r2.Times.TimeSinceVisit)

	r3 := db.MinMerge("s", geneng.BestTimes{Elapsed: 80, TimeSinceVisit: 20, EstimatedRemaining: 1})
	assert.Equal(t, r2.Times, r3.Times)
}

func TestRecordOneRewritesBackpointerOnImprovement(t *testing.T) {
	db := New()
	step1 := geneng.Exit("A->B")
	improved, rec := db.RecordOne("child", geneng.BestTimes{Elapsed: 50}, "start", step1)
	require.True(t, improved)
	assert.True(t, rec.HasPrev)
	assert.Equal(t, "start", rec.PrevKey)

	step2 := geneng.Exit("C->B")
	improved, rec = db.RecordOne("child", geneng.BestTimes{Elapsed: 100}, "other", step2)
	assert.False(t, improved)
	assert.Equal(t, "start", rec.PrevKey, "backpointer should not move to a worse predecessor")

	improved, rec = db.RecordOne("child", geneng.BestTimes{Elapsed: 10}, "better", step2)
	assert.True(t, improved)
	assert.Equal(t, "better", rec.PrevKey)
}

func TestRememberProcessedIsTestAndSet(t *testing.T) {
	db := New()
	assert.False(t, db.RememberProcessed("s"))
	assert.True(t, db.RememberProcessed("s"))
	assert.True(t, db.RememberProcessed("s"))
}

func TestRecordProcessedMarksPrevAndReturnsImprovedOnly(t *testing.T) {
	db := New()
	children := []ChildUpdate{
		{Key: "a", Times: geneng.BestTimes{Elapsed: 10}, Step: geneng.Exit("x")},
		{Key: "b", Times: geneng.BestTimes{Elapsed: 20}, Step: geneng.Exit("y")},
	}
	improved := db.RecordProcessed("prev", children)
	assert.Len(t, improved, 2)

	rec, ok := db.Get("prev")
	require.True(t, ok)
	assert.True(t, rec.Flags.Processed)

	// Re-recording with worse times should not be reported as improved.
	worse := []ChildUpdate{{Key: "a", Times: geneng.BestTimes{Elapsed: 99}, Step: geneng.Exit("x")}}
	improvedAgain := db.RecordProcessed("prev", worse)
	assert.Empty(t, improvedAgain)
}

func TestGetHistoryWalksBackpointersInForwardOrder(t *testing.T) {
	db := New()
	step1 := geneng.Exit("A->B")
	step2 := geneng.Exit("B->C")
	_, _ = db.RecordOne("s1", geneng.BestTimes{Elapsed: 10}, "start", step1)
	_, _ = db.RecordOne("s2", geneng.BestTimes{Elapsed: 20}, "s1", step2)

	history := db.GetHistory("s2")
	require.Len(t, history, 2)
	assert.Equal(t, step1, history[0])
	assert.Equal(t, step2, history[1])
}

func TestGetHistoryEmptyForUnknownOrRootState(t *testing.T) {
	db := New()
	assert.Empty(t, db.GetHistory("never-seen"))
}
