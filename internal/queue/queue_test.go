package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/statedb"
	"github.com/arrowroute/analyzer/internal/storage"
	"github.com/arrowroute/analyzer/internal/world/sample"
)

func itemAt(progress int, total uint64, key string) Item {
	w := sample.NewLinearChain()
	st := w.Start()
	return Item{
		Key:     key,
		Score:   geneng.NewEstimatedTotalScore(progress, total, uint64(progress)*1000+total),
		Wrapper: geneng.Wrapper{State: st, Elapsed: uint32(total)},
	}
}

func TestPushPopMinReturnsGlobalBest(t *testing.T) {
	q := New(Config{}, nil, nil)
	require.True(t, q.Push(itemAt(1, 50, "a")))
	require.True(t, q.Push(itemAt(2, 10, "b"))) // higher progress wins ties under DESC
	require.True(t, q.Push(itemAt(2, 5, "c")))

	item, ok := q.PopMin()
	require.True(t, ok)
	assert.Equal(t, "c", item.Key, "progress 2 beats progress 1, and within progress 2, lower total wins")
}

func TestPopMinDrainsInScoreOrder(t *testing.T) {
	q := New(Config{}, nil, nil)
	q.Push(itemAt(0, 30, "a"))
	q.Push(itemAt(0, 10, "b"))
	q.Push(itemAt(0, 20, "c"))

	var order []string
	for {
		item, ok := q.PopMin()
		if !ok {
			break
		}
		order = append(order, item.Key)
	}
	assert.Equal(t, []string{"b", "c", "a"}, order)
}

func TestPopMaxProgressOnlyConsidersTopBuckets(t *testing.T) {
	q := New(Config{}, nil, nil)
	q.Push(itemAt(0, 1, "low"))
	q.Push(itemAt(5, 999, "high"))

	item, ok := q.PopMaxProgress(1)
	require.True(t, ok)
	assert.Equal(t, "high", item.Key)
}

func TestPopRoundRobinSpreadsAcrossBuckets(t *testing.T) {
	q := New(Config{}, nil, nil)
	q.Push(itemAt(0, 1, "b0"))
	q.Push(itemAt(1, 1, "b1"))
	q.Push(itemAt(2, 1, "b2"))

	first, ok := q.PopRoundRobin(0)
	require.True(t, ok)
	assert.Equal(t, "b0", first.Key)

	// Emptying bucket 0 drops it from the progress order, now [1, 2], so
	// start index 1 lands on the progress-2 bucket.
	second, ok := q.PopRoundRobin(1)
	require.True(t, ok)
	assert.Equal(t, "b2", second.Key)
}

func TestMaxTimeCapRejectsOnPush(t *testing.T) {
	q := New(Config{}, nil, nil)
	q.SetMaxTime(100)
	assert.False(t, q.Push(itemAt(0, 500, "too-slow")))
	assert.Equal(t, uint64(1), q.Stats.ISkips.Load())
}

func TestMaxTimeCapAllowsSmallSlack(t *testing.T) {
	q := New(Config{}, nil, nil)
	q.SetMaxTime(100)
	// 100 + 100/128 == 100, so an item at exactly the cap must still pass.
	assert.True(t, q.Push(itemAt(0, 100, "at-cap")))
}

func TestMaxTimeCapIsMonotonicallyDecreasing(t *testing.T) {
	q := New(Config{}, nil, nil)
	q.SetMaxTime(100)
	q.SetMaxTime(200) // attempted raise, must be ignored
	assert.Equal(t, uint32(100), q.MaxTime())
	q.SetMaxTime(50)
	assert.Equal(t, uint32(50), q.MaxTime())
}

func TestDedupRejectsPushWhenStateDBHasBetterTime(t *testing.T) {
	seen := statedb.New()
	seen.MinMerge("dup", geneng.BestTimes{Elapsed: 10})

	q := New(Config{}, nil, seen)
	assert.False(t, q.Push(itemAt(0, 50, "dup")))
	assert.Equal(t, uint64(1), q.Stats.DupISkips.Load())
}

func TestDedupAllowsPushWhenNoBetterTimeKnown(t *testing.T) {
	seen := statedb.New()
	seen.MinMerge("fresh", geneng.BestTimes{Elapsed: 999})
	q := New(Config{}, nil, seen)
	assert.True(t, q.Push(itemAt(0, 50, "fresh")))

	rec, ok := seen.Get("fresh")
	require.True(t, ok)
	assert.True(t, rec.Flags.Queued)
}

func TestDedupSkipsFlaggingWhenNoRecordExistsYet(t *testing.T) {
	seen := statedb.New()
	q := New(Config{}, nil, seen)
	assert.True(t, q.Push(itemAt(0, 50, "unrecorded")))
	_, ok := seen.Get("unrecorded")
	assert.False(t, ok, "Push must not fabricate a statedb record for a child never passed through RecordOne")
}

func TestPopDiscardsStaleItemAgainstStateDB(t *testing.T) {
	seen := statedb.New()
	q := New(Config{}, nil, seen)
	require.True(t, q.Push(itemAt(0, 50, "k")))

	// Another path reaches the same state faster after it was queued.
	seen.MinMerge("k", geneng.BestTimes{Elapsed: 5})

	_, ok := q.PopMin()
	assert.False(t, ok, "the only queued item for this key is now stale and must be discarded")
	assert.Equal(t, uint64(1), q.Stats.DupPSkips.Load())
}

func TestEvictionRoundRobinSpillsToColdTierAndUnspillRecallsItems(t *testing.T) {
	cold := storage.NewMemory()
	w := sample.NewLinearChain()
	q := New(Config{HotTierSize: 2, Eviction: EvictRoundRobin, Decode: w.DecodeState}, cold, nil)

	q.Push(itemAt(0, 10, "a"))
	q.Push(itemAt(0, 20, "b"))
	q.Push(itemAt(0, 30, "c"))

	assert.LessOrEqual(t, q.Len(), 2)
	assert.Greater(t, q.ColdLen(), 0)
	assert.Greater(t, cold.Len(), 0, "the evicted item's full Wrapper must actually be written to the cold KV, not just kept in a RAM map")

	moved := q.Unspill(10)
	assert.Greater(t, moved, 0)
	assert.Equal(t, 0, q.ColdLen())
	assert.Equal(t, 0, cold.Len(), "a fully recalled item must also be removed from the cold KV")

	recalled, ok := q.PopMin()
	require.True(t, ok)
	assert.Equal(t, w.Start().Position(), recalled.Wrapper.State.Position(), "the unspilled item's State must decode back to the same position it was evicted with")
}

func TestEvictionMarksQueuedFalseInStateDB(t *testing.T) {
	seen := statedb.New()
	seen.MinMerge("a", geneng.BestTimes{Elapsed: 999})
	seen.MinMerge("b", geneng.BestTimes{Elapsed: 999})
	q := New(Config{HotTierSize: 1, Eviction: EvictRoundRobin}, nil, seen)
	q.Push(itemAt(0, 10, "a"))
	q.Push(itemAt(0, 20, "b"))

	// One of the two was spilled; whichever it is must read queued=false.
	foundUnqueued := false
	for _, k := range []string{"a", "b"} {
		if rec, ok := seen.Get(k); ok && !rec.Flags.Queued {
			foundUnqueued = true
		}
	}
	assert.True(t, foundUnqueued)
}

func TestEvictionProportionalLeavesAtLeastOnePerBucket(t *testing.T) {
	cold := storage.NewMemory()
	w := sample.NewLinearChain()
	q := New(Config{HotTierSize: 1, BucketSoftCap: 1, Eviction: EvictProportional, ProportionalFactor: 2, Decode: w.DecodeState}, cold, nil)
	for i := 0; i < 5; i++ {
		q.Push(itemAt(0, uint64(i), "k"))
	}
	assert.GreaterOrEqual(t, q.Len(), 1)
}

func TestPopAllWithPriorityRespectsMaxPops(t *testing.T) {
	q := New(Config{}, nil, nil)
	for i := 0; i < 5; i++ {
		q.Push(itemAt(0, uint64(i*10), "k"))
	}
	items := q.PopAllWithPriority(1000, 0, 2)
	assert.Len(t, items, 2)
}

func TestEmptyQueueModesReportNotOK(t *testing.T) {
	q := New(Config{}, nil, nil)
	_, ok := q.PopMin()
	assert.False(t, ok)
	_, ok = q.PopMaxProgress(3)
	assert.False(t, ok)
	_, ok = q.PopRoundRobin(0)
	assert.False(t, ok)
	_, ok = q.PopLocalMinima()
	assert.False(t, ok)
	_, ok = q.PopMode(4)
	assert.False(t, ok)
}
