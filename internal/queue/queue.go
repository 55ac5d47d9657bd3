package queue

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/obslog"
	"github.com/arrowroute/analyzer/internal/statedb"
	"github.com/arrowroute/analyzer/internal/storage"
)

// EvictionStrategy selects how the hot tier sheds load once it exceeds
// Config.HotTierSize.
type EvictionStrategy uint8

const (
	// EvictRoundRobin evicts at most one element per non-empty bucket per
	// pass, cycling until enough capacity is freed.
	EvictRoundRobin EvictionStrategy = iota
	// EvictProportional evicts ceil(size/factor) from every bucket in one
	// pass, always leaving at least one element in a non-empty bucket.
	EvictProportional
)

// Config bounds the queue's hot tier and selects its eviction policy.
type Config struct {
	HotTierSize   int // total in-memory element cap across all buckets
	BucketSoftCap int // per-bucket soft cap considered by EvictProportional
	Eviction      EvictionStrategy
	// ProportionalFactor is the divisor in ceil(size/factor); the default
	// is 4 (evict roughly a quarter of an oversized bucket).
	ProportionalFactor int
	// Decode reconstructs a State from its Encode() bytes, letting an
	// evicted item's full Wrapper (State included) be written to the cold
	// KV tier and genuinely dropped from process memory, then rehydrated
	// on Unspill. Without it, items spilled to a non-nil cold KV cannot be
	// decoded and Unspill leaves them in the cold tier. The in-process
	// fallback map for evicted items (see eviction.go) is used only when no
	// cold KV is supplied; it works but does not free memory.
	Decode geneng.StateDecoder
	// Log receives an Info event whenever SetMaxTime actually tightens the
	// cap. A nil Log defaults to obslog.Discard().
	Log *obslog.Logger
}

func (c Config) factor() int {
	if c.ProportionalFactor <= 0 {
		return 4
	}
	return c.ProportionalFactor
}

// Stats are the four dedup/time-cap counters the scheduler reports.
type Stats struct {
	ISkips    atomic.Uint64 // push rejected: elapsed exceeds the current max_time cap
	PSkips    atomic.Uint64 // pop skipped: popped item exceeds the current max_time cap
	DupISkips atomic.Uint64 // push rejected: state DB already holds a strictly better time
	DupPSkips atomic.Uint64 // pop skipped: state DB improved since this item was queued
}

// Queue is the segmented bucket priority queue. Every progress value owns
// its own min-heap; Push and the eight Pop* modes operate across the set of
// non-empty buckets. A Queue may optionally be wired to a statedb.DB (for
// push-time and pop-time dedup) and a storage.KV (for cold-tier spillover);
// both are nil-safe to omit for standalone use (e.g. in tests).
type Queue struct {
	mu      sync.Mutex
	cond    *sync.Cond
	buckets map[uint32]*bucketHeap
	order   []uint32 // buckets' progress values, kept sorted ascending

	hotCount int
	cfg      Config

	cold     storage.KV
	seen     *statedb.DB
	coldKeys int // count of items currently spilled to q.cold, tracked locally since storage.KV.Len has no namespace concept

	// spillover is the eviction fallback used only when q.cold is nil (see
	// eviction.go): evicted items, keyed by compositeKey(Score).
	spillover map[string]Item

	maxTimeMS uint32 // 0 means "uncapped"
	seq       atomic.Uint64
	closed    bool
	log       *obslog.Logger

	Stats Stats
}

// New returns an empty Queue. cold and seen may be nil.
func New(cfg Config, cold storage.KV, seen *statedb.DB) *Queue {
	log := cfg.Log
	if log == nil {
		log = obslog.Discard()
	}
	q := &Queue{
		buckets: make(map[uint32]*bucketHeap),
		cfg:     cfg,
		cold:    cold,
		seen:    seen,
		log:     log,
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// NextSequence returns a fresh, monotonically increasing tiebreaker for
// building a geneng.Score.
func (q *Queue) NextSequence() uint64 { return q.seq.Add(1) }

// SetMaxTime lowers the dynamic time cap. The cap only ever decreases
// across a run (tightening as better solutions are found); a call that
// would raise it is ignored.
func (q *Queue) SetMaxTime(ms uint32) {
	q.mu.Lock()
	tightened := q.maxTimeMS == 0 || ms < q.maxTimeMS
	if tightened {
		q.maxTimeMS = ms
	}
	q.mu.Unlock()

	if tightened {
		q.log.Info().Uint64("max_time_ms", uint64(ms)).Log("time cap tightened")
	}
}

// MaxTime returns the current cap, or 0 if uncapped.
func (q *Queue) MaxTime() uint32 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.maxTimeMS
}

// withinSlack reports whether elapsed is still acceptable under the current
// cap, allowing a small slack (new + new/128) so a cap tightened moments
// ago does not immediately strand in-flight items.
func (q *Queue) withinSlack(elapsed uint32) bool {
	if q.maxTimeMS == 0 {
		return true
	}
	limit := q.maxTimeMS + q.maxTimeMS/128
	return elapsed <= limit
}

// Push inserts item, honoring the max_time cap and (if wired) the state DB
// dedup check: a child is rejected if the DB already records a strictly
// better elapsed time for its key. Returns false if the item was skipped.
func (q *Queue) Push(item Item) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.withinSlack(item.Wrapper.Elapsed) {
		q.Stats.ISkips.Add(1)
		return false
	}

	if q.seen != nil {
		if rec, ok := q.seen.Get(item.Key); ok {
			if rec.Times.Elapsed < item.Wrapper.Elapsed {
				q.Stats.DupISkips.Add(1)
				return false
			}
			q.seen.SetQueued(item.Key, true)
		}
		// No record yet means this child hasn't been through
		// statedb.RecordOne. Nothing to dedup against, and nothing to
		// flag queued until a record exists to carry the flag.
	}

	b, ok := q.buckets[item.Score.Progress]
	if !ok {
		b = newBucket()
		q.buckets[item.Score.Progress] = b
		q.insertOrderLocked(item.Score.Progress)
	}
	b.pushItem(item)
	q.hotCount++

	q.evictIfNeededLocked()
	q.cond.Signal()
	return true
}

func (q *Queue) insertOrderLocked(progress uint32) {
	i := sort.Search(len(q.order), func(i int) bool { return q.order[i] >= progress })
	q.order = append(q.order, 0)
	copy(q.order[i+1:], q.order[i:])
	q.order[i] = progress
}

func (q *Queue) removeOrderLocked(progress uint32) {
	i := sort.Search(len(q.order), func(i int) bool { return q.order[i] >= progress })
	if i < len(q.order) && q.order[i] == progress {
		q.order = append(q.order[:i], q.order[i+1:]...)
	}
}

// Close sets the queue's closed flag and broadcasts on its condition
// variable. No Pop* method blocks on an empty queue (each returns ok ==
// false at once), and Push does not consult the flag.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// Len returns the total number of items currently held in the hot tier.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.hotCount
}

// Empty reports whether the hot tier currently holds no items. It does not
// consult the cold tier: a queue that has spilled everything to disk still
// reports empty here, and callers relying on cold-tier recall should refill
// via Unspill before checking.
func (q *Queue) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.hotCount == 0
}

// Unspill pulls up to n previously evicted items back into the hot tier,
// lowest composite key (best Score) first, and removes their cold-tier
// record. Used by the scheduler when the hot tier runs dry but the state DB
// still has unprocessed states.
func (q *Queue) Unspill(n int) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n <= 0 {
		return 0
	}
	if q.cold != nil {
		return q.unspillFromColdLocked(n)
	}
	return q.unspillFromMemoryLocked(n)
}

// unspillFromColdLocked recovers items genuinely persisted to q.cold: it
// range-scans the lowest n composite keys, decodes each item's full
// Wrapper via Config.Decode, and deletes the cold-tier record once
// reinserted into the hot tier. An item that fails to decode (no Decode
// wired) is left in place rather than lost.
func (q *Queue) unspillFromColdLocked(n int) int {
	var keys, vals [][]byte
	_ = q.cold.Range(nil, nil, func(k, v []byte) bool {
		keys = append(keys, append([]byte(nil), k...))
		vals = append(vals, append([]byte(nil), v...))
		return len(keys) < n
	})

	moved := 0
	for i, k := range keys {
		item, err := decodeColdItem(vals[i], q.cfg.Decode)
		if err != nil {
			continue
		}
		_ = q.cold.Delete(k)
		q.coldKeys--
		q.reinsertHotLocked(item)
		moved++
	}
	return moved
}

// unspillFromMemoryLocked is the fallback path used when no cold KV is
// wired: evicted items never left process memory, so recall is just a map
// lookup rather than a decode.
func (q *Queue) unspillFromMemoryLocked(n int) int {
	if len(q.spillover) == 0 {
		return 0
	}
	keys := make([]string, 0, len(q.spillover))
	for k := range q.spillover {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	moved := 0
	for _, k := range keys {
		if moved >= n {
			break
		}
		item := q.spillover[k]
		delete(q.spillover, k)
		q.reinsertHotLocked(item)
		moved++
	}
	return moved
}

// reinsertHotLocked re-adds a previously evicted item to the hot tier,
// shared by both Unspill paths.
func (q *Queue) reinsertHotLocked(item Item) {
	b, ok := q.buckets[item.Score.Progress]
	if !ok {
		b = newBucket()
		q.buckets[item.Score.Progress] = b
		q.insertOrderLocked(item.Score.Progress)
	}
	b.pushItem(item)
	q.hotCount++
	if q.seen != nil {
		q.seen.SetQueued(item.Key, true)
	}
}

// ColdLen reports the number of items currently spilled to the cold tier
// (whichever of storage.KV or the in-process fallback map is backing it).
func (q *Queue) ColdLen() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.cold != nil {
		return q.coldKeys
	}
	return len(q.spillover)
}

// isStaleLocked reports whether a just-popped item is known to be worse
// than the state DB's current record for its key (another path having
// since reached it faster), in which case the caller should discard it
// rather than resume the search from it.
func (q *Queue) isStaleLocked(item Item) bool {
	if q.seen == nil {
		return false
	}
	rec, ok := q.seen.Get(item.Key)
	return ok && rec.Times.Elapsed < item.Wrapper.Elapsed
}
