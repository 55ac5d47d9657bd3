package queue

import (
	"errors"

	"github.com/arrowroute/analyzer/internal/geneng"
)

// errNoStateDecoder is returned by decodeColdItem when asked to rehydrate
// a cold-tier record without a Config.Decode wired.
var errNoStateDecoder = errors.New("queue: no state decoder wired, cannot unspill from the cold tier")

// encodeColdItem renders an evicted Item's full, resumable form for the
// cold KV tier: its ordering Score (metric included, since a Score's own
// EncodeKey drops it), then its dedup key, then its Wrapper (State and
// History included, via geneng.EncodeWrapper). This is the entire record;
// nothing about the item is retained anywhere else in process memory once
// it is written here.
func encodeColdItem(it Item) []byte {
	out := make([]byte, 0, 64)
	out = append(out, byte(it.Score.Metric))
	out = geneng.PutUint32(out, it.Score.Progress)
	out = geneng.PutUint32(out, it.Score.Primary)
	out = geneng.PutUint32(out, it.Score.Secondary)
	out = geneng.PutUint64(out, it.Score.Sequence)
	out = geneng.PutBytes(out, []byte(it.Key))
	out = geneng.EncodeWrapper(out, it.Wrapper)
	return out
}

// decodeColdItem is the inverse of encodeColdItem, given the State decoder
// for whichever World produced the original state. Returns an error
// (rather than panicking) when decode is nil, since a queue configured
// without Config.Decode can still spill items to the cold tier; it simply
// cannot recall them, and callers leave such items in place.
func decodeColdItem(b []byte, decode geneng.StateDecoder) (Item, error) {
	if decode == nil {
		return Item{}, errNoStateDecoder
	}
	r := geneng.NewReader(b)
	metric, err := r.Byte()
	if err != nil {
		return Item{}, err
	}
	progress, err := r.Uint32()
	if err != nil {
		return Item{}, err
	}
	primary, err := r.Uint32()
	if err != nil {
		return Item{}, err
	}
	secondary, err := r.Uint32()
	if err != nil {
		return Item{}, err
	}
	sequence, err := r.Uint64()
	if err != nil {
		return Item{}, err
	}
	key, err := r.String()
	if err != nil {
		return Item{}, err
	}
	wrapper, err := geneng.DecodeWrapper(r, decode)
	if err != nil {
		return Item{}, err
	}
	return Item{
		Key: key,
		Score: geneng.Score{
			Metric:    geneng.Metric(metric),
			Progress:  progress,
			Primary:   primary,
			Secondary: secondary,
			Sequence:  sequence,
		},
		Wrapper: wrapper,
	}, nil
}

// evictIfNeededLocked runs whenever hotCount may exceed Config.HotTierSize,
// spilling entries to the cold tier. Round-robin eviction repeats until back
// within bound; proportional eviction makes one pass over the buckets above
// BucketSoftCap, which can leave the hot tier above HotTierSize. Callers
// must hold q.mu.
func (q *Queue) evictIfNeededLocked() {
	if q.cfg.HotTierSize <= 0 || q.hotCount <= q.cfg.HotTierSize {
		return
	}
	switch q.cfg.Eviction {
	case EvictProportional:
		q.evictProportionalLocked()
	default:
		q.evictRoundRobinLocked()
	}
}

// evictRoundRobinLocked evicts at most one element per non-empty bucket per
// pass, repeating passes until the hot tier is back within bound or no
// bucket has anything left to give.
func (q *Queue) evictRoundRobinLocked() {
	for q.hotCount > q.cfg.HotTierSize {
		evictedAny := false
		for _, progress := range q.order {
			if q.hotCount <= q.cfg.HotTierSize {
				return
			}
			b := q.buckets[progress]
			if b == nil || b.Len() == 0 {
				continue
			}
			q.spillOneLocked(progress, b)
			evictedAny = true
		}
		if !evictedAny {
			return
		}
	}
}

// evictProportionalLocked evicts ceil(size/factor) from every bucket whose
// size exceeds BucketSoftCap in a single pass, always leaving at least one
// element behind in a bucket it touches.
func (q *Queue) evictProportionalLocked() {
	factor := q.cfg.factor()
	for _, progress := range q.order {
		b := q.buckets[progress]
		if b == nil {
			continue
		}
		size := b.Len()
		if q.cfg.BucketSoftCap > 0 && size <= q.cfg.BucketSoftCap {
			continue
		}
		n := (size + factor - 1) / factor
		if n >= size {
			n = size - 1
		}
		for i := 0; i < n; i++ {
			if b.Len() <= 1 {
				break
			}
			q.spillOneLocked(progress, b)
		}
	}
}

// spillOneLocked pops the worst (maximum, since each bucket is a min-heap
// over Score.Less) item in b and writes it out: to the cold KV tier,
// genuinely freeing it from process memory, if one is wired; otherwise to
// an in-process fallback map (see the Config.Decode doc comment). Either
// way, if the state DB holds a record for the item, it is told the item is
// no longer queued; no record is created for an unrecorded key.
func (q *Queue) spillOneLocked(progress uint32, b *bucketHeap) {
	worstIdx := 0
	for i := 1; i < b.Len(); i++ {
		if (*b)[worstIdx].Score.Less((*b)[i].Score) {
			worstIdx = i
		}
	}
	item := (*b)[worstIdx]
	(*b)[worstIdx] = (*b)[b.Len()-1]
	*b = (*b)[:b.Len()-1]
	heapifyDown(b, worstIdx)

	q.hotCount--
	if b.Len() == 0 {
		delete(q.buckets, progress)
		q.removeOrderLocked(progress)
	}

	if q.seen != nil {
		if _, ok := q.seen.Get(item.Key); ok {
			q.seen.SetQueued(item.Key, false)
		}
	}

	if q.cold != nil {
		key := compositeKey(item.Score)
		_ = q.cold.Put(key, encodeColdItem(item))
		q.coldKeys++
		return
	}

	if q.spillover == nil {
		q.spillover = make(map[string]Item)
	}
	q.spillover[string(compositeKey(item.Score))] = item
}

// compositeKey builds the queue DB key: progress || score-bytes ||
// sequence (the latter two already folded into Score.EncodeKey's fixed
// layout).
func compositeKey(s geneng.Score) []byte {
	k := s.EncodeKey()
	return k[:]
}

// heapifyDown restores heap order after an arbitrary index was overwritten
// by the last element and the slice shrunk by one. The moved element came
// from another subtree, so it may belong above i as well as below it: it is
// first sifted up toward the root, then sifted down.
func heapifyDown(b *bucketHeap, i int) {
	h := *b
	n := len(h)
	if i >= n {
		return
	}
	for i > 0 {
		p := (i - 1) / 2
		if !h[i].Score.Less(h[p].Score) {
			break
		}
		h[i], h[p] = h[p], h[i]
		i = p
	}
	for {
		l, r := 2*i+1, 2*i+2
		smallest := i
		if l < n && h[l].Score.Less(h[smallest].Score) {
			smallest = l
		}
		if r < n && h[r].Score.Less(h[smallest].Score) {
			smallest = r
		}
		if smallest == i {
			return
		}
		h[i], h[smallest] = h[smallest], h[i]
		i = smallest
	}
}
