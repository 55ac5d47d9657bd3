package queue

// This file implements the queue's family of retrieval modes: besides the
// plain global minimum, the scheduler can bias retrieval toward
// high-progress buckets, rotate evenly across buckets, or drain a priority
// band in bulk. Every mode funnels through popWithSelector, which retries
// past max_time-capped or dedup-stale items transparently so callers never
// see a skipped entry.

// popWithSelector repeatedly asks selector for the current candidate bucket
// set, pops the best (minimum by Score.Less) item among them, and discards
// it transparently (retrying) if it exceeds the time cap or has gone stale
// against the state DB, until a usable item is found or candidates run dry.
func (q *Queue) popWithSelector(selector func() []uint32) (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		candidates := selector()
		progress, ok := q.bestAmongLocked(candidates)
		if !ok {
			return Item{}, false
		}
		item := q.popOneFromBucketLocked(progress)

		if q.maxTimeMS != 0 && item.Wrapper.Elapsed > q.maxTimeMS {
			q.Stats.PSkips.Add(1)
			continue
		}
		if q.isStaleLocked(item) {
			q.Stats.DupPSkips.Add(1)
			continue
		}
		if q.seen != nil {
			q.seen.SetQueued(item.Key, false)
		}
		return item, true
	}
}

// bestAmongLocked returns the progress value of the non-empty candidate
// bucket whose head item sorts first. candidates == nil means "every
// bucket". Callers must hold q.mu.
func (q *Queue) bestAmongLocked(candidates []uint32) (uint32, bool) {
	var pool []uint32
	if candidates == nil {
		pool = q.order
	} else {
		pool = candidates
	}

	best := uint32(0)
	found := false
	for _, p := range pool {
		b := q.buckets[p]
		if b == nil || b.Len() == 0 {
			continue
		}
		if !found {
			best, found = p, true
			continue
		}
		if b.peek().Score.Less(q.buckets[best].peek().Score) {
			best = p
		}
	}
	return best, found
}

func (q *Queue) popOneFromBucketLocked(progress uint32) Item {
	b := q.buckets[progress]
	item := b.popItem()
	q.hotCount--
	if b.Len() == 0 {
		delete(q.buckets, progress)
		q.removeOrderLocked(progress)
	}
	return item
}

// PopMin returns the single globally best item across every bucket.
func (q *Queue) PopMin() (Item, bool) {
	return q.popWithSelector(func() []uint32 { return nil })
}

// PopMaxProgress returns the best item among the n buckets with the
// highest progress value (q.order is kept ascending, so these are its
// tail).
func (q *Queue) PopMaxProgress(n int) (Item, bool) {
	return q.popWithSelector(func() []uint32 { return q.tailOrderLocked(n) })
}

func (q *Queue) tailOrderLocked(n int) []uint32 {
	if n <= 0 || n >= len(q.order) {
		return append([]uint32(nil), q.order...)
	}
	return append([]uint32(nil), q.order[len(q.order)-n:]...)
}

// PopMinProgress returns the best item among the k buckets with the
// smallest progress value that is still >= minProgress.
func (q *Queue) PopMinProgress(minProgress uint32, k int) (Item, bool) {
	return q.popWithSelector(func() []uint32 {
		var eligible []uint32
		for _, p := range q.order {
			if p >= minProgress {
				eligible = append(eligible, p)
			}
		}
		if k <= 0 || k >= len(eligible) {
			return eligible
		}
		return eligible[:k]
	})
}

// PopHalfProgress returns the best item among the lowest 1/d fraction of
// non-empty buckets by progress value (d == 2 is the classic "half").
func (q *Queue) PopHalfProgress(d int) (Item, bool) {
	if d <= 0 {
		d = 2
	}
	return q.popWithSelector(func() []uint32 {
		n := (len(q.order) + d - 1) / d
		if n == 0 && len(q.order) > 0 {
			n = 1
		}
		if n >= len(q.order) {
			return append([]uint32(nil), q.order...)
		}
		return append([]uint32(nil), q.order[:n]...)
	})
}

// PopRoundRobin returns the best item from the first non-empty bucket found
// scanning forward (circularly) from index start in progress order,
// spreading retrieval evenly across buckets call over call rather than
// always favoring the same end of the range.
func (q *Queue) PopRoundRobin(start int) (Item, bool) {
	return q.popWithSelector(func() []uint32 {
		n := len(q.order)
		if n == 0 {
			return nil
		}
		s := ((start % n) + n) % n
		for i := 0; i < n; i++ {
			p := q.order[(s+i)%n]
			if b := q.buckets[p]; b != nil && b.Len() > 0 {
				return []uint32{p}
			}
		}
		return nil
	})
}

// PopLocalMinima returns the best item among buckets that are a "local
// minimum": no bucket of strictly higher progress already has a head item
// whose Primary field is at least as good. A local-minimum bucket is one
// still worth exploring on its own terms, rather than being strictly
// dominated by something further along.
func (q *Queue) PopLocalMinima() (Item, bool) {
	return q.popWithSelector(func() []uint32 {
		var out []uint32
		for i, p := range q.order {
			b := q.buckets[p]
			if b == nil || b.Len() == 0 {
				continue
			}
			dominated := false
			for j := i + 1; j < len(q.order); j++ {
				hb := q.buckets[q.order[j]]
				if hb == nil || hb.Len() == 0 {
					continue
				}
				if hb.peek().Score.Primary <= b.peek().Score.Primary {
					dominated = true
					break
				}
			}
			if !dominated {
				out = append(out, p)
			}
		}
		return out
	})
}

// PopMode returns the best item among the buckets whose head Primary value
// falls in the most frequent of n equal-width bins spanning the current
// spread of head Primary values: the "mode" of the queue's current score
// distribution, biasing retrieval toward the density of the search rather
// than its extremes.
func (q *Queue) PopMode(n int) (Item, bool) {
	if n <= 0 {
		n = 8
	}
	return q.popWithSelector(func() []uint32 {
		if len(q.order) == 0 {
			return nil
		}
		lo, hi := ^uint32(0), uint32(0)
		heads := make(map[uint32]uint32, len(q.order))
		for _, p := range q.order {
			b := q.buckets[p]
			if b == nil || b.Len() == 0 {
				continue
			}
			v := b.peek().Score.Primary
			heads[p] = v
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if len(heads) == 0 {
			return nil
		}
		width := hi - lo
		if width == 0 {
			out := make([]uint32, 0, len(heads))
			for p := range heads {
				out = append(out, p)
			}
			return out
		}

		binOf := func(v uint32) int {
			idx := int(uint64(v-lo) * uint64(n) / uint64(width+1))
			if idx >= n {
				idx = n - 1
			}
			return idx
		}
		counts := make([]int, n)
		for _, v := range heads {
			counts[binOf(v)]++
		}
		modeBin, modeCount := 0, -1
		for i, c := range counts {
			if c > modeCount {
				modeBin, modeCount = i, c
			}
		}
		var out []uint32
		for p, v := range heads {
			if binOf(v) == modeBin {
				out = append(out, p)
			}
		}
		return out
	})
}

// PopAllWithPriority drains items whose head Primary value is <= limit,
// stopping once maxPops items have been returned or no eligible item
// remains. It is the bulk counterpart to the single-item modes above. The
// result is one flat slice; maxSegment does not change what is returned.
func (q *Queue) PopAllWithPriority(limit uint64, maxSegment, maxPops int) []Item {
	var out []Item
	for maxPops <= 0 || len(out) < maxPops {
		item, ok := q.popEligible(limit)
		if !ok {
			break
		}
		out = append(out, item)
		if maxSegment > 0 && len(out)%maxSegment == 0 {
			// segment boundary: callers may choose to process in batches;
			// nothing further to do here since out is already flat.
			continue
		}
	}
	return out
}

func (q *Queue) popEligible(limit uint64) (Item, bool) {
	return q.popWithSelector(func() []uint32 {
		var out []uint32
		for _, p := range q.order {
			b := q.buckets[p]
			if b == nil || b.Len() == 0 {
				continue
			}
			if uint64(b.peek().Score.Primary) <= limit {
				out = append(out, p)
			}
		}
		return out
	})
}
