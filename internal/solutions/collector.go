package solutions

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/obslog"
)

// Solution is a winning-route record: {elapsed, history[]}. ID is assigned
// by the collector at insert time and is the SolutionID half of a
// matchertrie.SuffixRef.
type Solution struct {
	ID      string
	Elapsed uint32
	History []geneng.HistoryStep
}

// InsertResult is the three-way outcome of Insert.
type InsertResult uint8

const (
	// Rejected: an existing entry for this solution's locations sequence
	// already beats it.
	Rejected InsertResult = iota
	// Accepted: this solution replaced (or created) the best entry for its
	// locations sequence, but its sequence is a subsequence of some other
	// stored solution's sequence (so it is not a new shape, just a faster
	// instance of one already known).
	Accepted
	// IsUnique: Accepted, and additionally no other stored solution's
	// sequence contains this one as a subsequence. A genuinely new
	// winning shape, worth feeding back into the matcher trie.
	IsUnique
)

type entry struct {
	solution  Solution
	locSeq    []locKey
	processed bool
}

// locKey identifies one collected location+item pair within a locations
// sequence, used for the subsequence comparisons the uniqueness relation
// is built on.
type locKey struct {
	item geneng.ItemID
	loc  geneng.LocationID
}

// Collector is the solution store: protected by a single mutex with a
// condition variable, held only for the duration of an insert or a clean.
type Collector struct {
	mu      sync.Mutex
	cond    *sync.Cond
	byKey   map[string]*entry
	order   []string // insertion order of byKey, for deterministic iteration
	nextSeq uint64
	closed  bool

	// OnAccept, if set, is invoked with the elapsed time of every accepted
	// solution (Accepted or IsUnique) while the collector's mutex is not
	// held, so it can safely call back into the queue's SetMaxTime without
	// risking a lock-order cycle.
	OnAccept func(elapsedMS uint32)

	// Log receives an Info event on every accepted solution. A nil Log
	// defaults to obslog.Discard().
	Log *obslog.Logger
}

// New returns an empty collector.
func New() *Collector {
	c := &Collector{byKey: make(map[string]*entry), Log: obslog.Discard()}
	c.cond = sync.NewCond(&c.mu)
	return c
}

func locationsSequence(history []geneng.HistoryStep) []locKey {
	var out []locKey
	for _, h := range history {
		if h.IsCollecting() {
			out = append(out, locKey{item: h.Item, loc: h.Loc})
		}
	}
	return out
}

func sequenceKey(seq []locKey) string {
	var b strings.Builder
	for i, k := range seq {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(string(k.loc))
		b.WriteByte(':')
		b.WriteString(string(k.item))
	}
	return b.String()
}

// isSubsequence reports whether a occurs as a (not necessarily contiguous)
// subsequence of b, in order.
func isSubsequence(a, b []locKey) bool {
	if len(a) > len(b) {
		return false
	}
	i := 0
	for _, v := range b {
		if i == len(a) {
			break
		}
		if v == a[i] {
			i++
		}
	}
	return i == len(a)
}

// Insert records sol, keyed by its locations sequence (the subsequence of
// Get/Hybrid steps in its history): accepted if it beats the existing
// entry for its key or no such entry exists; unique if its sequence is
// not a proper subsequence of any other stored solution's sequence.
// sol.ID is assigned on acceptance, visible to the caller through the
// pointer, so a solution can be traced back into the trie as a
// matchertrie.SuffixRef right after insertion.
func (c *Collector) Insert(sol *Solution) InsertResult {
	seq := locationsSequence(sol.History)
	key := sequenceKey(seq)

	c.mu.Lock()
	existing, hasExisting := c.byKey[key]
	if hasExisting && existing.solution.Elapsed <= sol.Elapsed {
		c.mu.Unlock()
		return Rejected
	}

	c.nextSeq++
	sol.ID = "sol-" + strconv.FormatUint(c.nextSeq, 36)
	e := &entry{solution: *sol, locSeq: seq}
	if !hasExisting {
		c.order = append(c.order, key)
	}
	c.byKey[key] = e

	unique := true
	for k, other := range c.byKey {
		if k == key {
			continue
		}
		if isSubsequence(seq, other.locSeq) {
			unique = false
			break
		}
	}

	c.cond.Broadcast()
	c.mu.Unlock()

	c.logAccepted(*sol, unique)

	if c.OnAccept != nil {
		c.OnAccept(sol.Elapsed)
	}
	if unique {
		return IsUnique
	}
	return Accepted
}

// logAccepted emits the Info event for a just-accepted solution.
func (c *Collector) logAccepted(sol Solution, unique bool) {
	log := c.Log
	if log == nil {
		log = obslog.Discard()
	}
	log.Info().
		Str("solution_id", sol.ID).
		Uint64("elapsed_ms", uint64(sol.Elapsed)).
		Bool("unique", unique).
		Log("solution accepted")
}

// Clean removes every stored solution whose locations sequence contains
// some other stored solution's shorter sequence as a (proper) subsequence:
// the longer route is redundant once a strictly more general winning shape
// is already known.
func (c *Collector) Clean() {
	c.mu.Lock()
	defer c.mu.Unlock()

	dominated := make(map[string]bool)
	for ak, a := range c.byKey {
		for bk, b := range c.byKey {
			if ak == bk {
				continue
			}
			if len(a.locSeq) < len(b.locSeq) && isSubsequence(a.locSeq, b.locSeq) {
				dominated[bk] = true
			}
		}
	}
	if len(dominated) == 0 {
		return
	}

	kept := c.order[:0:0]
	for _, k := range c.order {
		if dominated[k] {
			delete(c.byKey, k)
			continue
		}
		kept = append(kept, k)
	}
	c.order = kept
}

// Best returns the minimum elapsed time over every stored solution, and
// false if the collector is empty.
func (c *Collector) Best() (uint32, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	best := uint32(0)
	found := false
	for _, k := range c.order {
		e := c.byKey[k]
		if !found || e.solution.Elapsed < best {
			best = e.solution.Elapsed
			found = true
		}
	}
	return best, found
}

// Len reports the number of distinct locations-sequence keys stored.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Get returns the stored solution with the given ID (as assigned by
// Insert), for resolving a matchertrie.SuffixRef back to its source
// solution during trie-guided minimization.
func (c *Collector) Get(id string) (Solution, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.order {
		e := c.byKey[k]
		if e.solution.ID == id {
			return e.solution, true
		}
	}
	return Solution{}, false
}

// NextUnprocessed returns the first stored solution not yet marked
// processed, and marks it processed atomically so no two callers receive
// the same one.
func (c *Collector) NextUnprocessed() (Solution, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range c.order {
		e := c.byKey[k]
		if !e.processed {
			e.processed = true
			return e.solution, true
		}
	}
	return Solution{}, false
}

// All returns every stored solution, in insertion order, for use by the
// scheduler's periodic preview/export passes.
func (c *Collector) All() []Solution {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Solution, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.byKey[k].solution)
	}
	return out
}

// Wait blocks until either Insert accepts a solution, Close is called, or
// timeout elapses; the bound guards against a missed signal stalling a
// waiter forever. It returns false if the collector was closed while
// waiting.
func (c *Collector) Wait(timeout time.Duration) (ok bool) {
	timer := time.AfterFunc(timeout, func() {
		c.mu.Lock()
		c.cond.Broadcast()
		c.mu.Unlock()
	})
	defer timer.Stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.cond.Wait()
	}
	return !c.closed
}

// Close unblocks every waiter.
func (c *Collector) Close() {
	c.mu.Lock()
	c.closed = true
	c.cond.Broadcast()
	c.mu.Unlock()
}
