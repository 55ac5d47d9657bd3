package statedb

import (
	"sync"

	"github.com/arrowroute/analyzer/internal/geneng"
)

// Flags tracks a state's lifecycle: pushed as preserved (unqueued,
// unprocessed), may become queued when popped by a worker, and processed
// once its children have been enumerated. A state may also be marked won
// if it satisfies the victory condition.
type Flags struct {
	Processed bool
	Queued    bool
	Won       bool
}

// Record is the DB's value type: best times seen so far, lifecycle flags,
// and an optional backpointer to the predecessor state and the history
// step that reached this one from it.
type Record struct {
	Times    geneng.BestTimes
	Flags    Flags
	HasPrev  bool
	PrevKey  string
	LastStep geneng.HistoryStep
}

// DB is the seen store: key = a state's Encode() form as a string.
type DB struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// New returns an empty seen store.
func New() *DB {
	return &DB{records: make(map[string]*Record)}
}

// Get returns the record for key, if any.
func (db *DB) Get(key string) (Record, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	r, ok := db.records[key]
	if !ok {
		return Record{}, false
	}
	return *r, true
}

// MinMerge associatively merges times into key's record (creating it if
// absent), retaining the componentwise minimum of the numeric fields.
// Idempotent on repeat.
func (db *DB) MinMerge(key string, times geneng.BestTimes) Record {
	db.mu.Lock()
	defer db.mu.Unlock()
	r, ok := db.records[key]
	if !ok {
		r = &Record{Times: times}
		db.records[key] = r
		return *r
	}
	r.Times = r.Times.Merge(times)
	return *r
}

// RecordOne merges child's times and, if elapsed strictly improved,
// rewrites child's backpointer to (prevKey, step) and reports true so the
// caller requeues it.
func (db *DB) RecordOne(childKey string, times geneng.BestTimes, prevKey string, step geneng.HistoryStep) (improved bool, rec Record) {
	db.mu.Lock()
	defer db.mu.Unlock()

	r, ok := db.records[childKey]
	if !ok {
		r = &Record{Times: times}
		db.records[childKey] = r
	}

	before := r.Times
	hadRecord := ok
	if hadRecord {
		r.Times = r.Times.Merge(times)
	}

	if !hadRecord || times.Elapsed < before.Elapsed {
		r.HasPrev = true
		r.PrevKey = prevKey
		r.LastStep = step
		improved = true
	}
	return improved, *r
}

// ChildUpdate is one child produced by expanding a processed state, as
// passed to RecordProcessed.
type ChildUpdate struct {
	Key   string
	Times geneng.BestTimes
	Step  geneng.HistoryStep
}

// RecordProcessed batches RecordOne over children and marks prevKey
// processed. Returns the subset of children whose elapsed strictly
// improved (callers requeue only those).
func (db *DB) RecordProcessed(prevKey string, children []ChildUpdate) []ChildUpdate {
	var improved []ChildUpdate
	for _, c := range children {
		if ok, _ := db.RecordOne(c.Key, c.Times, prevKey, c.Step); ok {
			improved = append(improved, c)
		}
	}

	db.mu.Lock()
	if r, ok := db.records[prevKey]; ok {
		r.Flags.Processed = true
	} else {
		db.records[prevKey] = &Record{Flags: Flags{Processed: true}}
	}
	db.mu.Unlock()

	return improved
}

// RememberProcessed atomically tests and sets the processed flag for key,
// returning true if it was already set, in which case the caller must
// skip expanding it: no state is ever expanded twice.
func (db *DB) RememberProcessed(key string) (alreadyProcessed bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	r, ok := db.records[key]
	if !ok {
		db.records[key] = &Record{Flags: Flags{Processed: true}}
		return false
	}
	if r.Flags.Processed {
		return true
	}
	r.Flags.Processed = true
	return false
}

// SetQueued updates a record's queued flag, creating it if absent.
func (db *DB) SetQueued(key string, queued bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	r, ok := db.records[key]
	if !ok {
		r = &Record{}
		db.records[key] = r
	}
	r.Flags.Queued = queued
}

// MarkWon records that key satisfies the victory condition.
func (db *DB) MarkWon(key string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	r, ok := db.records[key]
	if !ok {
		r = &Record{}
		db.records[key] = r
	}
	r.Flags.Won = true
}

// GetHistory walks key's backpointer chain to the start state, returning
// the steps in forward (start-to-key) order.
func (db *DB) GetHistory(key string) []geneng.HistoryStep {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var reversed []geneng.HistoryStep
	cur := key
	for {
		r, ok := db.records[cur]
		if !ok || !r.HasPrev {
			break
		}
		reversed = append(reversed, r.LastStep)
		cur = r.PrevKey
	}

	out := make([]geneng.HistoryStep, len(reversed))
	for i, step := range reversed {
		out[len(reversed)-1-i] = step
	}
	return out
}

// Len reports the number of distinct states recorded.
func (db *DB) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.records)
}
