package storage

import (
	"bytes"
	"errors"
	"sort"
	"sync"
)

// ErrNotFound is returned by Get when key is absent.
var ErrNotFound = errors.New("storage: key not found")

// KV is the contract the queue's cold tier is written against: point
// lookups, unconditional writes, an atomic read-modify-write merge, and
// ordered range iteration (the queue's cold tier relies on range iteration
// to recover the lowest-keyed entries across all its keys).
type KV interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	// Merge atomically replaces key's value with fn(existing, foundTrue).
	// fn must be pure; it may be invoked more than once under contention.
	Merge(key []byte, fn func(existing []byte, found bool) []byte) error
	// Range calls visit for every key in [start, end) (end exclusive; a nil
	// end means "through the last key") in ascending byte order, stopping
	// early if visit returns false.
	Range(start, end []byte, visit func(key, value []byte) bool) error
	Len() int
}

// Memory is an in-memory KV reference backend. It is not meant to survive a
// process restart; it exists so the engine has a concrete, always-available
// KV to run against without depending on an external embedded-KV library
// (see doc.go).
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
	keys [][]byte // kept sorted, parallel index to data's keys
}

// NewMemory returns an empty in-memory KV.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *Memory) Put(key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putLocked(key, value)
	return nil
}

func (m *Memory) putLocked(key, value []byte) {
	k := string(key)
	if _, exists := m.data[k]; !exists {
		m.insertSortedLocked(append([]byte(nil), key...))
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.data[k] = v
}

func (m *Memory) insertSortedLocked(key []byte) {
	i := sort.Search(len(m.keys), func(i int) bool { return bytes.Compare(m.keys[i], key) >= 0 })
	m.keys = append(m.keys, nil)
	copy(m.keys[i+1:], m.keys[i:])
	m.keys[i] = key
}

func (m *Memory) Delete(key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := string(key)
	if _, ok := m.data[k]; !ok {
		return nil
	}
	delete(m.data, k)
	i := sort.Search(len(m.keys), func(i int) bool { return bytes.Compare(m.keys[i], key) >= 0 })
	if i < len(m.keys) && bytes.Equal(m.keys[i], key) {
		m.keys = append(m.keys[:i], m.keys[i+1:]...)
	}
	return nil
}

func (m *Memory) Merge(key []byte, fn func(existing []byte, found bool) []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, found := m.data[string(key)]
	next := fn(existing, found)
	m.putLocked(key, next)
	return nil
}

func (m *Memory) Range(start, end []byte, visit func(key, value []byte) bool) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, k := range m.keys {
		if start != nil && bytes.Compare(k, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(k, end) >= 0 {
			break
		}
		if !visit(k, m.data[string(k)]) {
			break
		}
	}
	return nil
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.keys)
}
