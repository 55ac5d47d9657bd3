// Package sample provides a tiny, deterministic world used across the
// repository's tests and by the CLI when no real game world is configured.
package sample

import (
	"sort"

	"github.com/arrowroute/analyzer/internal/geneng"
)

// State is a minimal geneng.State: a current spot, a set of visited
// locations, and a multiset of held items. Its Encode form is fixed-width:
// 1 byte for position index, 1 byte bitmask for visited locations (up to 8
// locations), and one byte per tracked item's count (capped at 255).
type State struct {
	w        *World
	spot     geneng.SpotID
	visited  map[geneng.LocationID]bool
	items    map[geneng.ItemID]int
	visits   int // CountVisits: required visits completed
}

var _ geneng.State = (*State)(nil)

func newState(w *World) *State {
	return &State{
		w:       w,
		spot:    w.start,
		visited: make(map[geneng.LocationID]bool),
		items:   make(map[geneng.ItemID]int),
	}
}

func (s *State) Has(item geneng.ItemID) bool { return s.items[item] > 0 }

func (s *State) Count(item geneng.ItemID) int { return s.items[item] }

func (s *State) Position() geneng.SpotID { return s.spot }

func (s *State) Visited(loc geneng.LocationID) bool { return s.visited[loc] }

func (s *State) Todo(loc geneng.LocationID) bool {
	_, known := s.w.locSpot[loc]
	return known && !s.visited[loc]
}

func (s *State) CountVisits() int { return s.visits }

func (s *State) Clone() geneng.State {
	out := &State{
		w:       s.w,
		spot:    s.spot,
		visited: make(map[geneng.LocationID]bool, len(s.visited)),
		items:   make(map[geneng.ItemID]int, len(s.items)),
		visits:  s.visits,
	}
	for k, v := range s.visited {
		out.visited[k] = v
	}
	for k, v := range s.items {
		out.items[k] = v
	}
	return out
}

func (s *State) Equal(other geneng.State) bool {
	o, ok := other.(*State)
	if !ok {
		return false
	}
	if s.spot != o.spot || len(s.visited) != len(o.visited) || len(s.items) != len(o.items) {
		return false
	}
	for k, v := range s.visited {
		if o.visited[k] != v {
			return false
		}
	}
	for k, v := range s.items {
		if o.items[k] != v {
			return false
		}
	}
	return true
}

func (s *State) Encode() []byte {
	out := make([]byte, 0, 2+len(s.w.trackedItems))
	out = append(out, byte(s.w.spotIndex[s.spot]))

	var mask byte
	for i, loc := range s.w.sortedLocations() {
		if s.visited[loc] {
			mask |= 1 << uint(i)
		}
	}
	out = append(out, mask)

	for _, item := range s.w.trackedItems {
		c := s.items[item]
		if c > 255 {
			c = 255
		}
		out = append(out, byte(c))
	}
	return out
}

// DecodeState is the inverse of State.Encode, rebuilding a State from
// exactly the bytes Encode produced against the same World.
func (w *World) DecodeState(b []byte) (geneng.State, error) {
	if len(b) != 2+len(w.trackedItems) {
		return nil, ErrShortEncoding
	}
	idx := int(b[0])
	if idx < 0 || idx >= len(w.spots) {
		return nil, ErrUnknownStep
	}

	st := newState(w)
	st.spot = w.spots[idx]

	mask := b[1]
	for i, loc := range w.sortedLocations() {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		st.visited[loc] = true
		if w.required[loc] {
			st.visits++
		}
	}

	for i, item := range w.trackedItems {
		st.items[item] = int(b[2+i])
	}
	return st, nil
}

// applyGet marks loc visited and grants item, bumping the visit counter if
// loc is one of the world's required locations.
func (s *State) applyGet(w *World, item geneng.ItemID, loc geneng.LocationID) {
	if !s.visited[loc] {
		s.visited[loc] = true
		if w.required[loc] {
			s.visits++
		}
	}
	s.items[item]++
}

func (w *World) sortedLocations() []geneng.LocationID {
	out := append([]geneng.LocationID(nil), w.locations...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
