package observer

import (
	"hash/fnv"
	"sort"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/matchertrie"
	"github.com/arrowroute/analyzer/internal/world"
)

// posProperty is the trie's root property: every observation path this
// package builds starts with an exact match on the state's current spot,
// so that lookups partition on position before anything else.
const posProperty = matchertrie.Property("pos")

// Observer accumulates the observation set built while a caller walks a
// winning route backward, one step at a time.
type Observer struct {
	w world.World

	compare map[matchertrie.Property]matchertrie.IntegerObservation
	items   map[matchertrie.Property]geneng.ItemID // backs Update's per-property Shift

	visited map[matchertrie.Property]uint64
}

// New returns an empty observer for world w.
func New(w world.World) *Observer {
	return &Observer{
		w:       w,
		compare: make(map[matchertrie.Property]matchertrie.IntegerObservation),
		items:   make(map[matchertrie.Property]geneng.ItemID),
		visited: make(map[matchertrie.Property]uint64),
	}
}

// FromVictoryState returns a fresh observer seeded from the winning state
// won. The sample/generic engine has no game-specific "winning state"
// fields to seed beyond an empty set. Every concrete requirement is
// discovered as ObserveStep walks backward through the route's steps.
func FromVictoryState(w world.World, won geneng.State) *Observer {
	return New(w)
}

func itemProperty(item geneng.ItemID) matchertrie.Property {
	return matchertrie.Property("item:" + string(item))
}

func visitedProperty(loc geneng.LocationID) matchertrie.Property {
	return matchertrie.Property("visited:" + string(loc))
}

// require folds a "must hold at least one of item" requirement into the
// observer's compare set, combining with any existing bound on the same
// property via the observation lattice. A contradiction (this route's
// steps imposing incompatible bounds on the same property) is dropped
// silently, keeping the existing bound, which matches more states than the
// combined bounds would.
func (o *Observer) require(item geneng.ItemID) {
	prop := itemProperty(item)
	next := matchertrie.GeObservation(1)
	if cur, ok := o.compare[prop]; ok {
		if combined, err := cur.Combine(next); err == nil {
			o.compare[prop] = combined
		}
		return
	}
	o.compare[prop] = next
	o.items[prop] = item
}

// observeVisit records whether loc was visited at the state currently
// under examination.
func (o *Observer) observeVisit(loc geneng.LocationID, visited bool) {
	var v uint64
	if visited {
		v = 1
	}
	o.visited[visitedProperty(loc)] = v
}

// ObserveStep records what `from` (the state immediately before step was
// replayed) needed to hold for step to be a legal child.
func (o *Observer) ObserveStep(from geneng.State, step geneng.HistoryStep) {
	switch step.Kind {
	case geneng.StepGet:
		o.observeVisit(step.Loc, from.Visited(step.Loc))

	case geneng.StepHybrid, geneng.StepExit:
		o.observeExit(from, step.Exit)
		if step.Kind == geneng.StepHybrid {
			o.observeVisit(step.Loc, from.Visited(step.Loc))
		}

	case geneng.StepWarp:
		o.observeWarp(step.Spot)

	case geneng.StepMoveLocal, geneng.StepActivate:
		// MoveLocal is gated only by SameArea (not a property of S); the
		// sample engine's Action carries no requirement field to observe.
	}
}

func (o *Observer) observeExit(from geneng.State, exitID geneng.ExitID) {
	for _, e := range o.w.Exits(from.Position()) {
		if e.ID != exitID {
			continue
		}
		if e.Movement != "" {
			o.require(e.Movement)
		}
		for _, req := range e.Reqs {
			o.require(geneng.ItemID(req))
		}
		return
	}
}

func (o *Observer) observeWarp(spot geneng.SpotID) {
	for _, wp := range o.w.Warps() {
		if wp.To != spot {
			continue
		}
		if wp.Requirement != "" {
			o.require(wp.Requirement)
		}
		return
	}
}

// Update re-anchors every tracked compare-kind bound from referring to
// `from` to referring to `to` (the state immediately prior to `from` in
// the backward walk): a bound of "count >= k" observed at `from` becomes
// "count >= k + (to.Count - from.Count)" at `to`, since items are only
// ever gained moving forward in time.
func (o *Observer) Update(from, to geneng.State) {
	for prop, item := range o.items {
		shift := int64(to.Count(item)) - int64(from.Count(item))
		if shift == 0 {
			continue
		}
		o.compare[prop] = o.compare[prop].Shift(shift)
	}
}

// ToVec exports the accumulated observation list for state, root-first
// (an exact match on the current spot).
func (o *Observer) ToVec(state geneng.State) []matchertrie.Observation {
	out := []matchertrie.Observation{
		matchertrie.ExactObservation(posProperty, hashSpot(state.Position())),
	}

	props := make([]matchertrie.Property, 0, len(o.compare))
	for p := range o.compare {
		props = append(props, p)
	}
	sort.Slice(props, func(i, j int) bool { return props[i] < props[j] })
	for _, p := range props {
		out = append(out, matchertrie.CompareObservation(p, o.compare[p]))
	}

	vprops := make([]matchertrie.Property, 0, len(o.visited))
	for p := range o.visited {
		vprops = append(vprops, p)
	}
	sort.Slice(vprops, func(i, j int) bool { return vprops[i] < vprops[j] })
	for _, p := range vprops {
		out = append(out, matchertrie.ExactObservation(p, o.visited[p]))
	}
	return out
}

// hashSpot maps a SpotID to a stable uint64 dispatch key. The trie only
// ever compares these hashes for equality (never interprets them), so an
// FNV-1a hash is sufficient; a collision would merge two spots' matcher
// branches, which is a harmless optimization loss rather than a
// correctness bug, since a false match is always checked by a real replay
// before it is relied on.
func hashSpot(spot geneng.SpotID) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(spot))
	return h.Sum64()
}
