package scheduler

import (
	"sort"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/graph"
	"github.com/arrowroute/analyzer/internal/steiner"
	"github.com/arrowroute/analyzer/internal/world"
)

// GreedyDepthCap bounds the breadth-first search bfsToLocation runs before
// giving up on a target.
const GreedyDepthCap = 4096

// GreedySearch repeatedly targets the nearest remaining location and
// expands toward it breadth-first: pick the best-ranked remaining target,
// breadth-first search toward it, repeat until won or stuck. Returns the
// final wrapper and whether it reached a winning state.
//
// cg, the condensed graph, is consulted first: a target reachable by a
// condensed edge whose movement and requirements the current state already
// satisfies gets that edge's exact cost as its ranking key, a tighter,
// already-feasibility-checked number than the Steiner lower bound, so
// provably-direct targets are tried before the rest. cg may be nil, in
// which case every target falls back to the Steiner estimate.
func GreedySearch(w world.World, scorer *steiner.Scorer, cg *graph.Graph, start geneng.Wrapper, maxTime uint32) (geneng.Wrapper, bool) {
	wrap := start
	locSpots := locationSpots(w)
	for {
		if w.Won(wrap.State) {
			return wrap, true
		}
		remaining := remainingLocations(w, wrap.State)
		if len(remaining) == 0 {
			return wrap, false
		}
		sort.Slice(remaining, func(i, j int) bool {
			return targetRank(w, scorer, cg, locSpots, wrap.State, remaining[i]) <
				targetRank(w, scorer, cg, locSpots, wrap.State, remaining[j])
		})

		reached := false
		for _, loc := range remaining {
			if next, ok := bfsToLocation(w, wrap, loc, maxTime); ok {
				wrap = next
				reached = true
				break
			}
		}
		if !reached {
			return wrap, false
		}
	}
}

// locationSpots maps every location to the spot it sits at, for looking up
// whether a condensed edge's destination matches a greedy target.
func locationSpots(w world.World) map[geneng.LocationID]geneng.SpotID {
	out := make(map[geneng.LocationID]geneng.SpotID)
	for _, spot := range w.Spots() {
		for _, loc := range w.LocationsAt(spot) {
			out[loc] = spot
		}
	}
	return out
}

// targetRank is the greedy ordering key for loc from state: the cheapest
// condensed edge directly reaching loc's spot that state already satisfies,
// or the Steiner estimate when no such edge exists.
func targetRank(w world.World, scorer *steiner.Scorer, cg *graph.Graph, locSpots map[geneng.LocationID]geneng.SpotID, state geneng.State, loc geneng.LocationID) uint64 {
	if cg != nil {
		if spot, ok := locSpots[loc]; ok {
			best, found := uint64(0), false
			for _, e := range cg.Edges(state.Position()) {
				if e.Dst != spot || !e.Satisfiable(state) {
					continue
				}
				if !found || uint64(e.CostMS) < best {
					best, found = uint64(e.CostMS), true
				}
			}
			if found {
				return best
			}
		}
	}
	return scorer.Estimate(state.Position(), []geneng.LocationID{loc})
}

// remainingLocations turns the items still needed to win from s (per
// World.ItemsNeeded) into the concrete, not-yet-visited locations that
// grant them. Every not-yet-visited location granting a needed item is
// listed once; canon groups are not consulted here.
func remainingLocations(w world.World, s geneng.State) []geneng.LocationID {
	var out []geneng.LocationID
	seen := make(map[geneng.LocationID]bool)
	for _, item := range w.ItemsNeeded(s) {
		for _, loc := range w.LocationsForItem(item) {
			if seen[loc] || !s.Todo(loc) {
				continue
			}
			seen[loc] = true
			out = append(out, loc)
		}
	}
	return out
}

// bfsToLocation breadth-first searches Expand's children, bounded by
// GreedyDepthCap nodes visited, for the first wrapper that has collected
// loc.
func bfsToLocation(w world.World, start geneng.Wrapper, loc geneng.LocationID, maxTime uint32) (geneng.Wrapper, bool) {
	type node struct{ wrap geneng.Wrapper }
	seen := make(map[string]bool)
	seen[string(start.State.Encode())] = true
	queue := []node{{start}}

	visited := 0
	for len(queue) > 0 && visited < GreedyDepthCap {
		cur := queue[0]
		queue = queue[1:]
		visited++

		children := Expand(w, cur.wrap, maxTime)
		for _, child := range children {
			if child.State.Visited(loc) {
				return child, true
			}
			key := string(child.State.Encode())
			if seen[key] {
				continue
			}
			seen[key] = true
			queue = append(queue, node{child})
		}
	}
	return geneng.Wrapper{}, false
}
