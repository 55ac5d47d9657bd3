package sample

import (
	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/world"
)

// NewEmptyWorld returns a one-spot world where start already satisfies the
// victory condition.
func NewEmptyWorld() *World {
	w := &World{
		start:     "A",
		spots:     []geneng.SpotID{"A"},
		spotIndex: map[geneng.SpotID]int{"A": 0},
		locSpot:   map[geneng.LocationID]geneng.SpotID{},
		required:  map[geneng.LocationID]bool{},
		locItem:   map[geneng.LocationID]geneng.ItemID{},
		community: map[geneng.LocationID]geneng.CommunityID{},
		exits:     map[geneng.SpotID][]world.Exit{},
		hubs:      map[geneng.SpotID]bool{},
		areas:     map[geneng.SpotID]string{},
	}
	return w
}

// NewLinearChain returns A--10ms-->B--10ms-->C with the victory condition
// "visited C" (no location there, arrival alone wins). The optimal solution
// is exit(A->B), exit(B->C), elapsed 20.
func NewLinearChain() *World {
	w := &World{
		start: "A",
		spots: []geneng.SpotID{"A", "B", "C"},
		spotIndex: map[geneng.SpotID]int{"A": 0, "B": 1, "C": 2},
		locSpot:   map[geneng.LocationID]geneng.SpotID{},
		required:  map[geneng.LocationID]bool{},
		locItem:   map[geneng.LocationID]geneng.ItemID{},
		community: map[geneng.LocationID]geneng.CommunityID{},
		hubs:      map[geneng.SpotID]bool{"B": true},
		areas:     map[geneng.SpotID]string{},
	}
	w.exits = map[geneng.SpotID][]world.Exit{
		"A": {{ID: "A->B", From: "A", To: "B", CostMS: 10}},
		"B": {{ID: "B->C", From: "B", To: "C", CostMS: 10}},
	}
	// "visited C" win condition: atC is a synthetic win location at C, and
	// Won counts a win location as reached once the state stands at its
	// spot, so arriving at C wins without a Get step.
	w.locations = []geneng.LocationID{"atC"}
	w.locSpot["atC"] = "C"
	w.required["atC"] = true
	w.winLocs = []geneng.LocationID{"atC"}
	w.community["atC"] = "default"
	return w
}

// NewGatedShortcut returns a three-spot world where A->C is a direct, cheap
// exit gated on an item collected at B: greedy mode must find A->B(get)->C.
//
//   A --(ungated)--> B, cost 15
//   B --(get "key")--> (location at B), cost 0
//   B --(ungated)--> C, cost 15
//   A --(requires "key")--> C, cost 12
//
// The shortest route ignoring the gate (A->C direct) is cheaper in time
// but infeasible without the key; the feasible optimum is A->B(get
// key)->C at elapsed 30, which must beat the two-hop-without-key plan
// (there is none, since only the gated edge connects A and C directly).
func NewGatedShortcut() *World {
	w := &World{
		start: "A",
		spots: []geneng.SpotID{"A", "B", "C"},
		spotIndex: map[geneng.SpotID]int{"A": 0, "B": 1, "C": 2},
		locations: []geneng.LocationID{"keyLoc", "atC"},
		locSpot: map[geneng.LocationID]geneng.SpotID{
			"keyLoc": "B",
			"atC":    "C",
		},
		locItem: map[geneng.LocationID]geneng.ItemID{
			"keyLoc": "key",
		},
		required: map[geneng.LocationID]bool{
			"keyLoc": true,
			"atC":    true,
		},
		community: map[geneng.LocationID]geneng.CommunityID{
			"keyLoc": "default",
			"atC":    "default",
		},
		hubs:    map[geneng.SpotID]bool{"B": true},
		areas:   map[geneng.SpotID]string{},
		winLocs: []geneng.LocationID{"atC"},
	}
	w.exits = map[geneng.SpotID][]world.Exit{
		"A": {
			{ID: "A->B", From: "A", To: "B", CostMS: 15},
			{ID: "A->C", From: "A", To: "C", CostMS: 12, Reqs: []geneng.ExitID{"key"}},
		},
		"B": {
			{ID: "B->C", From: "B", To: "C", CostMS: 15},
		},
	}
	return w
}

// NewSharedCanonPair returns a world where two locations at different spots
// share a canon group: loc1 at B (10ms from A) and loc2 at C (30ms from A),
// both grouped under canon "heart". Reaching either satisfies the group, so
// the Steiner estimate for the pair equals the cheaper single distance, not
// the sum of both.
func NewSharedCanonPair() *World {
	w := &World{
		start:     "A",
		spots:     []geneng.SpotID{"A", "B", "C"},
		spotIndex: map[geneng.SpotID]int{"A": 0, "B": 1, "C": 2},
		locations: []geneng.LocationID{"loc1", "loc2"},
		locSpot: map[geneng.LocationID]geneng.SpotID{
			"loc1": "B",
			"loc2": "C",
		},
		locItem: map[geneng.LocationID]geneng.ItemID{
			"loc1": "heart1",
			"loc2": "heart2",
		},
		required: map[geneng.LocationID]bool{
			"loc1": true,
			"loc2": true,
		},
		community: map[geneng.LocationID]geneng.CommunityID{
			"loc1": "default",
			"loc2": "default",
		},
		canon: map[geneng.LocationID]geneng.CanonID{
			"loc1": "heart",
			"loc2": "heart",
		},
		hubs:  map[geneng.SpotID]bool{},
		areas: map[geneng.SpotID]string{},
	}
	w.exits = map[geneng.SpotID][]world.Exit{
		"A": {
			{ID: "A->B", From: "A", To: "B", CostMS: 10},
			{ID: "A->C", From: "A", To: "C", CostMS: 30},
		},
	}
	return w
}
