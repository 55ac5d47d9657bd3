package sample

import (
	"errors"
	"sort"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/world"
)

// Errors returned by State.Replay, kept as small sentinels rather than
// ad-hoc fmt.Errorf strings, since callers (the scheduler's single-step
// expander, the minimizer's replay loop) branch on them.
var (
	ErrNotAtSpot       = errors.New("sample: not at the spot this step requires")
	ErrUnknownStep     = errors.New("sample: no matching exit/warp/action for step")
	ErrMissingCapability = errors.New("sample: required movement capability or requirement not held")
	ErrShortEncoding   = errors.New("sample: encoded state has the wrong length for this world")
)

// MoveLocalCostMS is the fixed cost of a within-area StepMoveLocal.
const MoveLocalCostMS = 1

// World is a tiny, fully in-memory world.World implementation.
type World struct {
	start     geneng.SpotID
	spots     []geneng.SpotID
	spotIndex map[geneng.SpotID]int

	locations []geneng.LocationID
	locSpot   map[geneng.LocationID]geneng.SpotID
	required  map[geneng.LocationID]bool
	locItem   map[geneng.LocationID]geneng.ItemID
	community map[geneng.LocationID]geneng.CommunityID
	canon     map[geneng.LocationID]geneng.CanonID

	trackedItems []geneng.ItemID

	exits map[geneng.SpotID][]world.Exit
	warps []world.Warp

	winLocs []geneng.LocationID
	hubs    map[geneng.SpotID]bool
	areas   map[geneng.SpotID]string
}

var _ world.World = (*World)(nil)

// Start returns a fresh initial State for this world.
func (w *World) Start() *State { return newState(w) }

func (w *World) Spots() []geneng.SpotID { return append([]geneng.SpotID(nil), w.spots...) }

func (w *World) Locations() []geneng.LocationID { return append([]geneng.LocationID(nil), w.locations...) }

func (w *World) Warps() []world.Warp { return append([]world.Warp(nil), w.warps...) }

func (w *World) Exits(spot geneng.SpotID) []world.Exit {
	return append([]world.Exit(nil), w.exits[spot]...)
}

func (w *World) Actions(geneng.SpotID) []world.Action { return nil }

func (w *World) LocationsAt(spot geneng.SpotID) []geneng.LocationID {
	var out []geneng.LocationID
	for _, loc := range w.locations {
		if w.locSpot[loc] == spot {
			out = append(out, loc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (w *World) ItemAt(loc geneng.LocationID) geneng.ItemID {
	if item, ok := w.locItem[loc]; ok {
		return item
	}
	return geneng.ItemID(loc)
}

func (w *World) IsGlobalAction(geneng.ActionID) bool { return false }

func (w *World) IsSpotOfInterest(spot geneng.SpotID) bool {
	if w.hubs[spot] {
		return true
	}
	if len(w.LocationsAt(spot)) > 0 {
		return true
	}
	for _, wp := range w.warps {
		if wp.To == spot {
			return true
		}
	}
	return false
}

func (w *World) SameArea(a, b geneng.SpotID) bool {
	return a == b || (w.areas[a] != "" && w.areas[a] == w.areas[b])
}

func (w *World) LocationCommunity(loc geneng.LocationID) geneng.CommunityID {
	return w.community[loc]
}

// LocationCanon returns loc's explicit canon group if one was configured,
// or loc itself as a singleton group otherwise.
func (w *World) LocationCanon(loc geneng.LocationID) geneng.CanonID {
	if c, ok := w.canon[loc]; ok {
		return c
	}
	return geneng.CanonID(loc)
}

// LocationsForItem returns every location whose granted item (via ItemAt,
// including its per-location default) equals item.
func (w *World) LocationsForItem(item geneng.ItemID) []geneng.LocationID {
	var out []geneng.LocationID
	for _, loc := range w.locations {
		if w.ItemAt(loc) == item {
			out = append(out, loc)
		}
	}
	return out
}

func (w *World) SkipUnusedItems(s geneng.State) geneng.State { return s }

// Won reports whether every win location is reached: visited, or the state
// currently stands at the spot that holds it.
func (w *World) Won(s geneng.State) bool {
	for _, loc := range w.winLocs {
		if !s.Visited(loc) && s.Position() != w.locSpot[loc] {
			return false
		}
	}
	return true
}

func (w *World) ItemsNeeded(s geneng.State) []geneng.ItemID {
	var out []geneng.ItemID
	for _, loc := range w.winLocs {
		if s.Visited(loc) {
			continue
		}
		out = append(out, w.ItemAt(loc))
	}
	return out
}

// NumCanonLocations counts distinct canon groups across every location,
// rather than every location individually, so locations sharing a canon
// (via LocationCanon) collapse into a single count.
func (w *World) NumCanonLocations() int {
	seen := make(map[geneng.CanonID]bool, len(w.locations))
	for _, loc := range w.locations {
		seen[w.LocationCanon(loc)] = true
	}
	return len(seen)
}

func (w *World) BaseEdges(spot geneng.SpotID) []world.BaseEdge {
	var out []world.BaseEdge
	for _, e := range w.exits[spot] {
		out = append(out, world.BaseEdge{From: e.From, To: e.To, CostMS: e.CostMS, Movement: e.Movement, Reqs: e.Reqs})
	}
	return out
}

func (w *World) BaseDistance(a, b geneng.SpotID) (uint32, bool) {
	for _, e := range w.exits[a] {
		if e.To == b && e.Movement == "" && len(e.Reqs) == 0 {
			return e.CostMS, true
		}
	}
	return 0, false
}

func (w *World) BestMovements(a, b geneng.SpotID) (*uint32, []world.MovementOption) {
	var baseline *uint32
	var opts []world.MovementOption
	for _, e := range w.exits[a] {
		if e.To != b {
			continue
		}
		if e.Movement == "" && len(e.Reqs) == 0 {
			cost := e.CostMS
			baseline = &cost
		} else if e.Movement != "" {
			opts = append(opts, world.MovementOption{Movement: e.Movement, CostMS: e.CostMS})
		}
	}
	return baseline, opts
}
