package world

import "github.com/arrowroute/analyzer/internal/geneng"

// Exit is a directed edge between two spots, possibly gated, carrying a
// fixed time cost.
type Exit struct {
	ID       geneng.ExitID
	From, To geneng.SpotID
	CostMS   uint32
	Movement geneng.ItemID // "" if no movement capability required
	Reqs     []geneng.ExitID
	Hybrid   bool          // true if traversing it also collects a location
	Item     geneng.ItemID // populated only when Hybrid
	Loc      geneng.LocationID
}

// Warp is a spot-to-spot teleport.
type Warp struct {
	ID          geneng.WarpID
	To          geneng.SpotID
	CostMS      uint32
	Requirement geneng.ItemID // "" if unconditional
}

// Action is a non-location action performable from (or globally at) a spot.
type Action struct {
	ID     geneng.ActionID
	Spot   geneng.SpotID // zero value if IsGlobalAction
	CostMS uint32
}

// BaseEdge is one raw spot-to-spot traversal primitive the condensed graph
// builder contracts over.
type BaseEdge struct {
	From, To geneng.SpotID
	CostMS   uint32
	Movement geneng.ItemID
	Reqs     []geneng.ExitID
}

// MovementOption is one (movement capability, cost) alternative for
// traveling between two spots, as returned by World.BestMovements.
type MovementOption struct {
	Movement geneng.ItemID
	CostMS   uint32
}

// World is the read-only game-graph contract. All methods must be
// deterministic and side-effect free; concrete implementations are
// expected to precompute anything expensive in a constructor.
type World interface {
	// Spots enumerates every spot in the graph.
	Spots() []geneng.SpotID
	// Locations enumerates every location.
	Locations() []geneng.LocationID
	// Warps enumerates every warp.
	Warps() []Warp
	// Exits enumerates the exits leaving spot.
	Exits(spot geneng.SpotID) []Exit
	// Actions enumerates the actions performable at spot (plus global
	// actions, for which IsGlobalAction returns true).
	Actions(spot geneng.SpotID) []Action
	// LocationsAt enumerates the locations present at spot.
	LocationsAt(spot geneng.SpotID) []geneng.LocationID
	// ItemAt returns the item granted by collecting loc, used by the
	// scheduler's single-step expander to build a StepGet history step.
	ItemAt(loc geneng.LocationID) geneng.ItemID

	// IsGlobalAction reports whether action can be performed regardless of
	// current position.
	IsGlobalAction(action geneng.ActionID) bool
	// IsSpotOfInterest reports whether spot has locations, is a warp
	// target, or is a graph hub: the condition under which the condensed
	// graph builder computes a path to it.
	IsSpotOfInterest(spot geneng.SpotID) bool
	// SameArea reports whether two spots belong to the same local-movement
	// area.
	SameArea(a, b geneng.SpotID) bool
	// LocationCommunity returns the opaque partition label used by greedy
	// expansion; assumed reflexive and total.
	LocationCommunity(loc geneng.LocationID) geneng.CommunityID
	// LocationCanon returns the canonical grouping key for loc. Locations
	// that share a canon are interchangeable for planning: collecting any
	// one of them satisfies the group, so the Steiner scorer treats them as
	// a single target instead of requiring each separately.
	LocationCanon(loc geneng.LocationID) geneng.CanonID
	// LocationsForItem returns every location that grants item, used to
	// turn an outstanding item requirement (from ItemsNeeded) into one or
	// more concrete Steiner targets.
	LocationsForItem(item geneng.ItemID) []geneng.LocationID

	// SkipUnusedItems returns a (possibly identical) state with any items
	// masked out that can never matter for the victory condition from s,
	// letting the Steiner scorer shrink its required-target set.
	SkipUnusedItems(s geneng.State) geneng.State
	// Won reports whether s satisfies the victory condition.
	Won(s geneng.State) bool
	// ItemsNeeded returns the items still required to win from s.
	ItemsNeeded(s geneng.State) []geneng.ItemID

	// NumCanonLocations returns the count of distinct canonical-location
	// groups across the whole location set.
	NumCanonLocations() int
	// BaseEdges returns the raw traversal primitives leaving spot.
	BaseEdges(spot geneng.SpotID) []BaseEdge
	// BaseDistance returns the unconditional (no-capability) distance
	// between two spots, if any path exists without requiring any
	// movement capability or gated exit.
	BaseDistance(a, b geneng.SpotID) (costMS uint32, ok bool)
	// BestMovements returns, for the pair (a,b), the no-capability
	// baseline cost (nil if no unconditional path exists) and the list of
	// (movement capability, cost) alternatives that can improve on it.
	BestMovements(a, b geneng.SpotID) (baseline *uint32, options []MovementOption)

	// DecodeState is the inverse of a State's own Encode(): it reconstructs
	// a State from exactly the bytes that World produced it from. Needed
	// anywhere a State must be rehydrated outside process memory, e.g. the
	// queue's cold tier.
	DecodeState(b []byte) (geneng.State, error)
}
