package graph

import (
	"sort"
	"strings"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/world"
)

// CondensedEdge is a precomputed contraction over a path of base edges: dst
// is reachable from the edge's source spot in CostMS milliseconds if
// Movement (when non-empty) is held and every exit in Reqs has been
// satisfied.
type CondensedEdge struct {
	Dst      geneng.SpotID
	CostMS   uint32
	Movement geneng.ItemID
	Reqs     []geneng.ExitID
}

// Graph is the per-spot condensed edge set.
type Graph struct {
	edges map[geneng.SpotID][]CondensedEdge
}

// Edges returns the condensed edges leaving spot, in construction order.
func (g *Graph) Edges(spot geneng.SpotID) []CondensedEdge {
	return append([]CondensedEdge(nil), g.edges[spot]...)
}

// Satisfiable reports whether s currently holds e's movement capability (if
// any) and every exit requirement in e.Reqs, under the convention (shared
// with internal/world/sample's Replay) that a condensed edge's exit
// requirement ExitID is met once s.Has treats it as an item of the same
// name. Condensed Reqs carry no richer requirement language of their own,
// having already been flattened out of the original exits' gating during
// condensation. Used by the scheduler's greedy expansion to prioritize or
// skip a direct-path attempt before paying for a breadth-first search.
func (e CondensedEdge) Satisfiable(s geneng.State) bool {
	if e.Movement != "" && !s.Has(e.Movement) {
		return false
	}
	for _, req := range e.Reqs {
		if !s.Has(geneng.ItemID(req)) {
			return false
		}
	}
	return true
}

// maxLabelsPerSpot bounds the Pareto frontier kept per destination during
// construction. The condensed graph feeds the scheduler's greedy
// expansion, which tolerates an approximate, not exhaustive, edge set; an
// unbounded frontier on a world with many incomparable movement
// capabilities could grow combinatorially.
const maxLabelsPerSpot = 32

// Build computes the condensed graph for w: for every spot, a Dijkstra over
// w.BaseEdges folds movement capabilities (joined via joinMovement) and
// gating requirements (unioned) along each path, keeping, for every
// destination, only the Pareto-undominated labels: for each start the
// returned edge set contains no two edges dominated by another edge to
// the same dst.
func Build(w world.World) *Graph {
	g := &Graph{edges: make(map[geneng.SpotID][]CondensedEdge)}
	for _, start := range w.Spots() {
		g.edges[start] = condenseFrom(w, start)
	}
	return g
}

// label is one Pareto-frontier entry during condensation: the cost,
// movement capability, and requirement set needed to reach a spot along one
// particular path from the source.
type label struct {
	cost     uint32
	movement geneng.ItemID
	reqs     []geneng.ExitID
}

// dominates reports whether a dominates b: a's requirements are a subset
// of b's, a's movement is a sub-capability of b's, and a is no more
// costly.
func (a label) dominates(b label) bool {
	return a.cost <= b.cost && isSubCapability(a.movement, b.movement) && reqsSubset(a.reqs, b.reqs)
}

func condenseFrom(w world.World, start geneng.SpotID) []CondensedEdge {
	frontier := map[geneng.SpotID][]label{start: {{cost: 0}}}
	pq := make(labelPQ, 0, 16)
	heapPush(&pq, labelItem{spot: start, label: label{cost: 0}})

	for pq.Len() > 0 {
		item := heapPop(&pq)
		cur := frontier[item.spot]
		stale := true
		for _, existing := range cur {
			if existing.cost == item.label.cost &&
				existing.movement == item.label.movement &&
				reqsEqual(existing.reqs, item.label.reqs) {
				stale = false
				break
			}
		}
		if stale {
			continue
		}

		for _, e := range w.BaseEdges(item.spot) {
			next := label{
				cost:     item.label.cost + e.CostMS,
				movement: joinMovement(item.label.movement, e.Movement),
				reqs:     unionReqs(item.label.reqs, e.Reqs),
			}
			if addLabel(frontier, e.To, next) {
				heapPush(&pq, labelItem{spot: e.To, label: next})
			}
		}
	}

	var out []CondensedEdge
	for _, spot := range w.Spots() {
		if spot == start || !w.IsSpotOfInterest(spot) {
			continue
		}
		for _, l := range frontier[spot] {
			out = append(out, CondensedEdge{Dst: spot, CostMS: l.cost, Movement: l.movement, Reqs: append([]geneng.ExitID(nil), l.reqs...)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Dst != out[j].Dst {
			return out[i].Dst < out[j].Dst
		}
		return out[i].CostMS < out[j].CostMS
	})
	return out
}

// addLabel inserts next into frontier[spot] if no existing label dominates
// it, pruning any labels next dominates. Reports whether next was kept.
func addLabel(frontier map[geneng.SpotID][]label, spot geneng.SpotID, next label) bool {
	existing := frontier[spot]
	for _, l := range existing {
		if l.dominates(next) {
			return false
		}
	}
	kept := existing[:0:0]
	for _, l := range existing {
		if !next.dominates(l) {
			kept = append(kept, l)
		}
	}
	if len(kept) >= maxLabelsPerSpot {
		return false
	}
	frontier[spot] = append(kept, next)
	return true
}

// joinMovement computes the join of two movement capabilities in the free
// join-semilattice over capability tokens: "" is the bottom element (a
// sub-capability of everything), and the join of two incomparable
// capabilities is their (canonically sorted) union.
func joinMovement(a, b geneng.ItemID) geneng.ItemID {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	if a == b {
		return a
	}
	set := make(map[string]bool)
	for _, tok := range strings.Split(string(a), "+") {
		set[tok] = true
	}
	for _, tok := range strings.Split(string(b), "+") {
		set[tok] = true
	}
	toks := make([]string, 0, len(set))
	for tok := range set {
		toks = append(toks, tok)
	}
	sort.Strings(toks)
	return geneng.ItemID(strings.Join(toks, "+"))
}

// isSubCapability reports whether a's capability set is a subset of b's
// under the joinMovement lattice (so holding b implies holding a).
func isSubCapability(a, b geneng.ItemID) bool {
	if a == "" {
		return true
	}
	if b == "" {
		return false
	}
	bSet := make(map[string]bool)
	for _, tok := range strings.Split(string(b), "+") {
		bSet[tok] = true
	}
	for _, tok := range strings.Split(string(a), "+") {
		if !bSet[tok] {
			return false
		}
	}
	return true
}

func unionReqs(a, b []geneng.ExitID) []geneng.ExitID {
	if len(a) == 0 {
		return append([]geneng.ExitID(nil), b...)
	}
	if len(b) == 0 {
		return append([]geneng.ExitID(nil), a...)
	}
	set := make(map[geneng.ExitID]bool, len(a)+len(b))
	for _, r := range a {
		set[r] = true
	}
	for _, r := range b {
		set[r] = true
	}
	out := make([]geneng.ExitID, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func reqsSubset(a, b []geneng.ExitID) bool {
	bSet := make(map[geneng.ExitID]bool, len(b))
	for _, r := range b {
		bSet[r] = true
	}
	for _, r := range a {
		if !bSet[r] {
			return false
		}
	}
	return true
}

func reqsEqual(a, b []geneng.ExitID) bool {
	return len(a) == len(b) && reqsSubset(a, b)
}
