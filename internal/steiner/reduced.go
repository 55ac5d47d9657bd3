package steiner

import (
	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/world"
)

// vertexID identifies one node of the reduced graph: a spot, an
// uncollected-location target, or a canon group tying several locations
// together, each tagged so the three ID spaces never collide.
type vertexID string

func spotVertex(s geneng.SpotID) vertexID      { return "s:" + vertexID(s) }
func locVertex(l geneng.LocationID) vertexID   { return "l:" + vertexID(l) }
func canonVertex(c geneng.CanonID) vertexID    { return "c:" + vertexID(c) }

type edge struct {
	to     vertexID
	costMS uint32
}

// reducedGraph is the sparse graph used for Steiner-tree estimation: spots,
// connected by base spot-to-spot distances; a zero-cost edge from each
// location to the spot it sits at; and a zero-cost edge from each location
// to its canon-group vertex, so that locations sharing a canon collapse
// onto a single Steiner-tree target.
type reducedGraph struct {
	adjacency map[vertexID][]edge
	locSpot   map[geneng.LocationID]vertexID
	target    map[geneng.LocationID]vertexID
}

// targetVertex returns the vertex a Steiner-tree query should attach for
// loc: its canon-group vertex when one was built, or its own location
// vertex otherwise.
func (g *reducedGraph) targetVertex(loc geneng.LocationID) vertexID {
	if v, ok := g.target[loc]; ok {
		return v
	}
	return locVertex(loc)
}

func buildReducedGraph(w world.World) *reducedGraph {
	g := &reducedGraph{
		adjacency: make(map[vertexID][]edge),
		locSpot:   make(map[geneng.LocationID]vertexID),
		target:    make(map[geneng.LocationID]vertexID),
	}

	spots := w.Spots()
	for _, s := range spots {
		sv := spotVertex(s)
		if _, ok := g.adjacency[sv]; !ok {
			g.adjacency[sv] = nil
		}
		for _, loc := range w.LocationsAt(s) {
			lv := locVertex(loc)
			g.locSpot[loc] = sv
			g.adjacency[sv] = append(g.adjacency[sv], edge{to: lv, costMS: 0})
			g.adjacency[lv] = append(g.adjacency[lv], edge{to: sv, costMS: 0})

			cv := canonVertex(w.LocationCanon(loc))
			g.target[loc] = cv
			g.adjacency[lv] = append(g.adjacency[lv], edge{to: cv, costMS: 0})
			g.adjacency[cv] = append(g.adjacency[cv], edge{to: lv, costMS: 0})
		}
	}

	for _, a := range spots {
		for _, b := range spots {
			if a == b {
				continue
			}
			if cost, ok := w.BaseDistance(a, b); ok {
				g.adjacency[spotVertex(a)] = append(g.adjacency[spotVertex(a)], edge{to: spotVertex(b), costMS: cost})
			}
		}
	}

	return g
}
