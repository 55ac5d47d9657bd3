package steiner

import (
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/world"
)

// Scorer is the built-once lower-bound estimator. Build is expensive
// (all-pairs shortest paths); Estimate is cheap and safe for concurrent use
// from every search worker.
type Scorer struct {
	graph *reducedGraph
	apsp  map[vertexID]map[vertexID]uint32

	mu   sync.RWMutex
	memo map[string]uint64
}

// NewScorer builds the reduced graph and its all-pairs shortest paths.
func NewScorer(w world.World) *Scorer {
	g := buildReducedGraph(w)
	return &Scorer{
		graph: g,
		apsp:  shortestPaths(g),
		memo:  make(map[string]uint64),
	}
}

// Estimate returns a non-negative lower bound on the time remaining to
// collect every location in targets starting from position, by greedily
// growing a Steiner tree: repeatedly attach whichever remaining target is
// nearest (by shortest path) to any vertex already attached, accumulating
// that path's weight. It is zero when targets is empty.
//
// A target with no path from any attached vertex contributes nothing (the
// estimate stays a lower bound, just a looser one for that state) rather
// than making the whole query infeasible.
func (s *Scorer) Estimate(position geneng.SpotID, targets []geneng.LocationID) uint64 {
	if len(targets) == 0 {
		return 0
	}

	key := memoKey(position, targets)
	s.mu.RLock()
	if v, ok := s.memo[key]; ok {
		s.mu.RUnlock()
		return v
	}
	s.mu.RUnlock()

	total := s.compute(position, targets)

	s.mu.Lock()
	s.memo[key] = total
	s.mu.Unlock()
	return total
}

func (s *Scorer) compute(position geneng.SpotID, targets []geneng.LocationID) uint64 {
	attached := map[vertexID]bool{spotVertex(position): true}
	remaining := make(map[vertexID]bool, len(targets))
	for _, t := range targets {
		remaining[s.graph.targetVertex(t)] = true
	}

	var total uint64
	for len(remaining) > 0 {
		var bestCost uint32 = math.MaxUint32
		var bestVertex vertexID
		found := false

		for att := range attached {
			dist := s.apsp[att]
			for rem := range remaining {
				if d, ok := dist[rem]; ok && (!found || d < bestCost) {
					bestCost = d
					bestVertex = rem
					found = true
				}
			}
		}

		if !found {
			// No remaining target is reachable from the attached tree;
			// stop growing rather than loop forever.
			break
		}

		total += uint64(bestCost)
		attached[bestVertex] = true
		delete(remaining, bestVertex)
	}

	return total
}

func memoKey(position geneng.SpotID, targets []geneng.LocationID) string {
	sorted := append([]geneng.LocationID(nil), targets...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	var b strings.Builder
	b.WriteString(string(position))
	b.WriteByte('|')
	for i, t := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(t))
	}
	return b.String()
}
