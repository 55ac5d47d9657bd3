package steiner

import "container/heap"

// shortestPaths runs Dijkstra from every vertex in g once (all-pairs),
// returning each source's distance map. Uses a lazy-decrease-key heap:
// stale heap entries are simply skipped on pop rather than decrease-keyed
// in place.
func shortestPaths(g *reducedGraph) map[vertexID]map[vertexID]uint32 {
	out := make(map[vertexID]map[vertexID]uint32, len(g.adjacency))
	for source := range g.adjacency {
		out[source] = dijkstraFrom(g, source)
	}
	return out
}

func dijkstraFrom(g *reducedGraph, source vertexID) map[vertexID]uint32 {
	dist := make(map[vertexID]uint32, len(g.adjacency))
	visited := make(map[vertexID]bool, len(g.adjacency))
	dist[source] = 0

	pq := make(vertexPQ, 0, len(g.adjacency))
	heap.Push(&pq, vertexItem{id: source, dist: 0})

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(vertexItem)
		u := item.id
		if visited[u] {
			continue
		}
		visited[u] = true

		for _, e := range g.adjacency[u] {
			newDist := dist[u] + e.costMS
			if d, ok := dist[e.to]; ok && d <= newDist {
				continue
			}
			dist[e.to] = newDist
			heap.Push(&pq, vertexItem{id: e.to, dist: newDist})
		}
	}
	return dist
}

type vertexItem struct {
	id   vertexID
	dist uint32
}

type vertexPQ []vertexItem

func (pq vertexPQ) Len() int            { return len(pq) }
func (pq vertexPQ) Less(i, j int) bool  { return pq[i].dist < pq[j].dist }
func (pq vertexPQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *vertexPQ) Push(x interface{}) { *pq = append(*pq, x.(vertexItem)) }
func (pq *vertexPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
