package graph

import (
	"container/heap"

	"github.com/arrowroute/analyzer/internal/geneng"
)

// labelItem and labelPQ implement a lazy-decrease-key heap that carries a
// full label (cost, movement, reqs) rather than a bare distance, since
// condensation tracks a Pareto frontier per spot instead of a single best
// distance.
type labelItem struct {
	spot  geneng.SpotID
	label label
}

type labelPQ []labelItem

func (pq labelPQ) Len() int            { return len(pq) }
func (pq labelPQ) Less(i, j int) bool  { return pq[i].label.cost < pq[j].label.cost }
func (pq labelPQ) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *labelPQ) Push(x interface{}) { *pq = append(*pq, x.(labelItem)) }
func (pq *labelPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

func heapPush(pq *labelPQ, item labelItem) { heap.Push(pq, item) }
func heapPop(pq *labelPQ) labelItem        { return heap.Pop(pq).(labelItem) }
