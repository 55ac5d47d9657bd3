package queue

import (
	"container/heap"

	"github.com/arrowroute/analyzer/internal/geneng"
)

// Item is one entry in the queue: a candidate state's dedup key, its
// ordering Score, and the context wrapper a popping worker needs to resume
// the search from it.
type Item struct {
	Key     string
	Score   geneng.Score
	Wrapper geneng.Wrapper
}

// bucketHeap is a min-heap over Item ordered by Score.Less, holding every
// queued item for a single progress value.
type bucketHeap []Item

func (h bucketHeap) Len() int            { return len(h) }
func (h bucketHeap) Less(i, j int) bool  { return h[i].Score.Less(h[j].Score) }
func (h bucketHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *bucketHeap) Push(x interface{}) { *h = append(*h, x.(Item)) }
func (h *bucketHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func newBucket() *bucketHeap {
	b := make(bucketHeap, 0, 64)
	return &b
}

func (b *bucketHeap) pushItem(it Item) { heap.Push(b, it) }

func (b *bucketHeap) popItem() Item { return heap.Pop(b).(Item) }

func (b *bucketHeap) peek() Item { return (*b)[0] }
