// Package queue implements the segmented bucket priority queue (component
// G): one min-heap per progress bucket, a bounded in-memory hot tier backed
// by a persistent cold tier, the engine's dynamic max_time cap, and the
// dedup bookkeeping that checks a candidate child against the state DB
// before it is ever pushed.
//
// The per-bucket heap (container/heap, plus a sync.Cond that Push signals
// and Close broadcasts on) is grounded on _examples/vxm-ppz/go-solution/priority_queue.go's
// PriorityQueue: that type's Add/PopMin/SetDoneAdding/closed-flag shape is
// generalized here from a single heap into one heap per progress value, with
// hot-tier eviction spilling cold entries out to an internal/storage.KV
// rather than growing without bound.
package queue
