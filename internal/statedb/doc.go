// Package statedb implements the "seen" store: the best elapsed time ever
// observed for each distinct game state, a processed/queued/won flag set,
// and a backpointer chain letting the route to any state be reconstructed.
//
// The key space is a state's fixed-width geneng.State.Encode() form, kept
// as a Go string, hashed into a single map for O(1) lookup and update.
package statedb
