// Package solutions implements the solution collector: a store of winning
// routes keyed by their sequence of collected locations, a
// subsequence-based uniqueness/domination relation, and the condition
// variable mutators wait on for fresh work.
package solutions
