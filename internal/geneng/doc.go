// Package geneng defines the generic engine data model shared by every
// subsystem of the route analyzer: the game-state capability contract
// (State), the wrapper that flows through the search queue (Wrapper), the
// recorded-history step shapes (HistoryStep), the per-state best-known-time
// record (BestTimes), and the composite ordering key used by the priority
// queue (Score).
//
// Nothing in this package touches persistence, scheduling, or any
// game-specific rule; it is the vocabulary every other internal package is
// written against.
package geneng
