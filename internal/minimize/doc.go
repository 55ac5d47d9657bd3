// Package minimize implements the minimizer and mutators: three pure
// passes over a winning route, skip minimization, trie-guided
// shortcutting, and local mutation. Each pass only ever returns a
// possibly-improved HistoryStep slice; it never touches the state DB or
// queue. The store-replay step that writes an improved route back into
// those two structures needs both, so it lives in internal/scheduler
// instead, which already depends on this package for its minimization
// passes; this package cannot depend back on internal/scheduler without a
// cycle.
//
// Every pass here works by editing the HistoryStep slice and replaying
// from the start state with internal/world.World, rather than mutating
// visited-bits on a live state in place.
package minimize
