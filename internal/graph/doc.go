// Package graph builds the condensed traversal graph: from every spot, a
// Dijkstra search over the world's base edges (World.BaseEdges) finds the
// cheapest ways to reach each spot of interest, folding each path's
// movement capabilities and gating requirements into its label. A condensed
// edge carries one cost, one joined movement capability and one requirement
// set; a destination reachable under incomparable requirements gets one
// edge per undominated label.
//
// The shortest-path core is a lazy-decrease-key heap keyed by running
// distance; a popped label no longer on its spot's frontier is skipped as
// stale. Condensation layers
// dominance pruning over a Pareto frontier per destination spot on top of
// that core, since a single best distance isn't enough once alternate
// paths can carry different capability requirements.
package graph
