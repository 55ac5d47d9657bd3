// Package steiner implements the lower-bound remaining-time scorer: a
// reduced graph over spots, uncollected-location targets, and canon groups
// is built once, all-pairs shortest paths over it are precomputed via a
// per-source Dijkstra, and each query greedily grows a Steiner tree by
// repeatedly attaching the nearest remaining target from any
// already-attached vertex.
package steiner
