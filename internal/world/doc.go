// Package world declares the read-only game-graph contract the search
// engine is built against. World, and everything a concrete game package
// implements to satisfy it, is intentionally out of this repository's
// scope: the engine never knows or cares what a "spot" or "item" means for
// any particular game, only that the operations below answer consistently
// and deterministically.
//
// The sample subpackage provides a tiny, deterministic three-spot world
// used by every other internal package's tests and by the CLI's info
// subcommand when no real game world is configured.
package world
