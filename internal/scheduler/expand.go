package scheduler

import (
	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/world"
)

// Expand is the single-step expander: from wrap, produce every child
// reachable by one raw exit, one warp, one global/spot action, one local
// move, or one location visit from the current spot, keeping only
// children whose cumulative elapsed time stays within maxTime.
//
// Condensed edges feed greedy target ranking (GreedySearch's targetRank)
// only; the Steiner scorer works from World.BaseDistance. Condensed edges
// are not themselves a replay primitive here, since geneng.HistoryStep
// has no "condensed move" variant and every step the engine records must
// be individually replayable and minimizable one HistoryStep at a time.
func Expand(w world.World, wrap geneng.Wrapper, maxTime uint32) []geneng.Wrapper {
	var out []geneng.Wrapper
	pos := wrap.State.Position()

	for _, e := range w.Exits(pos) {
		if child, ok := applyStep(wrap, geneng.Exit(e.ID), maxTime); ok {
			out = append(out, child)
		}
	}
	for _, wp := range w.Warps() {
		if child, ok := applyStep(wrap, geneng.Warp(wp.To), maxTime); ok {
			out = append(out, child)
		}
	}
	for _, act := range w.Actions(pos) {
		if child, ok := applyStep(wrap, geneng.Activate(act.ID), maxTime); ok {
			out = append(out, child)
		}
	}
	for _, spot := range w.Spots() {
		if spot == pos || !w.SameArea(pos, spot) {
			continue
		}
		if child, ok := applyStep(wrap, geneng.MoveLocal(spot), maxTime); ok {
			out = append(out, child)
		}
	}
	for _, loc := range w.LocationsAt(pos) {
		if !wrap.State.Todo(loc) {
			continue
		}
		if child, ok := applyGetStep(w, wrap, loc, maxTime); ok {
			out = append(out, child)
		}
	}
	return out
}

// applyStep replays step against a clone of wrap.State, returning the
// resulting wrapper if it legally applies and stays within maxTime.
func applyStep(wrap geneng.Wrapper, step geneng.HistoryStep, maxTime uint32) (geneng.Wrapper, bool) {
	clone := wrap.State.Clone()
	rp, ok := clone.(geneng.Replayer)
	if !ok {
		return geneng.Wrapper{}, false
	}
	cost, err := rp.Replay(step)
	if err != nil {
		return geneng.Wrapper{}, false
	}
	elapsed := wrap.Elapsed + cost
	if elapsed > maxTime {
		return geneng.Wrapper{}, false
	}
	next := wrap
	next.State = clone
	next.Elapsed = elapsed
	if cost == 0 {
		next.TimeSinceVisit = wrap.TimeSinceVisit
	} else {
		next.TimeSinceVisit = wrap.TimeSinceVisit + cost
	}
	return next.WithHistory(step), true
}

// applyGetStep is applyStep specialized for a Get: it resets
// TimeSinceVisit to 0, since visiting a location is what that counter
// measures time since.
func applyGetStep(w world.World, wrap geneng.Wrapper, loc geneng.LocationID, maxTime uint32) (geneng.Wrapper, bool) {
	child, ok := applyStep(wrap, geneng.Get(w.ItemAt(loc), loc), maxTime)
	if !ok {
		return geneng.Wrapper{}, false
	}
	child.TimeSinceVisit = 0
	return child, true
}
