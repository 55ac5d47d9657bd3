package minimize

import (
	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/world"
)

// SkipMinimize removes each collecting step (Get/Hybrid) from history, back
// to front, keeping the removal only if the residual history still
// replays to a winning state within maxTime. It never mutates its input;
// it returns a new, possibly shorter, slice.
//
// A dropped Get is never retried against a cheaper alternative action:
// this engine's generic World has no action-substitution relation to
// consult, so that retry is left to the caller, free to run SkipMinimize
// again after substituting an alternative route.
func SkipMinimize(w world.World, start geneng.State, history []geneng.HistoryStep, maxTime uint32) []geneng.HistoryStep {
	cur := append([]geneng.HistoryStep(nil), history...)

	for i := len(cur) - 1; i >= 0; i-- {
		if !cur[i].IsCollecting() {
			continue
		}
		candidate := append(append([]geneng.HistoryStep(nil), cur[:i]...), cur[i+1:]...)
		final, elapsed, err := ReplayHistory(start, candidate)
		if err != nil || elapsed > maxTime || !w.Won(final) {
			continue
		}
		cur = candidate
	}
	return cur
}
