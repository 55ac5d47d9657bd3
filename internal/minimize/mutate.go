package minimize

import (
	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/world"
)

// MaxReorderWindow bounds the size of a contiguous collecting-step run this
// package will exhaustively permute; 5! = 120 replays per window keeps the
// bounded search cheap even when run on every window of a long route.
const MaxReorderWindow = 5

func locationSpots(w world.World) map[geneng.LocationID]geneng.SpotID {
	out := make(map[geneng.LocationID]geneng.SpotID)
	for _, spot := range w.Spots() {
		for _, loc := range w.LocationsAt(spot) {
			out[loc] = spot
		}
	}
	return out
}

// SpotRevisitSwap swaps adjacent collecting steps that visit locations at
// the same spot, keeping the swap only if the route still wins within
// maxTime and its elapsed time does not increase. Since both steps are at
// the same spot, swapping them changes no travel cost; the point is to let
// a later reorder pass see the locations in a different order relative to
// any item-gated step between later visits.
func SpotRevisitSwap(w world.World, start geneng.State, history []geneng.HistoryStep, maxTime uint32) []geneng.HistoryStep {
	spots := locationSpots(w)
	cur := append([]geneng.HistoryStep(nil), history...)

	for i := 0; i+1 < len(cur); i++ {
		a, b := cur[i], cur[i+1]
		if !a.IsCollecting() || !b.IsCollecting() {
			continue
		}
		if spots[a.Loc] != spots[b.Loc] {
			continue
		}

		candidate := append([]geneng.HistoryStep(nil), cur...)
		candidate[i], candidate[i+1] = candidate[i+1], candidate[i]

		final, elapsed, err := ReplayHistory(start, candidate)
		if err != nil || elapsed > maxTime || elapsed > elapsedOf(cur, start) || !w.Won(final) {
			continue
		}
		cur = candidate
	}
	return cur
}

func elapsedOf(history []geneng.HistoryStep, start geneng.State) uint32 {
	_, elapsed, err := ReplayHistory(start, history)
	if err != nil {
		return ^uint32(0)
	}
	return elapsed
}

// CollectionReorder splits every run of directly-adjacent collecting steps
// into consecutive windows of at most MaxReorderWindow steps and replaces
// each window with whichever permutation of its steps replays to the
// fastest winning route within maxTime.
func CollectionReorder(w world.World, start geneng.State, history []geneng.HistoryStep, maxTime uint32) []geneng.HistoryStep {
	cur := append([]geneng.HistoryStep(nil), history...)

	for i := 0; i < len(cur); {
		if !cur[i].IsCollecting() {
			i++
			continue
		}
		j := i
		for j < len(cur) && cur[j].IsCollecting() && j-i < MaxReorderWindow {
			j++
		}
		if j-i > 1 {
			cur = bestPermutation(w, start, cur, i, j, maxTime)
		}
		i = j
	}
	return cur
}

// bestPermutation replaces history[lo:hi] with whichever permutation of
// those steps yields the fastest winning full replay, or leaves history
// unchanged if none does better than the original.
func bestPermutation(w world.World, start geneng.State, history []geneng.HistoryStep, lo, hi int, maxTime uint32) []geneng.HistoryStep {
	window := append([]geneng.HistoryStep(nil), history[lo:hi]...)
	bestWindow := window
	bestElapsed := elapsedOf(history, start)

	permute(window, func(perm []geneng.HistoryStep) {
		candidate := make([]geneng.HistoryStep, 0, len(history))
		candidate = append(candidate, history[:lo]...)
		candidate = append(candidate, perm...)
		candidate = append(candidate, history[hi:]...)

		final, elapsed, err := ReplayHistory(start, candidate)
		if err != nil || elapsed > maxTime || !w.Won(final) {
			return
		}
		if elapsed < bestElapsed {
			bestElapsed = elapsed
			bestWindow = append([]geneng.HistoryStep(nil), perm...)
		}
	})

	out := make([]geneng.HistoryStep, 0, len(history))
	out = append(out, history[:lo]...)
	out = append(out, bestWindow...)
	out = append(out, history[hi:]...)
	return out
}

// permute invokes visit once per permutation of items, in place, via
// Heap's algorithm.
func permute(items []geneng.HistoryStep, visit func([]geneng.HistoryStep)) {
	n := len(items)
	buf := append([]geneng.HistoryStep(nil), items...)
	c := make([]int, n)

	visit(append([]geneng.HistoryStep(nil), buf...))
	i := 0
	for i < n {
		if c[i] < i {
			if i%2 == 0 {
				buf[0], buf[i] = buf[i], buf[0]
			} else {
				buf[c[i]], buf[i] = buf[i], buf[c[i]]
			}
			visit(append([]geneng.HistoryStep(nil), buf...))
			c[i]++
			i = 0
		} else {
			c[i] = 0
			i++
		}
	}
}
