package minimize

import (
	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/matchertrie"
	"github.com/arrowroute/analyzer/internal/observer"
	"github.com/arrowroute/analyzer/internal/solutions"
	"github.com/arrowroute/analyzer/internal/world"
)

// SolutionLookup resolves a matchertrie.SuffixRef's SolutionID back to the
// stored route it names, satisfied by *solutions.Collector.
type SolutionLookup interface {
	Get(id string) (solutions.Solution, bool)
}

// TrieMinimize walks history prefix by prefix, from the shortest prefix
// (most of the route replaced, greatest potential saving) to the longest,
// querying trie at each
// intermediate state for a known winning suffix. The first one that
// splices in and still replays to a win within maxTime is kept.
func TrieMinimize(w world.World, trie *matchertrie.Trie, sols SolutionLookup, start geneng.State, history []geneng.HistoryStep, maxTime uint32) []geneng.HistoryStep {
	states, _, err := ReplayStates(start, history)
	if err != nil {
		return history
	}

	for i := 0; i < len(history); i++ {
		reader := observer.StateReader{State: states[i]}
		refs := trie.Lookup(reader)
		for _, ref := range refs {
			sol, ok := sols.Get(ref.SolutionID)
			if !ok || ref.SuffixStart < 0 || ref.SuffixStart > len(sol.History) {
				continue
			}
			suffix := sol.History[ref.SuffixStart:]
			if i+len(suffix) >= len(history) {
				// no shorter than what we already have.
				continue
			}
			candidate := make([]geneng.HistoryStep, 0, i+len(suffix))
			candidate = append(candidate, history[:i]...)
			candidate = append(candidate, suffix...)

			final, elapsed, err := ReplayHistory(start, candidate)
			if err != nil || elapsed > maxTime || !w.Won(final) {
				continue
			}
			return candidate
		}
	}
	return history
}
