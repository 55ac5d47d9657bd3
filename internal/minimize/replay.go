package minimize

import (
	"errors"

	"github.com/arrowroute/analyzer/internal/geneng"
)

// ErrNotReplayable is returned when a state does not implement
// geneng.Replayer, which every concrete world's State is expected to.
var ErrNotReplayable = errors.New("minimize: state does not implement geneng.Replayer")

// ReplayHistory replays history in order from a clone of start, summing
// elapsed time, and returns the resulting state. It fails fast on the
// first step that cannot legally be applied.
func ReplayHistory(start geneng.State, history []geneng.HistoryStep) (geneng.State, uint32, error) {
	cur := start.Clone()
	var elapsed uint32
	for _, step := range history {
		rp, ok := cur.(geneng.Replayer)
		if !ok {
			return nil, 0, ErrNotReplayable
		}
		cost, err := rp.Replay(step)
		if err != nil {
			return nil, 0, err
		}
		elapsed += cost
	}
	return cur, elapsed, nil
}

// ReplayStates replays history from start one step at a time, returning
// the full list of intermediate states visited, in order:
// states[0] == start.Clone(), states[i+1] is the result of applying
// history[i] to states[i]. Used by trie minimization (which needs an
// intermediate state per prefix) and by the scheduler's backward
// observation walk, both of which need every intermediate state, not
// just the final one ReplayHistory returns.
func ReplayStates(start geneng.State, history []geneng.HistoryStep) ([]geneng.State, []uint32, error) {
	states := make([]geneng.State, 0, len(history)+1)
	costs := make([]uint32, 0, len(history))

	cur := start.Clone()
	states = append(states, cur)
	for _, step := range history {
		next := cur.Clone()
		rp, ok := next.(geneng.Replayer)
		if !ok {
			return nil, nil, ErrNotReplayable
		}
		cost, err := rp.Replay(step)
		if err != nil {
			return nil, nil, err
		}
		costs = append(costs, cost)
		states = append(states, next)
		cur = next
	}
	return states, costs, nil
}
