package scheduler

import (
	"errors"
	"fmt"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/queue"
	"github.com/arrowroute/analyzer/internal/statedb"
	"github.com/arrowroute/analyzer/internal/steiner"
	"github.com/arrowroute/analyzer/internal/world"
)

// ErrNotReplayable is returned when a state does not implement
// geneng.Replayer.
var ErrNotReplayable = errors.New("scheduler: state does not implement geneng.Replayer")

// RecreateStore replays history from start one step at a time, indexing
// every intermediate state into db and pushing every sibling discovered
// along the way into q.
//
// At each step, RememberProcessed short-circuits states already indexed by
// an earlier call; otherwise the state is expanded (unbounded max_time, as
// the history itself is proof the route is legal) and RecordProcessed
// both indexes every child and marks the current state processed.
func RecreateStore(w world.World, scorer *steiner.Scorer, db *statedb.DB, q *queue.Queue, metric geneng.Metric, start geneng.State, history []geneng.HistoryStep) error {
	cur := geneng.NewWrapper(start.Clone())

	for _, step := range history {
		key := string(cur.State.Encode())

		if db.RememberProcessed(key) {
			next, err := applyStepStandalone(cur, step)
			if err != nil {
				return fmt.Errorf("scheduler: recreate step %s from already-processed state: %w", step.Kind, err)
			}
			cur = next
			continue
		}

		children := Expand(w, cur, ^uint32(0))
		chosenIdx := -1
		for i, c := range children {
			if len(c.History) == 0 {
				continue
			}
			if c.History[len(c.History)-1] != step {
				continue
			}
			if chosenIdx == -1 || c.Elapsed < children[chosenIdx].Elapsed {
				chosenIdx = i
			}
		}

		if chosenIdx == -1 {
			// No expansion reproduced this step (e.g. a world change since
			// the route was recorded); fall back to a direct replay so the
			// walk can still proceed.
			next, err := applyStepStandalone(cur, step)
			if err != nil {
				return fmt.Errorf("scheduler: recreate unmatched step %s: %w", step.Kind, err)
			}
			nextKey := string(next.State.Encode())
			db.RecordOne(nextKey, next.BestTimes(estimateRemaining(w, scorer, next.State)), key, step)
			db.RecordProcessed(key, nil)
			cur = next
			continue
		}

		updates := make([]statedb.ChildUpdate, 0, len(children))
		for _, c := range children {
			childKey := string(c.State.Encode())
			updates = append(updates, statedb.ChildUpdate{
				Key:   childKey,
				Times: c.BestTimes(estimateRemaining(w, scorer, c.State)),
				Step:  c.History[len(c.History)-1],
			})
		}
		improved := db.RecordProcessed(key, updates)

		for _, u := range improved {
			if u.Key == string(children[chosenIdx].State.Encode()) {
				continue
			}
			db.SetQueued(u.Key, true)
			idx := indexOfChild(children, u.Key)
			if idx < 0 {
				continue
			}
			pushChild(q, metric, w, scorer, u.Key, children[idx])
		}

		cur = children[chosenIdx]
	}

	return nil
}

func indexOfChild(children []geneng.Wrapper, key string) int {
	for i, c := range children {
		if string(c.State.Encode()) == key {
			return i
		}
	}
	return -1
}

// applyStepStandalone replays step against a clone of wrap.State directly,
// without going through Expand's legality/max-time filtering. Used only
// when history is already known-legal (recreate's fallback path).
func applyStepStandalone(wrap geneng.Wrapper, step geneng.HistoryStep) (geneng.Wrapper, error) {
	clone := wrap.State.Clone()
	rp, ok := clone.(geneng.Replayer)
	if !ok {
		return geneng.Wrapper{}, ErrNotReplayable
	}
	cost, err := rp.Replay(step)
	if err != nil {
		return geneng.Wrapper{}, err
	}
	next := wrap
	next.State = clone
	next.Elapsed = wrap.Elapsed + cost
	if step.IsCollecting() {
		next.TimeSinceVisit = 0
	} else {
		next.TimeSinceVisit = wrap.TimeSinceVisit + cost
	}
	return next.WithHistory(step), nil
}
