package scheduler

import (
	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/queue"
	"github.com/arrowroute/analyzer/internal/statedb"
	"github.com/arrowroute/analyzer/internal/steiner"
	"github.com/arrowroute/analyzer/internal/world"
)

// Seed records and pushes the initial wrapper for a fresh search: unlike
// RecreateStore, which walks a known-legal history's midpoints, a fresh
// search has no predecessor state to expand from, so the CLI's search
// subcommand calls this once per run (and once per --routes FILE that
// ends up back at the start, e.g. an empty or rejected route) before
// starting the worker pool.
func Seed(w world.World, scorer *steiner.Scorer, db *statedb.DB, q *queue.Queue, metric geneng.Metric, start geneng.State) bool {
	wrap := geneng.NewWrapper(start.Clone())
	key := string(wrap.State.Encode())
	db.MinMerge(key, wrap.BestTimes(estimateRemaining(w, scorer, wrap.State)))
	return pushChild(q, metric, w, scorer, key, wrap)
}
