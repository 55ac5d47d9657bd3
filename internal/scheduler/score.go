package scheduler

import (
	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/queue"
	"github.com/arrowroute/analyzer/internal/steiner"
	"github.com/arrowroute/analyzer/internal/world"
)

// estimateRemaining queries scorer for s's Steiner lower bound over its
// still-outstanding, game-relevant locations, after letting the world mask
// out any items (and, transitively, locations) that can never matter for
// victory from s.
func estimateRemaining(w world.World, scorer *steiner.Scorer, s geneng.State) uint64 {
	masked := w.SkipUnusedItems(s)
	return scorer.Estimate(masked.Position(), remainingLocations(w, masked))
}

// scoreFor builds the composite Score for wrap under metric, using seq as
// the insertion-order tiebreaker.
func scoreFor(metric geneng.Metric, w world.World, scorer *steiner.Scorer, wrap geneng.Wrapper, seq uint64) geneng.Score {
	progress := wrap.State.CountVisits()
	total := uint64(wrap.Elapsed) + estimateRemaining(w, scorer, wrap.State)
	if metric == geneng.MetricTimeSince {
		return geneng.NewTimeSinceScore(progress, wrap.TimeSinceVisit, total, seq)
	}
	return geneng.NewEstimatedTotalScore(progress, total, seq)
}

// pushChild scores and pushes child into q under metric, returning whether
// the queue accepted it.
func pushChild(q *queue.Queue, metric geneng.Metric, w world.World, scorer *steiner.Scorer, key string, child geneng.Wrapper) bool {
	score := scoreFor(metric, w, scorer, child, q.NextSequence())
	return q.Push(queue.Item{Key: key, Score: score, Wrapper: child})
}
