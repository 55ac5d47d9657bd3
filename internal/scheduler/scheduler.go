package scheduler

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/graph"
	"github.com/arrowroute/analyzer/internal/matchertrie"
	"github.com/arrowroute/analyzer/internal/minimize"
	"github.com/arrowroute/analyzer/internal/obslog"
	"github.com/arrowroute/analyzer/internal/observer"
	"github.com/arrowroute/analyzer/internal/queue"
	"github.com/arrowroute/analyzer/internal/settings"
	"github.com/arrowroute/analyzer/internal/solutions"
	"github.com/arrowroute/analyzer/internal/statedb"
	"github.com/arrowroute/analyzer/internal/steiner"
	"github.com/arrowroute/analyzer/internal/world"
)

// Scheduler is the search coordinator: a fixed pool of worker tasks
// pulling states from the queue, expanding each with a single-step
// expander, and routing winning children through the minimizer, the
// observer/trie, and the store-replay path.
//
// The worker pool is golang.org/x/sync/errgroup.Group, and each worker's
// per-child fan-out is bounded by a golang.org/x/sync/semaphore.Weighted
// sized to runtime.NumCPU().
type Scheduler struct {
	World     world.World
	Scorer    *steiner.Scorer
	Condensed *graph.Graph
	DB        *statedb.DB
	Queue     *queue.Queue
	Solutions *solutions.Collector
	Trie      *matchertrie.Trie
	Config    settings.Config
	Log       *obslog.Logger
	Start     geneng.State

	// OnPreview, if set, is invoked from the preview background pass with
	// the current best elapsed time and the full solution set; the
	// scheduler performs no file I/O itself, that is the cmd layer's
	// concern.
	OnPreview func(best uint32, all []solutions.Solution)

	iters       atomic.Uint64
	idleWorkers atomic.Int64
	anySolution atomic.Bool
	finished    atomic.Bool
	watchdog    *watchdog
	fanoutSem   *semaphore.Weighted
}

// New builds a Scheduler and wires Solutions' accept feedback into Queue's
// max_time cap via a feedback callback.
func New(w world.World, scorer *steiner.Scorer, db *statedb.DB, q *queue.Queue, sols *solutions.Collector, trie *matchertrie.Trie, cfg settings.Config, log *obslog.Logger, start geneng.State) *Scheduler {
	if log == nil {
		log = obslog.Discard()
	}
	sc := &Scheduler{
		World:     w,
		Scorer:    scorer,
		Condensed: graph.Build(w),
		DB:        db,
		Queue:     q,
		Solutions: sols,
		Trie:      trie,
		Config:    cfg,
		Log:       log,
		Start:     start,
		watchdog:  newWatchdog(cfg.Scheduler.WatchdogInitial, cfg.Scheduler.WatchdogMax),
		fanoutSem: semaphore.NewWeighted(int64(runtime.NumCPU())),
	}
	sols.OnAccept = sc.onSolutionAccepted
	return sc
}

// metric translates the configured settings.Metric into the geneng.Metric
// the scoring and store-replay helpers expect, mirroring the cmd layer's
// settings-to-engine wiring.
func (sc *Scheduler) metric() geneng.Metric {
	if sc.Config.Scheduler.Metric == settings.MetricTimeSince {
		return geneng.MetricTimeSince
	}
	return geneng.MetricEstimatedTotal
}

// workerCount returns roughly ceil(fraction*cpu_count) workers, at least 1.
func workerCount(fraction float64) int {
	n := int(math.Ceil(fraction * float64(runtime.NumCPU())))
	if n < 1 {
		n = 1
	}
	return n
}

// Run drives the worker pool until the queue is exhausted, a worker hits
// a fatal error, or the watchdog aborts a solution-less stall.
func (sc *Scheduler) Run(ctx context.Context) error {
	n := workerCount(sc.Config.Scheduler.WorkerFraction)

	group, gctx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		i := i
		group.Go(func() error { return sc.runWorker(gctx, i, n) })
	}
	group.Go(func() error { return sc.watchdogLoop(gctx) })
	group.Go(func() error { return sc.mutatorLoop(gctx) })

	return group.Wait()
}

func (sc *Scheduler) runWorker(ctx context.Context, idx, total int) error {
	for {
		if sc.finished.Load() {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		mode := sc.assignedMode(idx)

		if mode == Greedy {
			item, ok := sc.Queue.PopMin()
			if !ok {
				if sc.markIdleAndCheckDone(total) {
					return nil
				}
				sc.wait(ctx)
				continue
			}
			sc.idleWorkers.Store(0)
			sc.iters.Add(1)
			if !sc.DB.RememberProcessed(item.Key) {
				sc.runGreedy(item)
			}
			continue
		}

		item, ok := sc.popForMode(mode, idx)
		if !ok {
			if sc.markIdleAndCheckDone(total) {
				return nil
			}
			sc.wait(ctx)
			continue
		}
		sc.idleWorkers.Store(0)

		if err := sc.processItem(ctx, item); err != nil {
			sc.finished.Store(true)
			return fmt.Errorf("scheduler: worker %d: %w", idx, err)
		}
	}
}

// markIdleAndCheckDone records one more idle worker and, once every worker
// is idle, decides whether the run is actually exhausted. Queue.Empty only
// reports the hot tier, so before concluding exhaustion it pulls any
// spilled cold-tier states back in; a successful unspill resets the idle
// count so the refilled hot tier gets another pass.
func (sc *Scheduler) markIdleAndCheckDone(total int) bool {
	n := sc.idleWorkers.Add(1)
	if int(n) < total {
		return false
	}
	if sc.Queue.ColdLen() > 0 {
		batch := sc.Config.Queue.HotTierSize
		if batch <= 0 {
			batch = 4096
		}
		if sc.Queue.Unspill(batch) > 0 {
			sc.idleWorkers.Store(0)
			return false
		}
	}
	if sc.Queue.Empty() {
		sc.finished.Store(true)
		return true
	}
	return false
}

func (sc *Scheduler) wait(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(10 * time.Millisecond):
	}
}

// assignedMode resolves a worker's mode for its next pop: if no solution
// has been found yet, bias toward MaxProgress/Greedy on top of the
// index-based rotation table.
func (sc *Scheduler) assignedMode(idx int) Mode {
	if !sc.anySolution.Load() {
		if idx%16 == 1 {
			return Greedy
		}
		return MaxProgress
	}
	m := ModeByIndex(idx)
	if m == Dependent {
		return chooseMode(sc.anySolution.Load(), sc.iters.Load())
	}
	return m
}

func (sc *Scheduler) popForMode(mode Mode, idx int) (queue.Item, bool) {
	switch mode {
	case MaxProgress:
		return sc.Queue.PopMaxProgress(4)
	case SomeProgress:
		return sc.Queue.PopMinProgress(0, 3)
	case LocalMinima:
		return sc.Queue.PopLocalMinima()
	case HalfProgress:
		return sc.Queue.PopHalfProgress(2)
	case ModeN:
		return sc.Queue.PopMode(8)
	default:
		return sc.Queue.PopRoundRobin(idx)
	}
}

// processItem dedups item, single-step expands it (with each child's
// Encode/Won check fanned out across fanoutSem), records children into
// the state DB, and routes the improved subset to either the queue or
// the solution handler.
func (sc *Scheduler) processItem(ctx context.Context, item queue.Item) error {
	sc.iters.Add(1)
	if sc.DB.RememberProcessed(item.Key) {
		return nil
	}

	maxTime := sc.Queue.MaxTime()
	children := Expand(sc.World, item.Wrapper, maxTime)
	if len(children) == 0 {
		sc.DB.RecordProcessed(item.Key, nil)
		return nil
	}

	keys := make([]string, len(children))
	won := make([]bool, len(children))

	g, gctx := errgroup.WithContext(ctx)
	for i := range children {
		i := i
		if err := sc.fanoutSem.Acquire(gctx, 1); err != nil {
			return err
		}
		g.Go(func() error {
			defer sc.fanoutSem.Release(1)
			keys[i] = string(children[i].State.Encode())
			won[i] = sc.World.Won(children[i].State)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	updates := make([]statedb.ChildUpdate, len(children))
	for i, c := range children {
		updates[i] = statedb.ChildUpdate{
			Key:   keys[i],
			Times: c.BestTimes(estimateRemaining(sc.World, sc.Scorer, c.State)),
			Step:  c.History[len(c.History)-1],
		}
	}
	improved := sc.DB.RecordProcessed(item.Key, updates)
	improvedSet := make(map[string]bool, len(improved))
	for _, u := range improved {
		improvedSet[u.Key] = true
	}

	for i, c := range children {
		if !improvedSet[keys[i]] {
			continue
		}
		if won[i] {
			sc.DB.MarkWon(keys[i])
			sc.handleSolution(keys[i], c)
			continue
		}
		sc.DB.SetQueued(keys[i], true)
		pushChild(sc.Queue, sc.metric(), sc.World, sc.Scorer, keys[i], c)
	}
	return nil
}

// runGreedy runs GreedySearch from item, and on success feeds the
// discovered route back through RecreateStore and the solution handler.
func (sc *Scheduler) runGreedy(item queue.Item) {
	final, ok := GreedySearch(sc.World, sc.Scorer, sc.Condensed, item.Wrapper, sc.Queue.MaxTime())
	if !ok {
		sc.DB.RecordProcessed(item.Key, nil)
		return
	}
	key := string(final.State.Encode())
	if err := RecreateStore(sc.World, sc.Scorer, sc.DB, sc.Queue, sc.metric(), sc.Start, final.History); err != nil {
		sc.Log.Err().Err(err).Log("greedy recreate_store failed")
	}
	sc.DB.MarkWon(key)
	sc.handleSolution(key, final)
}

// handleSolution runs the minimization passes over a winning route's
// *full* history. A Wrapper's in-flight History is bounded to
// MaxHistoryLen, so the authoritative route is the state DB's backpointer
// chain, not final.History. It inserts the result into the solution
// collector, and on an accepted insert records the backward observation
// walk into the matcher trie and replays the route back through
// RecreateStore.
func (sc *Scheduler) handleSolution(key string, final geneng.Wrapper) {
	sc.anySolution.Store(true)
	sc.watchdog.Progress()

	history := sc.DB.GetHistory(key)
	if len(history) == 0 {
		history = final.History
	}
	history = sc.minimizeHistory(history)
	elapsed := sc.currentElapsed(history)

	sol := &solutions.Solution{Elapsed: elapsed, History: history}
	result := sc.Solutions.Insert(sol)
	if result == solutions.Rejected {
		return
	}

	sc.recordTrie(*sol)

	if err := RecreateStore(sc.World, sc.Scorer, sc.DB, sc.Queue, sc.metric(), sc.Start, sol.History); err != nil {
		sc.Log.Err().Err(err).Log("solution recreate_store failed")
	}
}

// minimizeHistory runs the pure passes in sequence, each one tightening
// the max_time cap handed to the next, each only keeping an improvement
// that still wins within the current cap.
func (sc *Scheduler) minimizeHistory(history []geneng.HistoryStep) []geneng.HistoryStep {
	cur := history
	cur = minimize.SkipMinimize(sc.World, sc.Start, cur, sc.currentElapsed(cur))
	cur = minimize.TrieMinimize(sc.World, sc.Trie, sc.Solutions, sc.Start, cur, sc.currentElapsed(cur))
	cur = minimize.SpotRevisitSwap(sc.World, sc.Start, cur, sc.currentElapsed(cur))
	cur = minimize.CollectionReorder(sc.World, sc.Start, cur, sc.currentElapsed(cur))
	return cur
}

func (sc *Scheduler) currentElapsed(history []geneng.HistoryStep) uint32 {
	_, elapsed, err := minimize.ReplayHistory(sc.Start, history)
	if err != nil {
		return ^uint32(0)
	}
	return elapsed
}

// recordTrie replays sol's history to get every intermediate state, then
// walks it back to front, accumulating observations and inserting one
// matchertrie entry per position so a later TrieMinimize call can splice
// in any suffix of this solution, not just the whole thing.
func (sc *Scheduler) recordTrie(sol solutions.Solution) {
	states, _, err := minimize.ReplayStates(sc.Start, sol.History)
	if err != nil {
		sc.Log.Err().Err(err).Log("trie observation replay failed")
		return
	}

	final := states[len(states)-1]
	obs := observer.FromVictoryState(sc.World, final)
	for i := len(sol.History) - 1; i >= 0; i-- {
		obs.ObserveStep(states[i], sol.History[i])
		if err := sc.Trie.Insert(obs.ToVec(states[i]), matchertrie.SuffixRef{SolutionID: sol.ID, SuffixStart: i}); err != nil {
			sc.Log.Warning().Err(err).Log("trie insert rejected")
		}
		if i > 0 {
			obs.Update(states[i], states[i-1])
		}
	}
}

// onSolutionAccepted is solutions.Collector's OnAccept callback: it
// tightens Queue's max_time per the configured tightening schedule
// (iteration and unique-solution thresholds, from best+best/128 down to
// best).
func (sc *Scheduler) onSolutionAccepted(elapsedMS uint32) {
	sc.Queue.SetMaxTime(sc.capFor(elapsedMS))
}

// capFor picks the tightest satisfied tightening step (smallest
// CapFactor, with 0 meaning "exact"), defaulting to the loosest +1/128
// slack when none of the configured thresholds have been reached yet.
func (sc *Scheduler) capFor(elapsed uint32) uint32 {
	iters := sc.iters.Load()
	unique := sc.Solutions.Len()
	factor := 128.0
	exact := false

	for _, step := range sc.Config.Scheduler.Tightening {
		met := (step.Iterations > 0 && iters >= step.Iterations) || (step.UniqueSolutions > 0 && unique >= step.UniqueSolutions)
		if !met {
			continue
		}
		if step.CapFactor == 0 {
			exact = true
		} else if !exact && step.CapFactor < factor {
			factor = step.CapFactor
		}
	}
	if exact {
		return elapsed
	}
	return elapsed + uint32(float64(elapsed)/factor)
}

// watchdogLoop aborts a stalled run: if no new solution appears within an
// exponentially growing window, it either aborts (no solution has ever
// been found once the window reaches its cap) or logs a warning and keeps
// going (a solution exists, so the search may just be deep in an
// unproductive branch rather than genuinely stuck).
func (sc *Scheduler) watchdogLoop(ctx context.Context) error {
	interval := sc.Config.Scheduler.WatchdogInitial / 4
	if interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if sc.finished.Load() {
				return nil
			}
			fired, window := sc.watchdog.Check(now)
			if !fired {
				continue
			}
			sc.Log.Warning().Uint64("window_seconds", uint64(window/time.Second)).Log("no search progress within watchdog window")
			if !sc.anySolution.Load() && window >= sc.Config.Scheduler.WatchdogMax {
				sc.Log.Err().Log("watchdog aborting: no solution found within max window")
				sc.finished.Store(true)
				return nil
			}
		}
	}
}

// mutatorLoop drains solutions.Collector's unprocessed queue, re-running
// the minimization passes opportunistically on solutions that weren't
// minimized inline (e.g. those fed in by a future batch-import path), and
// periodically cleans the collector and writes a preview.
func (sc *Scheduler) mutatorLoop(ctx context.Context) error {
	previewInterval := sc.Config.Scheduler.PreviewInterval
	if previewInterval <= 0 {
		previewInterval = time.Minute
	}
	lastPreview := time.Now()

	for {
		if sc.finished.Load() {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if sol, ok := sc.Solutions.NextUnprocessed(); ok {
			minimized := sc.minimizeHistory(sol.History)
			if sc.currentElapsed(minimized) < sol.Elapsed {
				improved := &solutions.Solution{Elapsed: sc.currentElapsed(minimized), History: minimized}
				if sc.Solutions.Insert(improved) != solutions.Rejected {
					sc.recordTrie(*improved)
					if err := RecreateStore(sc.World, sc.Scorer, sc.DB, sc.Queue, sc.metric(), sc.Start, improved.History); err != nil {
						sc.Log.Err().Err(err).Log("mutator recreate_store failed")
					}
				}
			}
		}

		if time.Since(lastPreview) >= previewInterval {
			sc.Solutions.Clean()
			sc.rebuildTrie()
			if sc.OnPreview != nil {
				best, _ := sc.Solutions.Best()
				sc.OnPreview(best, sc.Solutions.All())
			}
			lastPreview = time.Now()
		}

		if !sc.Solutions.Wait(sc.Config.Scheduler.WatchdogMax) {
			return nil
		}
	}
}

// rebuildTrie rebuilds the trie from retained solutions, run after Clean()
// drops dominated solutions so the trie never offers a splice into a
// route that no longer exists.
func (sc *Scheduler) rebuildTrie() {
	sc.Trie.Clear()
	for _, sol := range sc.Solutions.All() {
		sc.recordTrie(sol)
	}
}
