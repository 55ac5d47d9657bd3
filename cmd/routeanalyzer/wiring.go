package main

import (
	"os"
	"path/filepath"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/graph"
	"github.com/arrowroute/analyzer/internal/matchertrie"
	"github.com/arrowroute/analyzer/internal/obslog"
	"github.com/arrowroute/analyzer/internal/queue"
	"github.com/arrowroute/analyzer/internal/routefile"
	"github.com/arrowroute/analyzer/internal/settings"
	"github.com/arrowroute/analyzer/internal/solutions"
	"github.com/arrowroute/analyzer/internal/statedb"
	"github.com/arrowroute/analyzer/internal/steiner"
	"github.com/arrowroute/analyzer/internal/storage"
	"github.com/arrowroute/analyzer/internal/world"
	"github.com/arrowroute/analyzer/internal/world/sample"
)

// Engine bundles every component a subcommand needs, built fresh for each
// invocation. The CLI's only concrete world is the sample fixture: the
// real per-game world description is an external collaborator out of
// scope here, and internal/world/sample already exists for exactly this
// purpose (see its doc comment).
type Engine struct {
	World     world.World
	Start     geneng.State
	Scorer    *steiner.Scorer
	Condensed *graph.Graph
	DB        *statedb.DB
	Queue     *queue.Queue
	Trie      *matchertrie.Trie
	Solutions *solutions.Collector
	Log       *obslog.Logger
	Config    settings.Config
}

// buildEngine constructs every component from cfg: queue backed by the
// state DB and a cold KV tier, scorer and condensed graph built once from
// the world, trie and collector empty.
func buildEngine(cfg settings.Config) *Engine {
	w := sample.NewLinearChain()
	log := buildLogger(cfg.Logging)
	db := statedb.New()
	q := queue.New(queueConfig(cfg.Queue, w.DecodeState, log), storage.NewMemory(), db)
	sols := solutions.New()
	sols.Log = log

	return &Engine{
		World:     w,
		Start:     w.Start(),
		Scorer:    steiner.NewScorer(w),
		Condensed: graph.Build(w),
		DB:        db,
		Queue:     q,
		Trie:      matchertrie.New(),
		Solutions: sols,
		Log:       log,
		Config:    cfg,
	}
}

func queueConfig(c settings.QueueConfig, decode geneng.StateDecoder, log *obslog.Logger) queue.Config {
	return queue.Config{
		HotTierSize:        c.HotTierSize,
		BucketSoftCap:      c.BucketSoftCap,
		Eviction:           convertEviction(c.Eviction),
		ProportionalFactor: c.ProportionalFactor,
		Decode:             decode,
		Log:                log,
	}
}

// convertEviction translates settings.EvictionStrategy to
// queue.EvictionStrategy, keeping internal/settings free of a dependency
// on internal/queue.
func convertEviction(e settings.EvictionStrategy) queue.EvictionStrategy {
	if e == settings.EvictionProportional {
		return queue.EvictProportional
	}
	return queue.EvictRoundRobin
}

// convertMetric is the equivalent translation for the scheduler's score
// ordering.
func convertMetric(m settings.Metric) geneng.Metric {
	if m == settings.MetricTimeSince {
		return geneng.MetricTimeSince
	}
	return geneng.MetricEstimatedTotal
}

func buildLogger(c settings.LoggingConfig) *obslog.Logger {
	var level obslog.Level
	switch c.Level {
	case "debug":
		level = obslog.LevelDebug
	case "warn":
		level = obslog.LevelWarn
	case "err":
		level = obslog.LevelErr
	default:
		level = obslog.LevelInfo
	}
	return obslog.New(level, os.Stderr)
}

// loadSettings wraps settings.Load; a "" path is not an error, it just
// means every subcommand runs against settings.Default().
func loadSettings(path string) (settings.Config, error) {
	return settings.Load(path)
}

// readRouteFile reads and parses a route file. A read error is returned as
// os.ReadFile reports it (naming the path); a parse error is routefile.Parse's
// own, which names the line number but not the path.
func readRouteFile(path string) ([]geneng.HistoryStep, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return routefile.Parse(string(text))
}

// prepareDBDirs clears and recreates the states/ and seen/ directories
// under root at startup. The concrete state DB and queue cold tier wired
// here are in-memory only (internal/storage's Memory), so this is a
// best-effort filesystem nod for any external tooling that expects the
// directories to exist and be empty at the start of a run.
func prepareDBDirs(root string) error {
	if root == "" {
		return nil
	}
	for _, sub := range []string{"states", "seen"} {
		dir := filepath.Join(root, sub)
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// destroyDBDirs removes the states/ and seen/ directories on clean
// shutdown.
func destroyDBDirs(root string) {
	if root == "" {
		return
	}
	for _, sub := range []string{"states", "seen"} {
		_ = os.RemoveAll(filepath.Join(root, sub))
	}
}
