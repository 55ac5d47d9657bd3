package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/arrowroute/analyzer/internal/scheduler"
	"github.com/arrowroute/analyzer/internal/solutions"
)

// runSearch implements the `search` subcommand: run the engine to
// completion (queue exhaustion, a fatal worker error, or a watchdog
// abort) after seeding the queue from the start state and any --routes
// files, then write data/solutions.txt and data/best.txt.
func runSearch(args []string) error {
	fs := pflag.NewFlagSet("search", pflag.ContinueOnError)
	settingsPath := fs.String("settings", "", "path to a YAML settings file")
	dbDir := fs.String("db", "", "override the configured DB root directory")
	var routeFiles []string
	fs.StringArrayVar(&routeFiles, "routes", nil, "seed route files to recreate into the state DB before searching")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadSettings(*settingsPath)
	if err != nil {
		return fmt.Errorf("search: loading settings: %w", err)
	}
	if *dbDir != "" {
		cfg.DB.Dir = *dbDir
	}
	if cfg.DB.Dir == "" {
		cfg.DB.Dir = ".db"
	}

	if err := prepareDBDirs(cfg.DB.Dir); err != nil {
		return fmt.Errorf("search: preparing DB directories: %w", err)
	}
	defer destroyDBDirs(cfg.DB.Dir)

	eng := buildEngine(cfg)
	metric := convertMetric(cfg.Scheduler.Metric)

	for _, path := range routeFiles {
		steps, err := readRouteFile(path)
		if err != nil {
			return fmt.Errorf("search: seed route %s: %w", path, err)
		}
		if err := scheduler.RecreateStore(eng.World, eng.Scorer, eng.DB, eng.Queue, metric, eng.Start, steps); err != nil {
			return fmt.Errorf("search: seed route %s: %w", path, err)
		}
	}
	scheduler.Seed(eng.World, eng.Scorer, eng.DB, eng.Queue, metric, eng.Start)

	sc := scheduler.New(eng.World, eng.Scorer, eng.DB, eng.Queue, eng.Solutions, eng.Trie, eng.Config, eng.Log, eng.Start)
	sc.OnPreview = func(_ uint32, all []solutions.Solution) {
		if err := ensureDataDir(); err != nil {
			eng.Log.Err().Err(err).Log("preview: creating data directory")
			return
		}
		if err := writeSolutionsFile(filepath.Join("data", "previews.txt"), all); err != nil {
			eng.Log.Err().Err(err).Log("preview: writing previews.txt")
			return
		}
		eng.Log.Info().Uint64("unique_solutions", uint64(len(all))).Log("periodic preview written")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	runErr := sc.Run(ctx)
	eng.Solutions.Close()

	if err := ensureDataDir(); err != nil {
		return fmt.Errorf("search: creating data directory: %w", err)
	}
	all := eng.Solutions.All()
	if err := writeSolutionsFile(filepath.Join("data", "solutions.txt"), all); err != nil {
		return fmt.Errorf("search: writing solutions.txt: %w", err)
	}
	if err := writeBestFile(filepath.Join("data", "best.txt"), all); err != nil {
		return fmt.Errorf("search: writing best.txt: %w", err)
	}

	if best, ok := eng.Solutions.Best(); ok {
		fmt.Printf("search: best solution %dms across %d unique solutions\n", best, len(all))
	} else {
		fmt.Println("search: emptied queue with no solution found")
	}

	if runErr != nil {
		return fmt.Errorf("search: %w", runErr)
	}
	return nil
}
