package settings

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// EvictionStrategy names the queue's hot-tier eviction policy in config
// terms; translated to queue.EvictionStrategy by the caller that wires
// this package into internal/queue, keeping this package free of a
// dependency on internal/queue.
type EvictionStrategy string

const (
	EvictionRoundRobin  EvictionStrategy = "round_robin"
	EvictionProportional EvictionStrategy = "proportional"
)

// Metric names which of the queue's two composite orderings is active.
type Metric string

const (
	MetricTimeSince      Metric = "time_since"
	MetricEstimatedTotal Metric = "estimated_total"
)

// TighteningStep is one (iteration-count OR unique-solution-count)
// threshold in the scheduler's max_time tightening schedule. A step
// fires the first time either count is reached.
type TighteningStep struct {
	Iterations      uint64  `mapstructure:"iterations"`
	UniqueSolutions int     `mapstructure:"unique_solutions"`
	CapFactor       float64 `mapstructure:"cap_factor"` // new cap = best + best/CapFactor; 0 means best exactly
}

// QueueConfig mirrors internal/queue.Config's tunables.
type QueueConfig struct {
	HotTierSize        int              `mapstructure:"hot_tier_size"`
	BucketSoftCap      int              `mapstructure:"bucket_soft_cap"`
	Eviction           EvictionStrategy `mapstructure:"eviction"`
	ProportionalFactor int              `mapstructure:"proportional_factor"`
}

// SchedulerConfig mirrors internal/scheduler.Config's tunables.
type SchedulerConfig struct {
	WorkerFraction  float64          `mapstructure:"worker_fraction"`
	Metric          Metric           `mapstructure:"metric"`
	Tightening      []TighteningStep `mapstructure:"tightening"`
	PreviewInterval time.Duration    `mapstructure:"preview_interval"`
	WatchdogInitial time.Duration    `mapstructure:"watchdog_initial"`
	WatchdogMax     time.Duration    `mapstructure:"watchdog_max"`
}

// LoggingConfig selects the engine's log verbosity and wire format.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug|info|warn|err
	Format string `mapstructure:"format"` // json is the only format stumpy emits; kept for forward compat
}

// DBConfig names the on-disk root the state DB and queue cold tier live
// under. Both subdirectories are deleted at startup and destroyed on
// clean shutdown.
type DBConfig struct {
	Dir string `mapstructure:"dir"`
}

// Config is the full settings document, unmarshalled from `--settings
// FILE`.
type Config struct {
	DB        DBConfig        `mapstructure:"db"`
	Queue     QueueConfig     `mapstructure:"queue"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// Default returns the engine's built-in defaults, used whenever no
// settings file is supplied and as the base Load unmarshals over.
func Default() Config {
	return Config{
		DB: DBConfig{Dir: ".db"},
		Queue: QueueConfig{
			HotTierSize:        2097152,
			BucketSoftCap:      262144,
			Eviction:           EvictionRoundRobin,
			ProportionalFactor: 4,
		},
		Scheduler: SchedulerConfig{
			WorkerFraction: 2.0 / 3.0,
			Metric:         MetricEstimatedTotal,
			Tightening: []TighteningStep{
				{Iterations: 2_000_000, CapFactor: 128},
				{Iterations: 5_000_000, CapFactor: 1000},
				{Iterations: 10_000_000, CapFactor: 0},
				{UniqueSolutions: 4, CapFactor: 128},
				{UniqueSolutions: 100, CapFactor: 1000},
				{UniqueSolutions: 1000, CapFactor: 0},
			},
			PreviewInterval: 2 * time.Minute,
			WatchdogInitial: 30 * time.Second,
			WatchdogMax:     300 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
	}
}

// Load reads path (YAML) via a fresh viper.Viper instance, not the
// package-level singleton, and unmarshals it over Default()'s values, so
// a settings file only needs to name the fields it overrides. An empty
// path returns Default() unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.AddConfigPath(filepath.Dir(path))
	if err := vp.ReadInConfig(); err != nil {
		return Config{}, err
	}
	if err := vp.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
