package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arrowroute/analyzer/internal/geneng"
	"github.com/arrowroute/analyzer/internal/queue"
	"github.com/arrowroute/analyzer/internal/settings"
)

func TestConvertEvictionTranslatesProportional(t *testing.T) {
	assert.Equal(t, queue.EvictProportional, convertEviction(settings.EvictionProportional))
}

func TestConvertEvictionDefaultsToRoundRobin(t *testing.T) {
	assert.Equal(t, queue.EvictRoundRobin, convertEviction(settings.EvictionRoundRobin))
	assert.Equal(t, queue.EvictRoundRobin, convertEviction(settings.EvictionStrategy("unknown")))
}

func TestConvertMetricTranslatesTimeSince(t *testing.T) {
	assert.Equal(t, geneng.MetricTimeSince, convertMetric(settings.MetricTimeSince))
}

func TestConvertMetricDefaultsToEstimatedTotal(t *testing.T) {
	assert.Equal(t, geneng.MetricEstimatedTotal, convertMetric(settings.MetricEstimatedTotal))
	assert.Equal(t, geneng.MetricEstimatedTotal, convertMetric(settings.Metric("unknown")))
}

func TestPrepareAndDestroyDBDirsNoopOnEmptyRoot(t *testing.T) {
	assert.NoError(t, prepareDBDirs(""))
	destroyDBDirs("")
}

func TestPrepareDBDirsCreatesStatesAndSeen(t *testing.T) {
	root := t.TempDir()
	assert.NoError(t, prepareDBDirs(root))
	for _, sub := range []string{"states", "seen"} {
		info, err := os.Stat(filepath.Join(root, sub))
		assert.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	destroyDBDirs(root)
	for _, sub := range []string{"states", "seen"} {
		_, err := os.Stat(filepath.Join(root, sub))
		assert.True(t, os.IsNotExist(err))
	}
}

func TestLoadSettingsEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := loadSettings("")
	assert.NoError(t, err)
	assert.Equal(t, settings.Default(), cfg)
}
