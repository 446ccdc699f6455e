package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajitpratap0/mempool/pkg/config"
	"github.com/ajitpratap0/mempool/pkg/metrics"
	"github.com/ajitpratap0/mempool/pkg/testutil"
)

func cellConfig() *config.BenchConfig {
	cfg := config.NewBenchConfig()
	cfg.Pool = config.PoolConfig{Shards: 2, Capacity: 8}
	cfg.BlockSizes = []int{1024}
	cfg.Workers = []int{2}
	return cfg
}

func TestRunCellIterationBounded(t *testing.T) {
	cfg := cellConfig()
	cfg.Iterations = 1000
	cfg.Duration = 0
	require.NoError(t, cfg.Validate())

	res, err := runCell(cfg, metrics.NewCollector("cell-iter"), 1024, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), res.TotalPulls, "4 workers x 250 cycles each")
	assert.Equal(t, int64(0), res.Stats.InUse)
}

func TestRunCellDurationBounded(t *testing.T) {
	ctx, cancel := testutil.TestContext(t)
	defer cancel()
	log := testutil.TestLogger(t)

	cfg := cellConfig()
	cfg.Iterations = 0
	cfg.Duration = 200 * time.Millisecond
	require.NoError(t, cfg.Validate())

	res, err := runCell(cfg, metrics.NewCollector("cell-duration"), 1024, 2)
	require.NoError(t, err)
	require.NoError(t, ctx.Err(), "cell must finish inside the test budget")

	// Workers re-check the deadline every 1024 cycles, so each must complete
	// at least one full block before stopping.
	assert.GreaterOrEqual(t, res.TotalPulls, int64(2*1024),
		"workers must keep cycling until the deadline")
	assert.GreaterOrEqual(t, res.Elapsed, 100*time.Millisecond)

	log.Info("duration-bounded cell",
		zap.Int64("pulls", res.TotalPulls),
		zap.Duration("elapsed", res.Elapsed),
		zap.Float64("pulls_per_sec", res.PullsPerSec))
}
