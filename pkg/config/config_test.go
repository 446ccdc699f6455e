package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/mempool/pkg/errors"
)

func TestNewBenchConfig(t *testing.T) {
	cfg := NewBenchConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8, cfg.Pool.Shards)
	assert.Equal(t, 1000, cfg.Pool.Capacity)
	assert.NotEmpty(t, cfg.BlockSizes)
	assert.NotEmpty(t, cfg.Workers)
}

func TestPoolConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		config    PoolConfig
		wantError bool
	}{
		{
			name:   "valid",
			config: PoolConfig{Shards: 4, Capacity: 100},
		},
		{
			name:   "zero capacity is legal",
			config: PoolConfig{Shards: 1, Capacity: 0},
		},
		{
			name:      "zero shards",
			config:    PoolConfig{Shards: 0, Capacity: 100},
			wantError: true,
		},
		{
			name:      "negative capacity",
			config:    PoolConfig{Shards: 1, Capacity: -5},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBenchConfigValidate(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		cfg := NewBenchConfig()
		cfg.Name = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	})

	t.Run("invalid pool section", func(t *testing.T) {
		cfg := NewBenchConfig()
		cfg.Pool.Shards = 0
		err := cfg.Validate()
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	})

	t.Run("no block sizes", func(t *testing.T) {
		cfg := NewBenchConfig()
		cfg.BlockSizes = nil
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative block size", func(t *testing.T) {
		cfg := NewBenchConfig()
		cfg.BlockSizes = []int{4096, -1}
		assert.Error(t, cfg.Validate())
	})

	t.Run("no workers", func(t *testing.T) {
		cfg := NewBenchConfig()
		cfg.Workers = nil
		assert.Error(t, cfg.Validate())
	})

	t.Run("duration-only run is legal", func(t *testing.T) {
		cfg := NewBenchConfig()
		cfg.Iterations = 0
		cfg.Duration = time.Second
		assert.NoError(t, cfg.Validate())
	})

	t.Run("neither iterations nor duration", func(t *testing.T) {
		cfg := NewBenchConfig()
		cfg.Iterations = 0
		cfg.Duration = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestLoad(t *testing.T) {
	t.Run("loads yaml with env substitution", func(t *testing.T) {
		t.Setenv("BENCH_NAME", "from-env")

		path := filepath.Join(t.TempDir(), "bench.yaml")
		content := `
name: ${BENCH_NAME}
pool:
  shards: 16
  capacity: 250
block_sizes: [4096, 16384]
workers: [1, 8]
iterations: 5000
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg := NewBenchConfig()
		require.NoError(t, Load(path, cfg))

		assert.Equal(t, "from-env", cfg.Name)
		assert.Equal(t, 16, cfg.Pool.Shards)
		assert.Equal(t, 250, cfg.Pool.Capacity)
		assert.Equal(t, []int{4096, 16384}, cfg.BlockSizes)
		assert.Equal(t, []int{1, 8}, cfg.Workers)
		assert.Equal(t, 5000, cfg.Iterations)
		require.NoError(t, cfg.Validate())
	})

	t.Run("unset variable expands to empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bench.yaml")
		content := "name: pre${MEMPOOL_TEST_UNSET_VAR}post\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg := NewBenchConfig()
		require.NoError(t, Load(path, cfg))
		assert.Equal(t, "prepost", cfg.Name)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := NewBenchConfig()
		err := Load("/nonexistent/bench.yaml", cfg)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("name: [unclosed"), 0o600))

		err := Load(path, NewBenchConfig())
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")

	cfg := NewBenchConfig()
	cfg.Name = "round-trip"
	cfg.Pool.Shards = 3

	require.NoError(t, Save(path, cfg))

	loaded := &BenchConfig{}
	require.NoError(t, Load(path, loaded))
	assert.Equal(t, cfg.Name, loaded.Name)
	assert.Equal(t, cfg.Pool, loaded.Pool)
}
