// Package config provides configuration for mempool pools and the benchmark
// harness. Pool knobs are exactly the shard count and per-shard capacity; the
// benchmark section describes the synthetic workload driven against a pool.
//
// Example usage:
//
//	cfg := config.NewBenchConfig()
//	cfg.Pool.Shards = 16
//	cfg.Pool.Capacity = 500
//
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
// Environment variables are supported in config files with ${VAR_NAME} syntax.
package config

import (
	"runtime"
	"time"

	"github.com/ajitpratap0/mempool/pkg/errors"
)

// PoolConfig holds the two knobs a pool takes at construction.
type PoolConfig struct {
	// Shards is the number of independently locked buckets
	Shards int `yaml:"shards" json:"shards"`
	// Capacity is the fixed per-shard item capacity
	Capacity int `yaml:"capacity" json:"capacity"`
}

// BenchConfig describes one benchmark run of the harness.
type BenchConfig struct {
	// Name identifies the run in logs and reports
	Name string `yaml:"name" json:"name"`

	// Pool settings for the pool under test
	Pool PoolConfig `yaml:"pool" json:"pool"`

	// BlockSizes are the byte-buffer sizes to exercise, one sub-run each
	BlockSizes []int `yaml:"block_sizes" json:"block_sizes"`
	// Workers are the goroutine counts to exercise, one sub-run each
	Workers []int `yaml:"workers" json:"workers"`
	// Iterations is the number of pull/release cycles per worker
	Iterations int `yaml:"iterations" json:"iterations"`
	// Duration bounds a sub-run; zero means iteration-bounded only
	Duration time.Duration `yaml:"duration" json:"duration"`

	// ReportPath is where the JSON report is written; empty disables it
	ReportPath string `yaml:"report_path" json:"report_path"`
	// LogLevel sets the harness log level
	LogLevel string `yaml:"log_level" json:"log_level"`
}

// NewBenchConfig returns a benchmark configuration mirroring the workload the
// library is tuned for: byte blocks from 4KB to 512KB across worker counts
// from 1 to twice the CPU count, against an 8x1000 pool.
func NewBenchConfig() *BenchConfig {
	return &BenchConfig{
		Name: "mempool-bench",
		Pool: PoolConfig{
			Shards:   8,
			Capacity: 1000,
		},
		BlockSizes: []int{4 * 1024, 16 * 1024, 64 * 1024, 128 * 1024, 512 * 1024},
		Workers:    []int{1, 2, 4, runtime.NumCPU(), runtime.NumCPU() * 2},
		Iterations: 100000,
		LogLevel:   "info",
	}
}

// Validate checks the pool knobs.
func (c *PoolConfig) Validate() error {
	if c.Shards < 1 {
		return errors.New(errors.ErrorTypeValidation, "pool must have at least one shard").
			WithDetail("shards", c.Shards)
	}
	if c.Capacity < 0 {
		return errors.New(errors.ErrorTypeValidation, "per-shard capacity must not be negative").
			WithDetail("capacity", c.Capacity)
	}
	return nil
}

// Validate checks the whole benchmark configuration.
func (c *BenchConfig) Validate() error {
	if c.Name == "" {
		return errors.New(errors.ErrorTypeConfig, "benchmark name must not be empty")
	}
	if err := c.Pool.Validate(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid pool section")
	}
	if len(c.BlockSizes) == 0 {
		return errors.New(errors.ErrorTypeConfig, "at least one block size is required")
	}
	for _, size := range c.BlockSizes {
		if size <= 0 {
			return errors.New(errors.ErrorTypeConfig, "block sizes must be positive").
				WithDetail("block_size", size)
		}
	}
	if len(c.Workers) == 0 {
		return errors.New(errors.ErrorTypeConfig, "at least one worker count is required")
	}
	for _, w := range c.Workers {
		if w <= 0 {
			return errors.New(errors.ErrorTypeConfig, "worker counts must be positive").
				WithDetail("workers", w)
		}
	}
	if c.Iterations <= 0 && c.Duration <= 0 {
		return errors.New(errors.ErrorTypeConfig, "either iterations or duration must be set")
	}
	return nil
}
