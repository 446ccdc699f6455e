// Package metrics provides performance tracking and observability for the
// mempool library using Prometheus metrics.
//
// The package exposes pool-level indicators: pull outcomes (hit, miss,
// fallback construction), return outcomes (returned, discarded by capacity
// shedding), shard depth, and pull latency. The pool core itself never
// records metrics — callers bind a Collector to a pool and publish snapshots
// at whatever cadence suits them, keeping the hot pull/return paths free of
// metric overhead.
//
// Example:
//
//	collector := metrics.NewCollector("buffers")
//	...
//	s := p.Stats()
//	collector.ObserveStats(s.Hits, s.Misses, s.Fallbacks, s.Returns, s.Discards, s.InUse)
//	for i := 0; i < p.ShardCount(); i++ {
//	    collector.SetShardDepth(i, p.ShardSize(i))
//	}
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pulls tracks pull attempts by outcome.
	// Labels: pool (pool name), result (hit/miss/fallback)
	//
	// Example:
	//	metrics.Pulls.WithLabelValues("buffers", "hit").Inc()
	Pulls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mempool_pulls_total",
			Help: "Total number of pull attempts by outcome",
		},
		[]string{"pool", "result"},
	)

	// Returns tracks item returns by outcome.
	// Labels: pool (pool name), outcome (returned/discarded)
	Returns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mempool_returns_total",
			Help: "Total number of item returns by outcome",
		},
		[]string{"pool", "outcome"},
	)

	// ItemsInUse tracks the number of items currently leased out.
	ItemsInUse = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mempool_items_in_use",
			Help: "Number of items currently leased through handles",
		},
		[]string{"pool"},
	)

	// ShardDepth tracks the number of cached items per shard.
	ShardDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mempool_shard_depth",
			Help: "Current number of cached items in a shard",
		},
		[]string{"pool", "shard"},
	)

	// PullLatency tracks the distribution of pull latencies in nanoseconds.
	// The buckets are tuned for lock-acquisition scale operations.
	PullLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "mempool_pull_latency_nanoseconds",
			Help: "Pull latency in nanoseconds",
			Buckets: []float64{
				100,    // 100ns - uncontended pop
				1000,   // 1μs - contended lock
				10000,  // 10μs - full probe sweep
				100000, // 100μs - fallback construction
				1e6,    // 1ms - expensive factories
				1e7,    // 10ms
			},
		},
		[]string{"pool"},
	)

	// Throughput tracks pulls per second as published by benchmark runs.
	Throughput = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mempool_throughput_pulls_per_second",
			Help: "Current throughput in pulls per second",
		},
		[]string{"pool"},
	)
)

// Collector publishes one pool's counters to the package-level Prometheus
// metrics. It remembers the previously observed snapshot so repeated
// ObserveStats calls emit deltas into the counters rather than re-adding
// absolute values.
type Collector struct {
	mu        sync.Mutex
	name      string
	last      snapshot
	startTime time.Time
}

// snapshot mirrors the monotonic counters of a pool stats reading.
type snapshot struct {
	hits      int64
	misses    int64
	fallbacks int64
	returns   int64
	discards  int64
}

// NewCollector creates a metrics collector for a named pool.
func NewCollector(name string) *Collector {
	return &Collector{
		name:      name,
		startTime: time.Now(),
	}
}

// StartTime returns when the collector was created.
func (c *Collector) StartTime() time.Time {
	return c.startTime
}

// ObserveStats publishes the delta between the given stats snapshot and the
// previously observed one. InUse is published as an absolute gauge.
func (c *Collector) ObserveStats(hits, misses, fallbacks, returns, discards, inUse int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	Pulls.WithLabelValues(c.name, "hit").Add(float64(hits - c.last.hits))
	Pulls.WithLabelValues(c.name, "miss").Add(float64(misses - c.last.misses))
	Pulls.WithLabelValues(c.name, "fallback").Add(float64(fallbacks - c.last.fallbacks))
	Returns.WithLabelValues(c.name, "returned").Add(float64(returns - c.last.returns))
	Returns.WithLabelValues(c.name, "discarded").Add(float64(discards - c.last.discards))
	ItemsInUse.WithLabelValues(c.name).Set(float64(inUse))

	c.last = snapshot{
		hits:      hits,
		misses:    misses,
		fallbacks: fallbacks,
		returns:   returns,
		discards:  discards,
	}
}

// SetShardDepth publishes the current cached-item count of one shard.
func (c *Collector) SetShardDepth(shard, depth int) {
	ShardDepth.WithLabelValues(c.name, strconv.Itoa(shard)).Set(float64(depth))
}

// ObservePullLatency records one pull duration.
func (c *Collector) ObservePullLatency(d time.Duration) {
	PullLatency.WithLabelValues(c.name).Observe(float64(d.Nanoseconds()))
}

// SetThroughput publishes the current pulls-per-second reading.
func (c *Collector) SetThroughput(pullsPerSec float64) {
	Throughput.WithLabelValues(c.name).Set(pullsPerSec)
}

// Timer provides a simple timing mechanism for measuring operation durations.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Stop returns the elapsed duration since creation. The timer can be stopped
// multiple times, each returning the total elapsed time since creation.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ThroughputTracker tracks pulls per second over time windows.
// Thread-safe for concurrent use.
type ThroughputTracker struct {
	mu        sync.Mutex
	count     int64
	lastReset time.Time
	pool      string
}

// NewThroughputTracker creates a throughput tracker for a named pool.
//
// Example:
//
//	tracker := metrics.NewThroughputTracker("buffers")
//	for i := 0; i < n; i++ {
//	    h, _ := p.TryPull()
//	    ...
//	    tracker.Increment(1)
//	}
//	perSec := tracker.GetAndReset()
func NewThroughputTracker(pool string) *ThroughputTracker {
	return &ThroughputTracker{
		lastReset: time.Now(),
		pool:      pool,
	}
}

// Increment adds n to the pull count. Safe for concurrent use.
func (t *ThroughputTracker) Increment(n int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count += n
}

// GetAndReset calculates the current throughput (pulls/second), updates the
// Prometheus gauge, resets the counter, and returns the calculated value.
func (t *ThroughputTracker) GetAndReset() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	elapsed := time.Since(t.lastReset).Seconds()
	if elapsed == 0 {
		return 0
	}

	throughput := float64(t.count) / elapsed
	Throughput.WithLabelValues(t.pool).Set(throughput)

	t.count = 0
	t.lastReset = time.Now()
	return throughput
}
