// Package mempool provides a concurrent, sharded object pool for Go: a
// reusable-memory allocator that amortizes the cost of expensive-to-construct
// objects (buffers, slices, connection-like resources) by keeping a bounded
// cache of pre-built instances distributed across independently locked shards.
//
// # Architecture
//
// The pool is built on three ideas:
//
// 1. Sharding: items live in N fixed-capacity shards, each guarded by its own
// mutex. Round-robin counters pick the starting shard for pulls and returns,
// bounding expected contention on any one lock to roughly
// activeGoroutines/N.
//
// 2. Non-blocking everything: a pull against an empty pool falls back to
// fresh construction (or reports empty), and a return against a full pool
// deliberately discards the item. No operation ever waits on another
// goroutine's release.
//
// 3. Dual-mode handles: a pull yields an exclusive handle with guaranteed
// return-or-discard on release; freezing converts it to a shared,
// reference-counted handle whose item returns exactly once when the last
// clone releases, and unfreezing reclaims exclusivity when uniquely owned.
//
// # Quick Start
//
//	import "github.com/ajitpratap0/mempool/pkg/pool"
//
//	p, err := pool.New(8, 1000, func() ([]byte, error) {
//	    return make([]byte, 0, 4096), nil
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	h, err := p.Pull(func() ([]byte, error) {
//	    return make([]byte, 0, 4096), nil
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer h.Release()
//
//	buf := h.Value()
//
// # Key Packages
//
//	pkg/pool      - Sharded object pool, handles, sized buffer pools
//	pkg/config    - Pool and benchmark configuration
//	pkg/errors    - Structured error handling
//	pkg/logger    - High-performance structured logging
//	pkg/metrics   - Prometheus metrics for pool observability
//	pkg/lockfree  - Atomic counters for round-robin shard selection
//
// # Benchmark Harness
//
// cmd/mempool-bench drives the pool with configurable worker counts and block
// sizes, and writes throughput reports:
//
//	go run ./cmd/mempool-bench bench --shards 8 --capacity 1000 --report out.json
package mempool
