package pool

import (
	"sync/atomic"

	"github.com/ajitpratap0/mempool/pkg/errors"
	"github.com/ajitpratap0/mempool/pkg/lockfree"
)

// Factory constructs a single pool item. It is supplied by the caller at pool
// construction (eager pre-fill) and optionally again per Pull (fallback
// construction when every shard is empty).
type Factory[T any] func() (T, error)

// Pool is a sharded object pool. Items live in fixed-capacity shards, each
// guarded by its own mutex; two cache-line padded round-robin counters pick
// the starting shard for pulls and returns so that concurrent goroutines
// spread across shards instead of piling onto one lock.
//
// The shard vector is immutable after construction. A Pool is safe for
// concurrent use and is shared by reference across all handles it issues.
type Pool[T any] struct {
	shards []shard[T]

	pullCounter   lockfree.Counter
	returnCounter lockfree.Counter

	stats struct {
		hits      int64
		misses    int64
		fallbacks int64
		returns   int64
		discards  int64
		inUse     int64
	}
}

// New creates a pool of shardCount shards, each eagerly pre-filled to
// capacityPerShard items using the factory. Construction is the only
// O(shards*capacity) cost in the pool's lifetime; it fails only when the
// factory fails, and that failure is propagated to the caller.
func New[T any](shardCount, capacityPerShard int, factory Factory[T]) (*Pool[T], error) {
	if shardCount < 1 {
		return nil, errors.New(errors.ErrorTypeValidation, "shard count must be at least 1").
			WithDetail("shard_count", shardCount)
	}
	if capacityPerShard < 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "capacity per shard must not be negative").
			WithDetail("capacity_per_shard", capacityPerShard)
	}
	if factory == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "item factory must not be nil")
	}

	p := &Pool[T]{
		shards: make([]shard[T], shardCount),
	}
	for i := range p.shards {
		p.shards[i].capacity = capacityPerShard
		p.shards[i].items = make([]T, 0, capacityPerShard)
		for j := 0; j < capacityPerShard; j++ {
			item, err := factory()
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeFactory, "item factory failed during pool construction").
					WithDetail("shard", i)
			}
			p.shards[i].items = append(p.shards[i].items, item)
		}
	}
	return p, nil
}

// TryPull attempts a non-blocking pop from a single round-robin selected
// shard. It returns false when that shard is empty; it does not probe other
// shards. This is the cheap fast path favoring low contention over hit rate.
func (p *Pool[T]) TryPull() (*Handle[T], bool) {
	idx := int(p.pullCounter.Next() % uint64(len(p.shards)))
	item, ok := p.shards[idx].tryPop()
	if !ok {
		atomic.AddInt64(&p.stats.misses, 1)
		return nil, false
	}
	atomic.AddInt64(&p.stats.hits, 1)
	atomic.AddInt64(&p.stats.inUse, 1)
	return &Handle[T]{pool: p, item: item, shard: idx}, true
}

// TryPullAny is like TryPull but on a miss linearly probes the remaining
// shards, wrapping from the selected start index, before giving up. It raises
// the hit rate at the cost of extra lock attempts under pool-wide exhaustion.
func (p *Pool[T]) TryPullAny() (*Handle[T], bool) {
	start := p.pullCounter.Next()
	if h := p.pullFrom(start); h != nil {
		return h, true
	}
	atomic.AddInt64(&p.stats.misses, 1)
	return nil, false
}

// Pull probes every shard and, when all are empty, synchronously invokes the
// fallback factory to manufacture a fresh item. It never blocks and never
// returns empty: the only failure mode is the fallback factory's own error,
// which is propagated unchanged in meaning.
func (p *Pool[T]) Pull(fallback Factory[T]) (*Handle[T], error) {
	start := p.pullCounter.Next()
	if h := p.pullFrom(start); h != nil {
		return h, nil
	}

	item, err := fallback()
	if err != nil {
		atomic.AddInt64(&p.stats.misses, 1)
		return nil, errors.Wrap(err, errors.ErrorTypeFactory, "fallback factory failed")
	}
	atomic.AddInt64(&p.stats.fallbacks, 1)
	atomic.AddInt64(&p.stats.inUse, 1)
	// The fresh item is stamped with the shard the probe started at so its
	// eventual return targets a real shard.
	idx := int(start % uint64(len(p.shards)))
	return &Handle[T]{pool: p, item: item, shard: idx}, nil
}

// pullFrom probes all shards starting at the given counter value, wrapping.
// Returns nil when every shard is empty.
func (p *Pool[T]) pullFrom(start uint64) *Handle[T] {
	n := uint64(len(p.shards))
	for i := uint64(0); i < n; i++ {
		idx := int((start + i) % n)
		if item, ok := p.shards[idx].tryPop(); ok {
			atomic.AddInt64(&p.stats.hits, 1)
			atomic.AddInt64(&p.stats.inUse, 1)
			return &Handle[T]{pool: p, item: item, shard: idx}
		}
	}
	return nil
}

// put hands a leased item back to the pool. The starting shard comes from the
// return counter; up to shardCount shards are probed for spare capacity and
// the first fit receives the item. When every shard is full the item is
// deliberately discarded so that returns never block and shard sizes never
// exceed the configured capacity. Reports whether the item was kept.
func (p *Pool[T]) put(item T) bool {
	atomic.AddInt64(&p.stats.inUse, -1)

	start := p.returnCounter.Next()
	n := uint64(len(p.shards))
	for i := uint64(0); i < n; i++ {
		idx := int((start + i) % n)
		if p.shards[idx].tryPush(item) {
			atomic.AddInt64(&p.stats.returns, 1)
			return true
		}
	}
	atomic.AddInt64(&p.stats.discards, 1)
	return false
}

// detach records that a leased item permanently left pool management.
func (p *Pool[T]) detach() {
	atomic.AddInt64(&p.stats.inUse, -1)
}

// ShardCount returns the number of shards, fixed at construction.
func (p *Pool[T]) ShardCount() int {
	return len(p.shards)
}

// Capacity returns the per-shard capacity, fixed at construction.
func (p *Pool[T]) Capacity() int {
	if len(p.shards) == 0 {
		return 0
	}
	return p.shards[0].capacity
}

// Size returns the total number of cached items across all shards. The value
// is a point-in-time sum; it may be stale under concurrent pulls and returns.
func (p *Pool[T]) Size() int {
	total := 0
	for i := range p.shards {
		total += p.shards[i].size()
	}
	return total
}

// ShardSize returns the current number of cached items in one shard.
func (p *Pool[T]) ShardSize(i int) int {
	return p.shards[i].size()
}

// Stats represents pool counters for monitoring and optimization.
type Stats struct {
	// Hits is the number of pulls served from a shard
	Hits int64
	// Misses is the number of pulls that found no cached item
	Misses int64
	// Fallbacks is the number of items manufactured by a fallback factory
	Fallbacks int64
	// Returns is the number of items handed back to a shard
	Returns int64
	// Discards is the number of returned items shed because every shard was full
	Discards int64
	// InUse is the number of items currently leased out through handles
	InUse int64
}

// Stats returns a snapshot of the pool's counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Hits:      atomic.LoadInt64(&p.stats.hits),
		Misses:    atomic.LoadInt64(&p.stats.misses),
		Fallbacks: atomic.LoadInt64(&p.stats.fallbacks),
		Returns:   atomic.LoadInt64(&p.stats.returns),
		Discards:  atomic.LoadInt64(&p.stats.discards),
		InUse:     atomic.LoadInt64(&p.stats.inUse),
	}
}
