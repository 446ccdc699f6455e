package pool

import (
	"sync/atomic"

	"github.com/ajitpratap0/mempool/pkg/errors"
)

// Shared is a reference-counted lease over one pooled item. Multiple clones
// may alias the same item concurrently; the item returns to its shard exactly
// once, triggered by the clone whose release drives the count to zero.
//
// Shared grants read access only. Mutation requires reclaiming exclusivity
// with Unfreeze, which is legal only while no other clone is outstanding.
//
// Each clone is itself single-owner: Clone, Value, Release, and Unfreeze on
// one clone must not race with each other, but different clones are free to
// release concurrently from different goroutines.
type Shared[T any] struct {
	pool     *Pool[T]
	item     T
	shard    int
	refs     *atomic.Int64
	released bool
}

func newShared[T any](p *Pool[T], item T, shard int) *Shared[T] {
	refs := new(atomic.Int64)
	refs.Store(1)
	return &Shared[T]{pool: p, item: item, shard: shard, refs: refs}
}

// Value returns the shared item for read access. Panics if this clone was
// already released or unfrozen.
func (s *Shared[T]) Value() T {
	if s.released {
		panic("mempool: use of released shared handle")
	}
	return s.item
}

// Shard returns the index of the shard the item was pulled from.
func (s *Shared[T]) Shard() int {
	return s.shard
}

// Refs returns the current reference count. The value is exact at the moment
// of the load but may be stale by the time the caller inspects it; it is
// intended for tests and diagnostics, not for ownership decisions.
func (s *Shared[T]) Refs() int64 {
	return s.refs.Load()
}

// Clone atomically increments the reference count and returns a new handle
// aliasing the same item. This is the only way to create additional owners.
func (s *Shared[T]) Clone() *Shared[T] {
	if s.released {
		panic("mempool: clone of released shared handle")
	}
	s.refs.Add(1)
	return &Shared[T]{pool: s.pool, item: s.item, shard: s.shard, refs: s.refs}
}

// Release drops this clone's reference. The clone that observes the count
// transitioning to zero hands the item back to the pool; the single atomic
// decrement guarantees exactly one releaser does so regardless of
// interleaving. Releasing an already released clone is a no-op.
func (s *Shared[T]) Release() {
	if s.released {
		return
	}
	s.released = true
	item := s.item
	var zero T
	s.item = zero
	if s.refs.Add(-1) == 0 {
		s.pool.put(item)
	}
}

// Unfreeze reclaims exclusive ownership, consuming this clone and yielding a
// fresh exclusive handle. It fails with an ownership error when other clones
// are still outstanding; the compare-and-swap from one to zero makes the
// uniqueness check and the consumption a single atomic step, so a concurrent
// release of another clone cannot slip between them.
func (s *Shared[T]) Unfreeze() (*Handle[T], error) {
	if s.released {
		panic("mempool: unfreeze of released shared handle")
	}
	if !s.refs.CompareAndSwap(1, 0) {
		return nil, errors.New(errors.ErrorTypeOwnership, "cannot unfreeze shared handle with outstanding clones").
			WithDetail("refs", s.refs.Load())
	}
	s.released = true
	item := s.item
	var zero T
	s.item = zero
	return &Handle[T]{pool: s.pool, item: item, shard: s.shard}, nil
}
