// Package lockfree provides lock-free primitives for high-performance concurrent pooling
package lockfree

import (
	"sync/atomic"
)

// Counter is a cache-line padded atomic counter used for round-robin shard
// selection. Padding keeps two counters that are incremented by different
// call paths (pulls vs returns) off the same cache line to avoid false sharing.
type Counter struct {
	value    atomic.Uint64
	_padding [7]uint64 //nolint:unused // 56 bytes padding to separate cache lines
}

// Next atomically increments the counter and returns the pre-increment value.
// The single fetch-and-add is what makes concurrent round-robin selection safe:
// no two callers observe the same slot unless the counter wraps.
func (c *Counter) Next() uint64 {
	return c.value.Add(1) - 1
}

// Get returns the current value of the counter atomically.
func (c *Counter) Get() uint64 {
	return c.value.Load()
}

// Reset atomically resets the counter to zero.
func (c *Counter) Reset() {
	c.value.Store(0)
}

// AtomicCounter provides a lock-free counter for statistics collection
// with atomic operations for thread-safe updates.
type AtomicCounter struct {
	value atomic.Uint64
}

// NewAtomicCounter creates a new atomic counter initialized to zero.
func NewAtomicCounter() *AtomicCounter {
	return &AtomicCounter{}
}

// Increment atomically increments the counter by one.
func (c *AtomicCounter) Increment() {
	c.value.Add(1)
}

// Add atomically adds the given delta value to the counter.
func (c *AtomicCounter) Add(delta uint64) {
	c.value.Add(delta)
}

// Get returns the current value of the counter atomically.
func (c *AtomicCounter) Get() uint64 {
	return c.value.Load()
}

// Reset atomically resets the counter to zero.
func (c *AtomicCounter) Reset() {
	c.value.Store(0)
}
