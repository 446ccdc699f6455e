package pool

import (
	"sync"
)

// shard is one independently locked, bounded collection of pooled items.
// Invariant: len(items) <= capacity whenever the lock is not held by a mutator.
type shard[T any] struct {
	mu       sync.Mutex
	items    []T
	capacity int
}

// tryPop removes and returns the most recently pushed item.
// Returns the zero value and false when the shard is empty. Never blocks
// beyond the constant-time critical section.
func (s *shard[T]) tryPop() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.items)
	if n == 0 {
		var zero T
		return zero, false
	}

	item := s.items[n-1]
	var zero T
	s.items[n-1] = zero // drop the reference so the item is not retained twice
	s.items = s.items[:n-1]
	return item, true
}

// tryPush appends the item if the shard has spare capacity.
// Returns false when the shard is full; the caller decides what to do with
// the rejected item.
func (s *shard[T]) tryPush(item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) >= s.capacity {
		return false
	}
	s.items = append(s.items, item)
	return true
}

// size returns the current number of cached items.
func (s *shard[T]) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
