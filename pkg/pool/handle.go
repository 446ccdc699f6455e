package pool

// Handle is an exclusive, single-owner lease over one pooled item. The owner
// may read and mutate the item for as long as the handle is alive; on Release
// the item is unconditionally handed back to the pool. A Handle must not be
// shared across goroutines — freeze it first.
//
// Every handle ends its life in exactly one of three ways: Release (item
// returns to a shard or is shed), Detach (caller takes permanent ownership),
// or Freeze (ownership moves into a new Shared handle). Each of these
// consumes the handle; touching it afterwards panics.
//
// The intended usage pairs a pull with a deferred release so the item is
// returned on every control-flow exit:
//
//	h, ok := p.TryPull()
//	if !ok {
//	    return ErrExhausted
//	}
//	defer h.Release()
type Handle[T any] struct {
	pool  *Pool[T]
	item  T
	shard int
	taken bool
}

// Value returns the leased item. Panics if the handle was already released,
// detached, or frozen.
func (h *Handle[T]) Value() T {
	if h.taken {
		panic("mempool: use of consumed handle")
	}
	return h.item
}

// Set replaces the leased item in place. Useful for slice-typed items whose
// append may have reallocated the backing array. Panics if the handle was
// already consumed.
func (h *Handle[T]) Set(item T) {
	if h.taken {
		panic("mempool: use of consumed handle")
	}
	h.item = item
}

// Shard returns the index of the shard the item was pulled from, or the shard
// a fallback-constructed item was stamped with.
func (h *Handle[T]) Shard() int {
	return h.shard
}

// Release hands the item back to the pool. Calling Release on an already
// consumed handle is a no-op, which makes the deferred-release pattern safe
// to combine with Detach and Freeze on other code paths.
func (h *Handle[T]) Release() {
	if h.taken {
		return
	}
	item := h.take()
	h.pool.put(item)
}

// Detach consumes the handle and returns the raw item to the caller
// permanently. The pool no longer manages the item; it will never reappear
// from a pull unless independently reconstructed.
func (h *Handle[T]) Detach() T {
	item := h.take()
	h.pool.detach()
	return item
}

// Freeze consumes the handle and produces a Shared handle wrapping the same
// item with a reference count of one. The item stays leased until the last
// clone of the shared handle releases.
func (h *Handle[T]) Freeze() *Shared[T] {
	item := h.take()
	return newShared(h.pool, item, h.shard)
}

// take transitions the handle from present to consumed exactly once and
// returns the payload. The zero value is left behind so the pool does not
// retain a second reference to the item.
func (h *Handle[T]) take() T {
	if h.taken {
		panic("mempool: use of consumed handle")
	}
	h.taken = true
	item := h.item
	var zero T
	h.item = zero
	return item
}
