package pool

// BufferPool manages byte buffer pooling with size-based buckets. Each bucket
// is its own sharded Pool[[]byte], so buffer churn from many goroutines
// spreads across shard locks the same way generic item churn does. Requests
// larger than the biggest bucket are served by an overflow pool with zero
// shard capacity: pulls always construct fresh and returns always shed, which
// keeps oversized buffers out of the cache without a separate code path.
type BufferPool struct {
	pools    []*Pool[[]byte]
	sizes    []int
	overflow *Pool[[]byte]
}

// bufferSizes are the power-of-2 bucket sizes from 512B to 16MB, covering
// common buffer requirements.
var bufferSizes = []int{
	512,      // 512B
	1024,     // 1KB
	4096,     // 4KB
	16384,    // 16KB
	65536,    // 64KB
	262144,   // 256KB
	1048576,  // 1MB
	4194304,  // 4MB
	16777216, // 16MB
}

// NewBufferPool creates a buffer pool whose buckets each hold
// shardCount*capacityPerShard pre-built buffers. Note that the pre-fill
// allocates every bucket up front; keep capacityPerShard small for the
// multi-megabyte buckets unless that footprint is intended.
func NewBufferPool(shardCount, capacityPerShard int) (*BufferPool, error) {
	pools := make([]*Pool[[]byte], len(bufferSizes))
	for i, size := range bufferSizes {
		size := size // capture loop variable
		p, err := New(shardCount, capacityPerShard, func() ([]byte, error) {
			return make([]byte, size), nil
		})
		if err != nil {
			return nil, err
		}
		pools[i] = p
	}

	overflow, err := New(1, 0, func() ([]byte, error) { return nil, nil })
	if err != nil {
		return nil, err
	}

	return &BufferPool{
		pools:    pools,
		sizes:    bufferSizes,
		overflow: overflow,
	}, nil
}

// Get returns a handle over a buffer of at least the requested size, served
// from the smallest bucket that fits. The buffer's length is the bucket size;
// slice h.Value()[:size] for the exact request. Releasing the handle returns
// the buffer to its bucket (or sheds it when the bucket is full).
func (p *BufferPool) Get(size int) (*Handle[[]byte], error) {
	for i, s := range p.sizes {
		if s >= size {
			return p.pools[i].Pull(func() ([]byte, error) {
				return make([]byte, p.sizes[i]), nil
			})
		}
	}

	// Oversized request: the overflow pool always falls through to fresh
	// construction, and its zero capacity sheds the buffer on release.
	return p.overflow.Pull(func() ([]byte, error) {
		return make([]byte, size), nil
	})
}

// Size returns the total number of cached buffers across all buckets.
func (p *BufferPool) Size() int {
	total := 0
	for _, pool := range p.pools {
		total += pool.Size()
	}
	return total
}

// Stats returns aggregated counters across all buckets, including overflow.
func (p *BufferPool) Stats() Stats {
	var agg Stats
	for _, pool := range p.pools {
		s := pool.Stats()
		agg.Hits += s.Hits
		agg.Misses += s.Misses
		agg.Fallbacks += s.Fallbacks
		agg.Returns += s.Returns
		agg.Discards += s.Discards
		agg.InUse += s.InUse
	}
	s := p.overflow.Stats()
	agg.Misses += s.Misses
	agg.Fallbacks += s.Fallbacks
	agg.Discards += s.Discards
	agg.InUse += s.InUse
	return agg
}
