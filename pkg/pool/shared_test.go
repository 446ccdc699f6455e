package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/mempool/pkg/errors"
)

func TestSharedCloneRelease(t *testing.T) {
	t.Run("item returns only after last clone", func(t *testing.T) {
		p, err := New(1, 1, newBytesFactory(16))
		require.NoError(t, err)

		h, ok := p.TryPull()
		require.True(t, ok)

		s := h.Freeze()
		clones := []*Shared[[]byte]{s.Clone(), s.Clone(), s.Clone()}
		assert.Equal(t, int64(4), s.Refs())

		s.Release()
		clones[0].Release()
		clones[1].Release()

		_, ok = p.TryPull()
		assert.False(t, ok, "item must stay leased while a clone is alive")

		clones[2].Release()

		h2, ok := p.TryPull()
		require.True(t, ok, "last release must return the item")
		h2.Release()
	})

	t.Run("release is idempotent per clone", func(t *testing.T) {
		p, err := New(1, 1, newBytesFactory(16))
		require.NoError(t, err)

		h, ok := p.TryPull()
		require.True(t, ok)

		s := h.Freeze()
		c := s.Clone()

		c.Release()
		c.Release()

		_, ok = p.TryPull()
		assert.False(t, ok, "double release of one clone must not drop the count twice")

		s.Release()
		assert.Equal(t, 1, p.Size())
	})

	t.Run("clone of released clone panics", func(t *testing.T) {
		p, err := New(1, 1, newBytesFactory(16))
		require.NoError(t, err)

		h, ok := p.TryPull()
		require.True(t, ok)
		s := h.Freeze()
		s.Release()

		assert.Panics(t, func() { s.Clone() })
		assert.Panics(t, func() { s.Value() })
	})
}

func TestSharedExactlyOnceReturn(t *testing.T) {
	const owners = 64

	p, err := New(1, 1, newBytesFactory(16))
	require.NoError(t, err)

	h, ok := p.TryPull()
	require.True(t, ok)

	s := h.Freeze()
	clones := make([]*Shared[[]byte], owners)
	clones[0] = s
	for i := 1; i < owners; i++ {
		clones[i] = s.Clone()
	}

	var wg sync.WaitGroup
	for _, c := range clones {
		wg.Add(1)
		go func(c *Shared[[]byte]) {
			defer wg.Done()
			c.Release()
		}(c)
	}
	wg.Wait()

	assert.Equal(t, 1, p.Size(), "item must be returned exactly once")
	stats := p.Stats()
	assert.Equal(t, int64(1), stats.Returns)
	assert.Equal(t, int64(0), stats.InUse)
}

func TestSharedUnfreeze(t *testing.T) {
	t.Run("succeeds when uniquely owned", func(t *testing.T) {
		p, err := New(1, 1, func() (int, error) { return 9, nil })
		require.NoError(t, err)

		h, ok := p.TryPull()
		require.True(t, ok)

		s := h.Freeze()
		h2, err := s.Unfreeze()
		require.NoError(t, err)
		assert.Equal(t, 9, h2.Value())

		assert.Panics(t, func() { s.Value() }, "unfreeze consumes the shared handle")

		h2.Release()
		assert.Equal(t, 1, p.Size())
	})

	t.Run("fails with outstanding clone", func(t *testing.T) {
		p, err := New(1, 1, newBytesFactory(16))
		require.NoError(t, err)

		h, ok := p.TryPull()
		require.True(t, ok)

		s := h.Freeze()
		c := s.Clone()

		h2, err := s.Unfreeze()
		assert.Nil(t, h2)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeOwnership))

		// The failed unfreeze must not consume anything.
		assert.NotPanics(t, func() { s.Value() })
		assert.NotPanics(t, func() { c.Value() })

		// Once the clone is gone, unfreeze is legal again.
		c.Release()
		h3, err := s.Unfreeze()
		require.NoError(t, err)
		h3.Release()
		assert.Equal(t, 1, p.Size())
	})

	t.Run("unfreeze after release panics", func(t *testing.T) {
		p, err := New(1, 1, newBytesFactory(16))
		require.NoError(t, err)

		h, ok := p.TryPull()
		require.True(t, ok)
		s := h.Freeze()
		s.Release()

		assert.Panics(t, func() { _, _ = s.Unfreeze() })
	})
}

func TestSharedValueAliasing(t *testing.T) {
	p, err := New(1, 1, func() (*[3]int, error) { return &[3]int{1, 2, 3}, nil })
	require.NoError(t, err)

	h, ok := p.TryPull()
	require.True(t, ok)

	s := h.Freeze()
	c := s.Clone()

	assert.Same(t, s.Value(), c.Value(), "clones alias the same item")

	s.Release()
	c.Release()
}
