package pool_test

import (
	"fmt"

	"github.com/ajitpratap0/mempool/pkg/pool"
)

func ExamplePool() {
	p, err := pool.New(2, 1, func() ([]byte, error) {
		return make([]byte, 0, 4096), nil
	})
	if err != nil {
		panic(err)
	}

	h, ok := p.TryPull()
	fmt.Println("pulled:", ok)

	buf := append(h.Value(), "hello"...)
	h.Set(buf)
	h.Release()

	fmt.Println("cached items:", p.Size())
	// Output:
	// pulled: true
	// cached items: 2
}

func ExampleHandle_Freeze() {
	p, err := pool.New(1, 1, func() (string, error) {
		return "shared payload", nil
	})
	if err != nil {
		panic(err)
	}

	h, _ := p.TryPull()
	s := h.Freeze()
	c := s.Clone()

	fmt.Println(c.Value())

	s.Release()
	c.Release() // last release returns the item to its shard

	fmt.Println("cached items:", p.Size())
	// Output:
	// shared payload
	// cached items: 1
}
