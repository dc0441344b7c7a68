package trafficcount

import (
	"fmt"
	"io"
	"sync"
)

// Pool is a simple pool of resources that can not be used concurrently, such
// as detection networks, so several videos can be processed in parallel
type Pool[T io.Closer] struct {
	// pool of resources
	items chan T
	// size of pool
	size int
	// closed is set once Close has been called, guarded by mu
	closed bool
	mu     sync.Mutex
}

// NewPool creates a new pool of size resources, each created by calling open
// with its index
func NewPool[T io.Closer](size int, open func(i int) (T, error)) (*Pool[T], error) {

	if size < 1 {
		return nil, fmt.Errorf("pool size must be at least 1, got %d", size)
	}

	p := &Pool[T]{
		items: make(chan T, size),
		size:  size,
	}

	for i := 0; i < size; i++ {
		item, err := open(i)

		if err != nil {
			// close any instances that may have been created before receiving
			// the error
			p.Close()
			return nil, fmt.Errorf("error creating pool item %d: %w", i, err)
		}

		// attach to pool
		p.Return(item)
	}

	return p, nil
}

// Get a resource from the pool, blocks until one is available
func (p *Pool[T]) Get() T {
	return <-p.items
}

// Return a resource to the pool.  A resource returned to a full or closed
// pool is closed instead
func (p *Pool[T]) Return(item T) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		_ = item.Close()
		return
	}

	select {
	case p.items <- item:
	default:
		_ = item.Close()
	}
}

// Size returns the number of resources in the pool
func (p *Pool[T]) Size() int {
	return p.size
}

// Close the pool and all resources in it
func (p *Pool[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	p.closed = true
	close(p.items)

	// close all resources
	for next := range p.items {
		_ = next.Close()
	}
}
