// Package pool layers a size-classed free-list cache on top of
// hsAllocator.Allocator, avoiding a round trip through the placement engine
// for the common case where a same-class block was freed and can be handed
// straight back out.
package pool

import (
	"fmt"
	"math/rand"
	"sync"
	"unsafe"

	"github.com/shenjiangwei/hsAllocator/hsAllocator"
)

const (
	kb = 1024
	mb = 1024 * kb

	// SmallClassCount, MediumClassCount, and LargeClassCount size the three
	// pre-allocated pools, scaled so a demonstrator run fits comfortably
	// inside the allocator's 1 GiB simulated arena.
	SmallClassCount  = 64
	MediumClassCount = 32
	LargeClassCount  = 8
)

// Stats holds hit/miss counters for both halves of the pool's job: serving
// from the pre-allocated class vs. falling through to the allocator.
type Stats struct {
	TotalAllocations uint64
	PoolHits         uint64
	PoolMisses       uint64
	TotalFrees       uint64
	PoolFreeHits     uint64
	PoolFreeMisses   uint64
}

type class struct {
	ptrs []unsafe.Pointer
	size []int
	used []bool
}

// Pool is a size-classed cache over one Allocator. Safe for concurrent use;
// every operation is serialized by a single mutex, matching the underlying
// Allocator's own single-threaded contract.
type Pool struct {
	mu        sync.Mutex
	allocator *hsAllocator.Allocator
	small     class
	medium    class
	large     class
	stats     Stats
}

// New pre-allocates the three size classes against allocator and returns
// the ready-to-use Pool, or an error if pre-allocation itself fails (the
// allocator ran out of room before the classes were filled).
func New(allocator *hsAllocator.Allocator) (*Pool, error) {
	p := &Pool{allocator: allocator}

	if err := p.fill(&p.small, SmallClassCount, 4*kb, 64*kb); err != nil {
		return nil, fmt.Errorf("pool: failed to pre-allocate small class: %v", err)
	}
	if err := p.fill(&p.medium, MediumClassCount, 64*kb, 1*mb); err != nil {
		return nil, fmt.Errorf("pool: failed to pre-allocate medium class: %v", err)
	}
	if err := p.fill(&p.large, LargeClassCount, 1*mb, 4*mb); err != nil {
		return nil, fmt.Errorf("pool: failed to pre-allocate large class: %v", err)
	}

	return p, nil
}

func (p *Pool) fill(c *class, count, lo, hi int) error {
	c.ptrs = make([]unsafe.Pointer, count)
	c.size = make([]int, count)
	c.used = make([]bool, count)

	for i := 0; i < count; i++ {
		size := lo + rand.Intn(hi-lo+1)
		addr := p.allocator.Allocate(size)
		if addr == nil {
			return fmt.Errorf("allocate %d bytes: resource exhausted", size)
		}
		c.ptrs[i] = addr
		c.size[i] = size
	}
	return nil
}

// classForSize picks which pre-allocated class a request of size bytes
// should try first.
func (p *Pool) classForSize(size int) *class {
	switch {
	case size <= 64*kb:
		return &p.small
	case size <= 1*mb:
		return &p.medium
	case size <= 4*mb:
		return &p.large
	default:
		return nil
	}
}

// Allocate serves size bytes from the matching pre-allocated class if an
// unused, large-enough slot exists there; otherwise it falls through to the
// underlying allocator, as a pool miss.
func (p *Pool) Allocate(size int) unsafe.Pointer {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stats.TotalAllocations++

	if c := p.classForSize(size); c != nil {
		for i := range c.ptrs {
			if !c.used[i] && c.size[i] >= size {
				c.used[i] = true
				p.stats.PoolHits++
				return c.ptrs[i]
			}
		}
	}

	p.stats.PoolMisses++
	return p.allocator.Allocate(size)
}

// Free returns addr to its pool slot if it was served from one, otherwise
// it frees through the underlying allocator directly.
func (p *Pool) Free(addr unsafe.Pointer, size int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stats.TotalFrees++

	if c := p.classForSize(size); c != nil {
		for i := range c.ptrs {
			if c.ptrs[i] == addr {
				c.used[i] = false
				p.stats.PoolFreeHits++
				return
			}
		}
	}

	p.stats.PoolFreeMisses++
	p.allocator.Free(addr)
}

// Stats returns a snapshot of the pool's hit/miss counters.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

// Close releases every pre-allocated block, pool-class membership or not,
// and prints a hit/miss summary.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, c := range []*class{&p.small, &p.medium, &p.large} {
		for _, ptr := range c.ptrs {
			p.allocator.Free(ptr)
		}
	}

	fmt.Printf("\nPool Statistics:\n")
	fmt.Printf("Total Allocations: %d\n", p.stats.TotalAllocations)
	if p.stats.TotalAllocations > 0 {
		fmt.Printf("Pool Hits: %d (%.2f%%)\n", p.stats.PoolHits, float64(p.stats.PoolHits)/float64(p.stats.TotalAllocations)*100)
		fmt.Printf("Pool Misses: %d (%.2f%%)\n", p.stats.PoolMisses, float64(p.stats.PoolMisses)/float64(p.stats.TotalAllocations)*100)
	}
	fmt.Printf("Total Frees: %d\n", p.stats.TotalFrees)
	if p.stats.TotalFrees > 0 {
		fmt.Printf("Pool Free Hits: %d (%.2f%%)\n", p.stats.PoolFreeHits, float64(p.stats.PoolFreeHits)/float64(p.stats.TotalFrees)*100)
		fmt.Printf("Pool Free Misses: %d (%.2f%%)\n", p.stats.PoolFreeMisses, float64(p.stats.PoolFreeMisses)/float64(p.stats.TotalFrees)*100)
	}
}
