package hsAllocator

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// This file is the operation API: the four public entry points. Argument
// validation and size alignment happen here; every helper below assumes
// its size argument is already aligned.

// Allocate returns a payload pointer of at least size bytes, or nil for
// size <= 0 or on OS resource exhaustion.
func (a *Allocator) Allocate(size int) unsafe.Pointer {
	if size <= 0 {
		return nil
	}
	a.initSentinel()

	aligned := roundUp(uintptr(size), Alignment)

	b, err := a.acquire(aligned, a.cfg.mmapThreshold)
	if err != nil {
		return nil
	}
	return payloadOf(b)
}

// acquire is the shared front-end dispatch used by Allocate and
// ZeroAllocate: heap-served when aligned+META stays under threshold,
// map-served otherwise.
func (a *Allocator) acquire(aligned, threshold uintptr) (*block, error) {
	if servedFromHeap(aligned, threshold) {
		return a.acquireHeapBlock(aligned)
	}
	return a.acquireMappedBlock(aligned)
}

// Free releases the block owning p. A no-op for nil, for a pointer this
// allocator doesn't own, and for a block that is already free. Does not
// coalesce; coalescing happens eagerly on the next heap-regime allocation.
func (a *Allocator) Free(p unsafe.Pointer) {
	if p == nil {
		return
	}
	a.initSentinel()

	b := a.findByPayload(p)
	if b == nil {
		Error("free: pointer %p is not owned by this allocator", p)
		return
	}
	if b.status == StatusFree {
		return
	}
	if b.status == StatusMapped {
		if err := a.releaseMappedBlock(b); err != nil {
			// unmap failure is fatal and does not return (logger.Fatal exits).
			return
		}
		return
	}
	b.status = StatusFree
}

// ZeroAllocate allocates nmemb*size bytes, zero-filled, returning nil if
// either operand is zero or their product overflows. Dispatch uses the
// system page size rather than MmapThreshold (§9, preserved asymmetry):
// zero-allocate's typical caller wants large zero-filled buffers, which
// benefit from going straight to fresh, already-zero pages.
func (a *Allocator) ZeroAllocate(nmemb, size uintptr) unsafe.Pointer {
	if nmemb == 0 || size == 0 {
		return nil
	}
	a.initSentinel()

	product := nmemb * size
	if size != 0 && product/size != nmemb {
		return nil
	}
	aligned := roundUp(product, Alignment)
	if aligned < product {
		return nil
	}

	b, err := a.acquire(aligned, a.os.pageSize())
	if err != nil {
		return nil
	}

	p := payloadOf(b)
	zeroFill(p, aligned)
	return p
}

// zeroFill clears n bytes starting at p. Freshly mapped regions already
// come back zeroed from the kernel, but this runs unconditionally: the
// payload may instead have come from a heap-regime Free block that once
// held other data.
func zeroFill(p unsafe.Pointer, n uintptr) {
	buf := unsafe.Slice((*byte)(p), n)
	for i := range buf {
		buf[i] = 0
	}
}

// Reallocate resizes the block owning p to size bytes, possibly migrating
// it between the heap and mapped regimes; see realloc.go for the full
// decision tree.
func (a *Allocator) Reallocate(p unsafe.Pointer, size int) unsafe.Pointer {
	return a.reallocate(p, size)
}

// Reset clears all allocator state and releases any mapped regions and the
// simulated program break. Intended for tests; not part of the four public
// operations.
func (a *Allocator) Reset() {
	if a.headInitialized {
		// Collect first: unmapping a block during the walk would leave the
		// walk reading its next link from released memory.
		var mapped []*block
		a.iterate(func(b *block) bool {
			if b.status == StatusMapped {
				mapped = append(mapped, b)
			}
			return true
		})
		for _, b := range mapped {
			_ = a.os.unmap(pointerOf(b), metaSize+b.size)
		}
	}
	if r, ok := a.os.(*realOS); ok && r.arenaBase != nil {
		_ = unix.Munmap(unsafe.Slice((*byte)(r.arenaBase), arenaReserve))
	}
	a.sentinel = block{}
	a.headInitialized = false
	a.heapPreallocated = false
	a.os = newRealOS()
}
