// Package hsAllocator implements a user-space dynamic memory allocator that
// serves allocation requests from a program-break heap or, for large
// requests, from fresh anonymous mappings. It is a drop-in replacement for
// malloc/free/calloc/realloc for a single-threaded caller; see the
// concurrent package for a mutex-serialized wrapper.
package hsAllocator

import "unsafe"

// Tunable constants, compile-time per the allocator contract.
const (
	// Alignment is the granularity every payload size is rounded up to.
	Alignment = 8

	// HeapPrealloc is the size of the one-time heap pre-allocation.
	HeapPrealloc = 128 * 1024

	// MmapThreshold is the boundary above which Allocate serves a request
	// from a fresh mapping instead of the heap.
	MmapThreshold = 128 * 1024

	// arenaReserve bounds the simulated program break (see ossys.go). It is
	// not part of the allocator's public contract, only an artifact of
	// simulating sbrk on a hosted runtime.
	arenaReserve = 1 << 30 // 1 GiB
)

// BlockStatus is the lifecycle state of a block descriptor.
type BlockStatus int8

const (
	// StatusFree marks a block available for reuse.
	StatusFree BlockStatus = iota
	// StatusAllocated marks a heap-regime block currently in use.
	StatusAllocated
	// StatusMapped marks a block backed by its own anonymous mapping.
	StatusMapped
)

// block is the fixed-size descriptor that precedes every payload. It
// doubles as a node in the circular doubly-linked list; prev/next are never
// nil once the sentinel is initialized.
type block struct {
	size   uintptr
	status BlockStatus
	prev   *block
	next   *block
}

// metaSize is the descriptor size rounded up to Alignment. unsafe.Sizeof of
// a fixed-layout struct is a compile-time constant in Go.
const metaSize = (unsafe.Sizeof(block{}) + Alignment - 1) &^ (Alignment - 1)

// Allocator is one owned allocator instance: a sentinel-headed circular
// list plus the lazily-initialized flags and program-break state needed to
// track it. Most programs create exactly one; the concurrent package and
// the CLI driver's benchmark mode may create several, each single-threaded
// on its own.
type Allocator struct {
	sentinel block // never a real payload; status stays StatusAllocated

	headInitialized  bool
	heapPreallocated bool

	os osPrimitives

	cfg config
}

// NewAllocator creates an allocator instance. Sentinel and heap
// pre-allocation remain lazy, matching the "lazily initialized on first
// use" global-state contract.
func NewAllocator() *Allocator {
	return &Allocator{os: newRealOS(), cfg: defaultConfig()}
}

func roundUp(n uintptr, granularity uintptr) uintptr {
	return (n + granularity - 1) &^ (granularity - 1)
}
