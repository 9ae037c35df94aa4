package hsAllocator

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"
)

func fillPattern(p unsafe.Pointer, n uintptr, start byte) {
	buf := unsafe.Slice((*byte)(p), n)
	for i := range buf {
		buf[i] = start + byte(i%251)
	}
}

func requirePattern(t *testing.T, p unsafe.Pointer, n uintptr, start byte) {
	t.Helper()
	buf := unsafe.Slice((*byte)(p), n)
	for i := range buf {
		require.Equalf(t, start+byte(i%251), buf[i], "byte %d mismatch after realloc", i)
	}
}

func TestReallocateNilActsAsAllocate(t *testing.T) {
	a := NewAllocator()
	p := a.Reallocate(nil, 64)
	require.NotNil(t, p)
	b := blockFromPayload(p)
	require.Equal(t, StatusAllocated, b.status)
}

func TestReallocateZeroSizeActsAsFree(t *testing.T) {
	a := NewAllocator()
	p := a.Allocate(64)
	require.NotNil(t, p)
	got := a.Reallocate(p, 0)
	require.Nil(t, got)
	require.Equal(t, StatusFree, blockFromPayload(p).status)
}

func TestReallocateSameSizeIsNoop(t *testing.T) {
	a := NewAllocator()
	p := a.Allocate(64)
	got := a.Reallocate(p, 64)
	require.Equal(t, p, got)
}

// TestReallocateShrinkSplitsInPlace covers the a < block.size heap path:
// the surplus becomes a trailing Free block, and the payload pointer never
// moves.
func TestReallocateShrinkSplitsInPlace(t *testing.T) {
	a := NewAllocator()
	p := a.Allocate(256)
	require.NotNil(t, p)
	fillPattern(p, 64, 7)

	got := a.Reallocate(p, 64)
	require.Equal(t, p, got)
	requirePattern(t, got, 64, 7)

	b := blockFromPayload(got)
	require.Equal(t, roundUp(64, Alignment), b.size)
}

// TestReallocateGrowInPlace: growing the first heap block keeps its address.
// The room comes from the Free remainder of the pre-allocation that follows
// it in the list, absorbed by forward coalescing.
func TestReallocateGrowInPlace(t *testing.T) {
	a := NewAllocator()
	p := a.Allocate(64)
	require.NotNil(t, p)
	fillPattern(p, 64, 11)

	got := a.Reallocate(p, 512)
	require.Equal(t, p, got, "grow-in-place must not move the block")
	requirePattern(t, got, 64, 11)
}

// TestReallocateGrowByForwardCoalesce exercises reallocGrowByCoalesce: a
// non-tail block grows by absorbing an immediately following Free
// neighbor.
func TestReallocateGrowByForwardCoalesce(t *testing.T) {
	a := NewAllocator()
	p1 := a.Allocate(64)
	p2 := a.Allocate(64)
	_ = a.Allocate(64) // anchor so p2's neighbor isn't the tail
	require.NotNil(t, p1)
	require.NotNil(t, p2)

	fillPattern(p1, 64, 3)
	a.Free(p2)

	grown := roundUp(64, Alignment) + metaSize + roundUp(64, Alignment)
	got := a.Reallocate(p1, int(grown))
	require.Equal(t, p1, got, "forward coalesce must keep the original payload address")
	requirePattern(t, got, 64, 3)

	b := blockFromPayload(got)
	require.Equal(t, grown, b.size)
}

// TestReallocateGrowMigratesWhenNoRoom covers the case where neither
// grow-in-place nor forward coalescing can satisfy the request: a fresh
// heap block is acquired and the payload copied forward.
func TestReallocateGrowMigratesWhenNoRoom(t *testing.T) {
	a := NewAllocator()
	p1 := a.Allocate(64)
	p2 := a.Allocate(64) // blocks p1 from expanding or coalescing forward
	require.NotNil(t, p1)
	require.NotNil(t, p2)

	fillPattern(p1, 64, 5)

	got := a.Reallocate(p1, 4096)
	require.NotNil(t, got)
	require.NotEqual(t, p1, got)
	requirePattern(t, got, 64, 5)

	require.Equal(t, StatusFree, blockFromPayload(p1).status)
}

// TestReallocateHeapToMapped is scenario S4: growing past MmapThreshold
// migrates a heap block into a fresh mapping.
func TestReallocateHeapToMapped(t *testing.T) {
	a := NewAllocator()
	p := a.Allocate(64)
	require.NotNil(t, p)
	fillPattern(p, 64, 9)

	got := a.Reallocate(p, int(MmapThreshold))
	require.NotNil(t, got)
	b := blockFromPayload(got)
	require.Equal(t, StatusMapped, b.status)
	requirePattern(t, got, 64, 9)
}

// TestReallocateMappedToHeap is scenario S5: shrinking a mapped block below
// MmapThreshold migrates it back onto the heap.
func TestReallocateMappedToHeap(t *testing.T) {
	a := NewAllocator()
	p := a.Allocate(int(MmapThreshold))
	require.NotNil(t, p)
	fillPattern(p, 64, 13)

	got := a.Reallocate(p, 64)
	require.NotNil(t, got)
	b := blockFromPayload(got)
	require.Equal(t, StatusAllocated, b.status)
	requirePattern(t, got, 64, 13)
}

// TestReallocateMappedGrowsToFreshMapping covers a mapped block growing
// while staying in the mapped regime: always a migration, since mappings
// aren't extensible in place.
func TestReallocateMappedGrowsToFreshMapping(t *testing.T) {
	a := NewAllocator()
	p := a.Allocate(int(MmapThreshold))
	require.NotNil(t, p)
	fillPattern(p, 64, 17)

	got := a.Reallocate(p, int(MmapThreshold)*2)
	require.NotNil(t, got)
	require.NotEqual(t, p, got)
	b := blockFromPayload(got)
	require.Equal(t, StatusMapped, b.status)
	requirePattern(t, got, 64, 17)
}

func TestReallocateUnknownPointerReturnsNil(t *testing.T) {
	a := NewAllocator()
	got := a.Reallocate(unsafe.Pointer(uintptr(0xdeadbeef)), 64)
	require.Nil(t, got)
}

func TestReallocateFreedPointerReturnsNil(t *testing.T) {
	a := NewAllocator()
	p := a.Allocate(64)
	a.Free(p)
	got := a.Reallocate(p, 128)
	require.Nil(t, got)
}
