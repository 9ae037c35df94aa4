package hsAllocator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelInit(t *testing.T) {
	a := NewAllocator()
	a.initSentinel()
	require.Same(t, &a.sentinel, a.sentinel.next)
	require.Same(t, &a.sentinel, a.sentinel.prev)
	require.Nil(t, a.lastBlock())

	// Idempotent: calling again must not disturb an already-populated list.
	b := &block{status: StatusFree}
	a.appendBlock(b)
	a.initSentinel()
	require.Same(t, b, a.lastBlock())
}

func TestAppendAndUnlink(t *testing.T) {
	a := NewAllocator()
	a.initSentinel()

	b1 := &block{status: StatusAllocated, size: 8}
	b2 := &block{status: StatusAllocated, size: 16}
	a.appendBlock(b1)
	a.appendBlock(b2)

	var seen []*block
	a.iterate(func(b *block) bool {
		seen = append(seen, b)
		return true
	})
	require.Equal(t, []*block{b1, b2}, seen)
	require.Same(t, b2, a.lastBlock())

	unlinkBlock(b1)
	seen = nil
	a.iterate(func(b *block) bool {
		seen = append(seen, b)
		return true
	})
	require.Equal(t, []*block{b2}, seen)
}

func TestInsertAfter(t *testing.T) {
	a := NewAllocator()
	a.initSentinel()

	b1 := &block{status: StatusAllocated, size: 8}
	b3 := &block{status: StatusAllocated, size: 8}
	a.appendBlock(b1)
	a.appendBlock(b3)

	b2 := &block{status: StatusFree, size: 8}
	insertAfter(b1, b2)

	var seen []*block
	a.iterate(func(b *block) bool {
		seen = append(seen, b)
		return true
	})
	require.Equal(t, []*block{b1, b2, b3}, seen)
}

func TestIterateStopsEarly(t *testing.T) {
	a := NewAllocator()
	a.initSentinel()
	for i := 0; i < 5; i++ {
		a.appendBlock(&block{status: StatusAllocated, size: 8})
	}

	count := 0
	a.iterate(func(b *block) bool {
		count++
		return count < 2
	})
	require.Equal(t, 2, count)
}

func TestLastHeapBlockSkipsMapped(t *testing.T) {
	a := NewAllocator()
	a.initSentinel()

	h1 := &block{status: StatusAllocated, size: 8}
	m1 := &block{status: StatusMapped, size: 4096}
	a.appendBlock(h1)
	a.appendBlock(m1)

	require.Same(t, h1, a.lastHeapBlock())

	require.Same(t, m1, a.lastBlock())
}

func TestLastHeapBlockEmpty(t *testing.T) {
	a := NewAllocator()
	a.initSentinel()
	require.Nil(t, a.lastHeapBlock())

	a.appendBlock(&block{status: StatusMapped, size: 4096})
	require.Nil(t, a.lastHeapBlock())
}

func TestFindByPayload(t *testing.T) {
	a := NewAllocator()
	p1 := a.Allocate(32)
	p2 := a.Allocate(64)
	require.NotNil(t, p1)
	require.NotNil(t, p2)

	b1 := a.findByPayload(p1)
	require.NotNil(t, b1)
	require.Equal(t, p1, payloadOf(b1))

	require.Nil(t, a.findByPayload(nil))
}
