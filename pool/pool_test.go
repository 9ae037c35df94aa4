package pool

import (
	"testing"

	"github.com/shenjiangwei/hsAllocator/hsAllocator"
	"github.com/stretchr/testify/require"
)

func TestNewPrefillsAllClasses(t *testing.T) {
	p, err := New(hsAllocator.NewAllocator())
	require.NoError(t, err)
	require.Len(t, p.small.ptrs, SmallClassCount)
	require.Len(t, p.medium.ptrs, MediumClassCount)
	require.Len(t, p.large.ptrs, LargeClassCount)
}

func TestAllocateHitsPoolForMatchingClass(t *testing.T) {
	p, err := New(hsAllocator.NewAllocator())
	require.NoError(t, err)

	got := p.Allocate(8 * kb)
	require.NotNil(t, got)

	stats := p.Stats()
	require.Equal(t, uint64(1), stats.TotalAllocations)
	require.Equal(t, uint64(1), stats.PoolHits)
	require.Zero(t, stats.PoolMisses)
}

func TestAllocateMissesWhenClassExhausted(t *testing.T) {
	p, err := New(hsAllocator.NewAllocator())
	require.NoError(t, err)

	for i := 0; i < SmallClassCount; i++ {
		require.NotNil(t, p.Allocate(4*kb))
	}
	// One more request in the small range must miss and fall through.
	got := p.Allocate(4 * kb)
	require.NotNil(t, got)

	stats := p.Stats()
	require.Equal(t, uint64(1), stats.PoolMisses)
}

func TestFreeReturnsSlotToPool(t *testing.T) {
	p, err := New(hsAllocator.NewAllocator())
	require.NoError(t, err)

	got := p.Allocate(8 * kb)
	require.NotNil(t, got)
	p.Free(got, 8*kb)

	stats := p.Stats()
	require.Equal(t, uint64(1), stats.PoolFreeHits)

	again := p.Allocate(8 * kb)
	require.Equal(t, got, again, "freed slot should be handed back out first")
}

func TestClassForSizeBoundaries(t *testing.T) {
	p, err := New(hsAllocator.NewAllocator())
	require.NoError(t, err)

	require.Same(t, &p.small, p.classForSize(64*kb))
	require.Same(t, &p.medium, p.classForSize(64*kb+1))
	require.Same(t, &p.large, p.classForSize(4*mb))
	require.Nil(t, p.classForSize(4*mb+1))
}
