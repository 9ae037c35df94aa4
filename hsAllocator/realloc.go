package hsAllocator

import "unsafe"

// This file is the reallocation engine: decides grow-in-place vs. migrate,
// handles heap<->mapped regime transitions, and preserves payload contents
// across both.

func (a *Allocator) reallocate(p unsafe.Pointer, size int) unsafe.Pointer {
	if p == nil {
		return a.Allocate(size)
	}
	if size == 0 {
		a.Free(p)
		return nil
	}

	a.initSentinel()

	b := a.findByPayload(p)
	if b == nil || b.status == StatusFree {
		return nil
	}

	aligned := roundUp(uintptr(size), Alignment)
	if aligned == b.size {
		return p
	}

	if aligned > b.size {
		return a.reallocGrow(b, aligned)
	}
	return a.reallocShrink(b, aligned)
}

// reallocShrink handles a < block.size.
func (a *Allocator) reallocShrink(b *block, aligned uintptr) unsafe.Pointer {
	if b.status == StatusMapped {
		if aligned >= a.cfg.mmapThreshold {
			return a.migrateMapped(b, aligned, aligned)
		}
		return a.migrateMappedToHeap(b, aligned, aligned)
	}

	// Allocated on the heap: shrinking never needs to move anything, just
	// carve the surplus off into a trailing Free block.
	a.splitBlockAttempt(b, aligned)
	return payloadOf(b)
}

// reallocGrow handles a > block.size.
func (a *Allocator) reallocGrow(b *block, aligned uintptr) unsafe.Pointer {
	if b.status == StatusMapped {
		// Mapped regions are not extensible; always migrate.
		return a.migrateMapped(b, aligned, b.size)
	}

	if aligned >= a.cfg.mmapThreshold {
		return a.migrateHeapToMapped(b, aligned)
	}

	if last := a.lastHeapBlock(); last == b {
		if err := a.expandLastBlock(b, aligned); err != nil {
			return nil
		}
		return payloadOf(b)
	}

	return a.reallocGrowByCoalesce(b, aligned)
}

// reallocGrowByCoalesce implements the forward-coalesce-then-split-or-move
// path for a non-tail heap block that needs to grow.
func (a *Allocator) reallocGrowByCoalesce(b *block, aligned uintptr) unsafe.Pointer {
	originalSize := b.size

	for cur := b.next; cur != &a.sentinel && b.size < aligned; {
		switch cur.status {
		case StatusFree:
			next := cur.next
			b.size += metaSize + cur.size
			unlinkBlock(cur)
			cur = next
		case StatusMapped:
			// A Mapped block can sit in list order between two heap
			// blocks without being physically between them (invariant
			// 2 only constrains heap-block succession). Skip past it
			// and keep looking at what actually follows on the heap.
			cur = cur.next
		default:
			cur = &a.sentinel // Allocated neighbor: stop.
		}
	}

	if b.size >= aligned {
		a.splitBlockAttempt(b, aligned)
		return payloadOf(b)
	}

	fresh, err := a.freshHeapBlock(aligned)
	if err != nil {
		return nil
	}
	copyPayload(payloadOf(fresh), payloadOf(b), originalSize)
	b.status = StatusFree
	return payloadOf(fresh)
}

// migrateMapped moves a Mapped block to a new Mapped block of size
// aligned, copying copySize bytes, then releases the old region.
func (a *Allocator) migrateMapped(old *block, aligned, copySize uintptr) unsafe.Pointer {
	fresh, err := a.acquireMappedBlock(aligned)
	if err != nil {
		return nil
	}
	copyPayload(payloadOf(fresh), payloadOf(old), copySize)
	oldSize := metaSize + old.size
	oldBase := pointerOf(old)
	unlinkBlock(old)
	if err := a.os.unmap(oldBase, oldSize); err != nil {
		return nil // unreachable: unmap failure is fatal
	}
	return payloadOf(fresh)
}

// migrateMappedToHeap shrinks a Mapped block down into the heap regime.
func (a *Allocator) migrateMappedToHeap(old *block, aligned, copySize uintptr) unsafe.Pointer {
	fresh, err := a.acquireHeapBlock(aligned)
	if err != nil {
		return nil
	}
	copyPayload(payloadOf(fresh), payloadOf(old), copySize)
	oldSize := metaSize + old.size
	oldBase := pointerOf(old)
	unlinkBlock(old)
	if err := a.os.unmap(oldBase, oldSize); err != nil {
		return nil // unreachable: unmap failure is fatal
	}
	return payloadOf(fresh)
}

// migrateHeapToMapped grows a heap-regime block past MmapThreshold by
// migrating it to a fresh mapping. The old heap block is left Free for the
// next heap-regime request to coalesce, rather than unlinked immediately.
func (a *Allocator) migrateHeapToMapped(old *block, aligned uintptr) unsafe.Pointer {
	fresh, err := a.acquireMappedBlock(aligned)
	if err != nil {
		return nil
	}
	copyPayload(payloadOf(fresh), payloadOf(old), old.size)
	old.status = StatusFree
	return payloadOf(fresh)
}

// copyPayload moves n bytes from src to dst using memmove semantics
// (Go's builtin copy on byte slices already handles overlap correctly),
// since the coalesce fallback path can leave source and destination
// within the same, now-larger, heap region.
func copyPayload(dst, src unsafe.Pointer, n uintptr) {
	copy(unsafe.Slice((*byte)(dst), n), unsafe.Slice((*byte)(src), n))
}
