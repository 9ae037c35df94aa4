package hsAllocator

// This file is the placement engine: heap pre-allocation, eager coalescing,
// best-fit search, split, and last-block expansion.

// preallocHeap performs the one-time 128 KiB break extension on first heap
// use, installing a single Free block spanning the whole reservation minus
// its own descriptor. A no-op on every call after the first, even if every
// block from it has since been allocated and freed (§9 "Pre-allocation flag
// lifetime": the heap is never fully relinquished).
func (a *Allocator) preallocHeap() error {
	if a.heapPreallocated {
		return nil
	}

	base, err := a.os.extendBreak(a.cfg.heapPrealloc)
	if err != nil {
		return err
	}

	b := blockAt(base)
	b.size = a.cfg.heapPrealloc - metaSize
	b.status = StatusFree
	a.appendBlock(b)

	a.heapPreallocated = true
	return nil
}

// coalescePass walks the list once, merging every run of two or more
// list-adjacent heap Free blocks into one before a placement search, per
// invariant 3 (§3) and the "skip without reset" resolution of the open
// question in §9: Mapped blocks are skipped without disturbing the left
// anchor, since heap blocks can never be physically adjacent across one.
func (a *Allocator) coalescePass() {
	var left *block

	a.iterate(func(b *block) bool {
		switch b.status {
		case StatusFree:
			if left != nil {
				left.size += metaSize + b.size
				unlinkBlock(b)
				return true
			}
			left = b
		case StatusMapped:
			// Skip: cannot sit between two physically-adjacent heap
			// blocks, so it doesn't invalidate the current anchor.
		default: // StatusAllocated
			left = nil
		}
		return true
	})
}

// bestFit scans for the smallest Free block whose size is at least
// aligned. Ties are broken by first occurrence (insertion order), since
// the scan never replaces an equally-sized earlier candidate.
func (a *Allocator) bestFit(aligned uintptr) *block {
	var best *block
	a.iterate(func(b *block) bool {
		if b.status == StatusFree && b.size >= aligned {
			if best == nil || b.size < best.size {
				best = b
			}
		}
		return true
	})
	return best
}

// splitBlockAttempt carves a trailing Free block off b once the surplus can
// hold a descriptor plus at least one payload byte; b's own size then
// becomes exactly aligned. Otherwise b is left at its full size.
func (a *Allocator) splitBlockAttempt(b *block, aligned uintptr) {
	if b.size == aligned {
		return
	}
	if b.size < aligned+metaSize+Alignment {
		return
	}

	trailing := blockAt(advance(b, metaSize+aligned))
	trailing.size = b.size - aligned - metaSize
	trailing.status = StatusFree
	b.size = aligned

	insertAfter(b, trailing)
}

// expandLastBlock grows the last heap block in place by extending the
// break, used when best-fit fails but the heap's tail is Free.
func (a *Allocator) expandLastBlock(last *block, aligned uintptr) error {
	extra := aligned - last.size
	if _, err := a.os.extendBreak(extra); err != nil {
		return err
	}
	last.size = aligned
	return nil
}

// freshHeapBlock extends the break by exactly META+aligned and appends a
// new Allocated block, for when there is neither a best-fit candidate nor a
// free tail to grow.
func (a *Allocator) freshHeapBlock(aligned uintptr) (*block, error) {
	base, err := a.os.extendBreak(metaSize + aligned)
	if err != nil {
		return nil, err
	}
	b := blockAt(base)
	b.size = aligned
	b.status = StatusAllocated
	a.appendBlock(b)
	return b, nil
}

// acquireHeapBlock runs the full placement search described in §4.3 and
// returns an Allocated block of exactly aligned bytes (modulo the split
// surplus rule), performing pre-allocation and the coalesce pass first.
func (a *Allocator) acquireHeapBlock(aligned uintptr) (*block, error) {
	if err := a.preallocHeap(); err != nil {
		return nil, err
	}

	a.coalescePass()

	if b := a.bestFit(aligned); b != nil {
		a.splitBlockAttempt(b, aligned)
		b.status = StatusAllocated
		return b, nil
	}

	if last := a.lastHeapBlock(); last != nil && last.status == StatusFree {
		if err := a.expandLastBlock(last, aligned); err != nil {
			return nil, err
		}
		last.status = StatusAllocated
		return last, nil
	}

	return a.freshHeapBlock(aligned)
}
