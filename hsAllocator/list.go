package hsAllocator

import "unsafe"

// The block list is intrusive and circular: every block carries its own
// prev/next, and the sentinel (a.sentinel) is a permanent non-payload node.

// initSentinel lazily wires the sentinel to point at itself. size=0 and
// status=StatusAllocated keep it out of free-block searches.
func (a *Allocator) initSentinel() {
	if a.headInitialized {
		return
	}
	a.sentinel.size = 0
	a.sentinel.status = StatusAllocated
	a.sentinel.prev = &a.sentinel
	a.sentinel.next = &a.sentinel
	a.headInitialized = true
}

// appendBlock links b in just before the sentinel, i.e. at the tail of
// insertion order. O(1).
func (a *Allocator) appendBlock(b *block) {
	last := a.sentinel.prev
	last.next = b
	b.prev = last
	b.next = &a.sentinel
	a.sentinel.prev = b
}

// insertAfter links b immediately after existing in the list. Used by
// split, which must place the trailing free block right after the block it
// was carved from rather than at the tail. O(1).
func insertAfter(existing, b *block) {
	b.next = existing.next
	b.prev = existing
	existing.next.prev = b
	existing.next = b
}

// unlinkBlock removes b from the list. The memory itself is untouched; for
// heap blocks it is simply no longer tracked, for mapped blocks the caller
// must still unmap. O(1).
func unlinkBlock(b *block) {
	b.prev.next = b.next
	b.next.prev = b.prev
}

// iterate walks the list from head in insertion order, calling visit for
// every non-sentinel block, stopping early if visit returns false. O(n).
func (a *Allocator) iterate(visit func(*block) bool) {
	for cur := a.sentinel.next; cur != &a.sentinel; cur = cur.next {
		if !visit(cur) {
			return
		}
	}
}

// lastBlock returns the tail of the list (the most recently appended
// block), or nil if the list holds only the sentinel.
func (a *Allocator) lastBlock() *block {
	if a.sentinel.prev == &a.sentinel {
		return nil
	}
	return a.sentinel.prev
}

// lastHeapBlock returns the list tail scanning backward past any trailing
// Mapped blocks, per §4.3 "Last-block expansion": mapped blocks can be
// appended after the last heap block (a large request served by mmap
// doesn't disturb heap ordering), but they are never the block the
// placement/reallocation engines grow in place.
func (a *Allocator) lastHeapBlock() *block {
	for cur := a.sentinel.prev; cur != &a.sentinel; cur = cur.prev {
		if cur.status != StatusMapped {
			return cur
		}
	}
	return nil
}

// findByPayload scans the list for the block whose payload begins at p.
// O(n); used by Free and Reallocate.
func (a *Allocator) findByPayload(p unsafe.Pointer) *block {
	var found *block
	a.iterate(func(b *block) bool {
		if payloadOf(b) == p {
			found = b
			return false
		}
		return true
	})
	return found
}
