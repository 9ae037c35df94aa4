package hsAllocator

// Front-end dispatch: classifies a request into heap-served vs. map-served
// by size threshold, and performs the fresh-mapping path. The heap-served
// path itself lives in the placement engine (placement.go).

// servedFromHeap reports whether a request of the given aligned size
// (including its descriptor) stays under threshold. Allocate/Reallocate use
// MmapThreshold; ZeroAllocate uses the system page size instead, a
// deliberately-preserved asymmetry.
func servedFromHeap(aligned, threshold uintptr) bool {
	return aligned+metaSize < threshold
}

// acquireMappedBlock obtains a fresh anonymous mapping sized exactly for
// aligned bytes of payload and links it into the list as Mapped.
func (a *Allocator) acquireMappedBlock(aligned uintptr) (*block, error) {
	base, err := a.os.mapAnon(metaSize + aligned)
	if err != nil {
		return nil, err
	}
	b := blockAt(base)
	b.size = aligned
	b.status = StatusMapped
	a.appendBlock(b)
	return b, nil
}

// releaseMappedBlock unlinks a Mapped block and releases its entire backing
// region (invariant 4, §3).
func (a *Allocator) releaseMappedBlock(b *block) error {
	unlinkBlock(b)
	return a.os.unmap(pointerOf(b), metaSize+b.size)
}
