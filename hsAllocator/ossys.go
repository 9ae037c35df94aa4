package hsAllocator

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// osPrimitives is the thin semantic wrapper over program-break extension and
// anonymous mapping. It is an interface so tests can
// inject a failure-simulating mock (see ossys_mock_test.go) for the
// resource-exhaustion paths that are impractical to trigger against the
// real kernel.
type osPrimitives interface {
	// extendBreak grows the simulated program break by delta bytes and
	// returns the previous break (where the new region begins). Never
	// called with a negative delta; the break is never shrunk.
	extendBreak(delta uintptr) (unsafe.Pointer, error)

	// mapAnon obtains a fresh anonymous private mapping of at least n
	// bytes, zero-filled.
	mapAnon(n uintptr) (unsafe.Pointer, error)

	// unmap releases a region previously returned by mapAnon. Failure is
	// fatal to the caller (§7).
	unmap(base unsafe.Pointer, n uintptr) error

	// pageSize reports the system page size, used by ZeroAllocate's
	// dispatch threshold (§4.4).
	pageSize() uintptr
}

// realOS implements osPrimitives on top of golang.org/x/sys/unix.
//
// Go programs have no safe way to call brk(2)/sbrk(2) directly: the Go
// runtime's own allocator also extends the process break, and two
// allocators racing to move the same break would corrupt each other. So
// realOS simulates a *private* break instead: it reserves one large
// anonymous region up front (arenaReserve bytes, PROT_NONE, untouched by
// the Go runtime because nothing ever dereferences it until committed) and
// treats extendBreak as "commit the next `delta` bytes of the reservation
// and mark them read/write." This preserves every contract the placement
// and reallocation engines rely on (monotonic growth, contiguous heap
// blocks, previous-break return value) without touching the real break.
type realOS struct {
	arenaBase unsafe.Pointer
	committed uintptr
}

func newRealOS() *realOS {
	return &realOS{}
}

func (r *realOS) reserve() error {
	if r.arenaBase != nil {
		return nil
	}
	base, err := unix.Mmap(-1, 0, arenaReserve, unix.PROT_NONE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		Error("arena reservation failed: %v", err)
		return errOSResourceExhausted
	}
	r.arenaBase = unsafe.Pointer(&base[0])
	return nil
}

func (r *realOS) extendBreak(delta uintptr) (unsafe.Pointer, error) {
	if err := r.reserve(); err != nil {
		return nil, err
	}
	if r.committed+delta > arenaReserve {
		Error("program break exhausted: committed=%d delta=%d reserve=%d", r.committed, delta, uintptr(arenaReserve))
		return nil, errOSResourceExhausted
	}

	prevBreak := unsafe.Pointer(uintptr(r.arenaBase) + r.committed)

	// mprotect works on whole pages and committed is generally not
	// page-aligned, so the range made read/write is widened to the pages
	// that contain [prevBreak, prevBreak+delta).
	page := uintptr(unix.Getpagesize())
	lo := r.committed &^ (page - 1)
	hi := roundUp(r.committed+delta, page)
	region := unsafe.Slice((*byte)(unsafe.Add(r.arenaBase, lo)), hi-lo)
	if err := unix.Mprotect(region, unix.PROT_READ|unix.PROT_WRITE); err != nil {
		Error("mprotect failed while extending break: %v", err)
		return nil, errOSResourceExhausted
	}

	r.committed += delta
	return prevBreak, nil
}

func (r *realOS) mapAnon(n uintptr) (unsafe.Pointer, error) {
	mem, err := unix.Mmap(-1, 0, int(n), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		Error("mmap failed for %d bytes: %v", n, err)
		return nil, errOSResourceExhausted
	}
	return unsafe.Pointer(&mem[0]), nil
}

func (r *realOS) unmap(base unsafe.Pointer, n uintptr) error {
	region := unsafe.Slice((*byte)(base), n)
	if err := unix.Munmap(region); err != nil {
		Fatal("munmap failed for %d bytes at %p: %v", n, base, err)
		return err // unreachable: Fatal exits
	}
	return nil
}

func (r *realOS) pageSize() uintptr {
	return uintptr(unix.Getpagesize())
}
