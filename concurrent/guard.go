// Package concurrent adapts the single-threaded hsAllocator.Allocator for
// multi-goroutine and multi-process use. Guard serializes callers within
// one process behind a mutex; Server/Client expose the same four
// operations across a process boundary over net/rpc.
package concurrent

import (
	"sync"
	"unsafe"

	"github.com/shenjiangwei/hsAllocator/hsAllocator"
)

// Guard wraps one Allocator with a single mutex serializing all four
// operations: the simplest correct concurrency model, no finer-grained
// locking, since the list and break state are shared across every call.
type Guard struct {
	mu sync.Mutex
	a  *hsAllocator.Allocator
}

// NewGuard wraps a fresh Allocator instance.
func NewGuard() *Guard {
	return &Guard{a: hsAllocator.NewAllocator()}
}

func (g *Guard) Allocate(size int) unsafe.Pointer {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.a.Allocate(size)
}

func (g *Guard) Free(p unsafe.Pointer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.a.Free(p)
}

func (g *Guard) ZeroAllocate(nmemb, size uintptr) unsafe.Pointer {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.a.ZeroAllocate(nmemb, size)
}

func (g *Guard) Reallocate(p unsafe.Pointer, size int) unsafe.Pointer {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.a.Reallocate(p, size)
}

// LoadConfig forwards to the wrapped Allocator under the same lock, so a
// config reload never races a concurrent operation.
func (g *Guard) LoadConfig(path string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.a.LoadConfig(path)
}

// Reset forwards to the wrapped Allocator under the same lock.
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.a.Reset()
}
