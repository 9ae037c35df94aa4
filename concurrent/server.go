package concurrent

import (
	"fmt"
	"net"
	"net/rpc"
	"sync"
	"unsafe"
)

// A raw unsafe.Pointer is meaningless across a process boundary, so the RPC
// surface trades in opaque handles instead; Server is the only place that
// ever dereferences one back to a pointer.

// AllocateRequest is an allocation request sent over RPC.
type AllocateRequest struct {
	Size int
}

// AllocateResponse carries back the handle for a successful allocation, or
// Error describing why it failed.
type AllocateResponse struct {
	Handle uint64
	Error  string
}

// ZeroAllocateRequest is a zero-filled allocation request sent over RPC.
type ZeroAllocateRequest struct {
	Nmemb uint64
	Size  uint64
}

// FreeRequest names the handle to release.
type FreeRequest struct {
	Handle uint64
}

// FreeResponse reports whether the free succeeded.
type FreeResponse struct {
	Error string
}

// ReallocateRequest names the handle to resize and its new size.
type ReallocateRequest struct {
	Handle uint64
	Size   int
}

// ReallocateResponse carries back the (possibly new) handle, since
// reallocation can migrate the underlying block.
type ReallocateResponse struct {
	Handle uint64
	Error  string
}

// Server exposes a Guard's four operations over net/rpc, translating
// between client-visible handles and the server-local pointers they name.
type Server struct {
	guard *Guard
	rpc   *rpc.Server

	mu      sync.Mutex
	handles map[uint64]unsafe.Pointer
	nextID  uint64
}

// NewServer creates a server backed by a fresh Guard-wrapped Allocator. It
// registers on its own *rpc.Server rather than the package-level default,
// so a process can run more than one Server (e.g. the CLI driver's
// concurrent benchmark mode) without a duplicate-service registration
// panic.
func NewServer() *Server {
	s := &Server{
		guard:   NewGuard(),
		handles: make(map[uint64]unsafe.Pointer),
		rpc:     rpc.NewServer(),
	}
	_ = s.rpc.RegisterName("Server", s) // only fails for a malformed method set, never at runtime
	return s
}

// Start serves connections on address until the listener fails or is
// closed.
func (s *Server) Start(address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("concurrent: failed to listen on %s: %v", address, err)
	}
	defer listener.Close()

	for {
		conn, err := listener.Accept()
		if err != nil {
			return fmt.Errorf("concurrent: accept failed: %v", err)
		}
		go s.rpc.ServeConn(conn)
	}
}

// Allocate is the RPC-exported method backing Client.Allocate.
func (s *Server) Allocate(req *AllocateRequest, resp *AllocateResponse) error {
	p := s.guard.Allocate(req.Size)
	if p == nil {
		resp.Error = "allocation failed"
		return nil
	}
	resp.Handle = s.register(p)
	return nil
}

// ZeroAllocate is the RPC-exported method backing Client.ZeroAllocate.
func (s *Server) ZeroAllocate(req *ZeroAllocateRequest, resp *AllocateResponse) error {
	p := s.guard.ZeroAllocate(uintptr(req.Nmemb), uintptr(req.Size))
	if p == nil {
		resp.Error = "allocation failed"
		return nil
	}
	resp.Handle = s.register(p)
	return nil
}

// Free is the RPC-exported method backing Client.Free.
func (s *Server) Free(req *FreeRequest, resp *FreeResponse) error {
	p, ok := s.resolve(req.Handle)
	if !ok {
		resp.Error = "unknown handle"
		return nil
	}
	s.guard.Free(p)
	s.unregister(req.Handle)
	return nil
}

// Reallocate is the RPC-exported method backing Client.Reallocate.
func (s *Server) Reallocate(req *ReallocateRequest, resp *ReallocateResponse) error {
	p, ok := s.resolve(req.Handle)
	if !ok {
		resp.Error = "unknown handle"
		return nil
	}

	got := s.guard.Reallocate(p, req.Size)
	s.unregister(req.Handle)
	if got == nil {
		if req.Size != 0 {
			resp.Error = "reallocation failed"
		}
		return nil
	}
	resp.Handle = s.register(got)
	return nil
}

func (s *Server) register(p unsafe.Pointer) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := s.nextID
	s.handles[id] = p
	return id
}

func (s *Server) resolve(handle uint64) (unsafe.Pointer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.handles[handle]
	return p, ok
}

func (s *Server) unregister(handle uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.handles, handle)
}
