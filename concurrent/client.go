package concurrent

import (
	"fmt"
	"net/rpc"
)

// Client is a handle-based remote view of a Server's allocator.
type Client struct {
	rpcClient *rpc.Client
}

// NewClient dials a Server at address.
func NewClient(address string) (*Client, error) {
	c, err := rpc.Dial("tcp", address)
	if err != nil {
		return nil, fmt.Errorf("concurrent: failed to connect to %s: %v", address, err)
	}
	return &Client{rpcClient: c}, nil
}

// Allocate requests size bytes and returns an opaque handle, or an error if
// the server reported failure.
func (c *Client) Allocate(size int) (uint64, error) {
	req := &AllocateRequest{Size: size}
	resp := &AllocateResponse{}
	if err := c.rpcClient.Call("Server.Allocate", req, resp); err != nil {
		return 0, fmt.Errorf("concurrent: RPC call failed: %v", err)
	}
	if resp.Error != "" {
		return 0, fmt.Errorf("concurrent: server error: %s", resp.Error)
	}
	return resp.Handle, nil
}

// ZeroAllocate requests a zero-filled nmemb*size allocation.
func (c *Client) ZeroAllocate(nmemb, size uint64) (uint64, error) {
	req := &ZeroAllocateRequest{Nmemb: nmemb, Size: size}
	resp := &AllocateResponse{}
	if err := c.rpcClient.Call("Server.ZeroAllocate", req, resp); err != nil {
		return 0, fmt.Errorf("concurrent: RPC call failed: %v", err)
	}
	if resp.Error != "" {
		return 0, fmt.Errorf("concurrent: server error: %s", resp.Error)
	}
	return resp.Handle, nil
}

// Free releases the block named by handle.
func (c *Client) Free(handle uint64) error {
	req := &FreeRequest{Handle: handle}
	resp := &FreeResponse{}
	if err := c.rpcClient.Call("Server.Free", req, resp); err != nil {
		return fmt.Errorf("concurrent: RPC call failed: %v", err)
	}
	if resp.Error != "" {
		return fmt.Errorf("concurrent: server error: %s", resp.Error)
	}
	return nil
}

// Reallocate resizes the block named by handle, returning the (possibly
// new) handle. A size of 0 frees the block; the returned handle is then 0
// and must not be used again.
func (c *Client) Reallocate(handle uint64, size int) (uint64, error) {
	req := &ReallocateRequest{Handle: handle, Size: size}
	resp := &ReallocateResponse{}
	if err := c.rpcClient.Call("Server.Reallocate", req, resp); err != nil {
		return 0, fmt.Errorf("concurrent: RPC call failed: %v", err)
	}
	if resp.Error != "" {
		return 0, fmt.Errorf("concurrent: server error: %s", resp.Error)
	}
	return resp.Handle, nil
}

// Close closes the underlying RPC connection.
func (c *Client) Close() error {
	return c.rpcClient.Close()
}
