package hsAllocator

import "errors"

// Internal error definitions. The public operations report every failure,
// including OS resource exhaustion, as a nil pointer (see alloc.go,
// realloc.go); this sentinel only travels between the OS primitives adapter
// and the engines that call it.
var (
	// errOSResourceExhausted is returned when the OS primitives adapter
	// fails to extend the break or to establish a mapping.
	errOSResourceExhausted = errors.New("hsAllocator: OS resource exhausted")
)
