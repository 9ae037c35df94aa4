package hsAllocator

import "unsafe"

// This file is the single place address arithmetic between a descriptor and
// its payload, and between neighboring blocks, happens. Every other file
// goes through these helpers instead of computing addresses by hand.

// payloadOf returns the user-visible pointer for a block: the first byte
// after its descriptor.
func payloadOf(b *block) unsafe.Pointer {
	return unsafe.Pointer(uintptr(unsafe.Pointer(b)) + metaSize)
}

// blockFromPayload recovers the descriptor owning a payload pointer.
func blockFromPayload(p unsafe.Pointer) *block {
	return (*block)(unsafe.Pointer(uintptr(p) - metaSize))
}

// endOf returns the address one byte past a block's payload: where a
// physically-adjacent heap successor must begin (invariant 2, §3).
func endOf(b *block) uintptr {
	return uintptr(unsafe.Pointer(b)) + metaSize + b.size
}

// blockAt reinterprets a raw base address as a descriptor. Used right after
// the OS primitives adapter hands back a freshly extended or mapped region.
func blockAt(base unsafe.Pointer) *block {
	return (*block)(base)
}

// pointerOf returns a block's own base address, i.e. where its descriptor
// (and, for a Mapped block, its whole backing region) begins.
func pointerOf(b *block) unsafe.Pointer {
	return unsafe.Pointer(b)
}

// advance returns the address off bytes past b's own base address (not its
// payload). Used by split to locate the trailing descriptor it carves off.
func advance(b *block, off uintptr) unsafe.Pointer {
	return unsafe.Pointer(uintptr(unsafe.Pointer(b)) + off)
}
