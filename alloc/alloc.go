// Package alloc provides the explicit allocator capability that every erasure
// container is a client of. Allocation hands out raw, fixed-address memory
// identified by pointer; deallocation takes the same size/alignment pair the
// block was allocated with. There is no recoverable failure path: misuse and
// exhaustion are fatal.
//
// Blocks are backed by ordinary Go byte slices pinned in a registry, relying
// on the runtime's non-moving collector for address stability. The backing
// memory is never scanned by the GC, so erased bytes that embed Go-managed
// pointers keep nothing alive; callers must pin such referents themselves.
package alloc

import "unsafe"

// Allocator is the capability threaded through construction, reification and
// destruction paths. Alloc never returns nil: failure is fatal. Free must be
// called with the exact size and alignment the block was allocated with.
type Allocator interface {
	Alloc(size, align uintptr) unsafe.Pointer
	Free(ptr unsafe.Pointer, size, align uintptr)
}

// Op identifies a traced allocator event.
type Op uint8

const (
	OpAlloc Op = iota + 1
	OpFree
)

// TraceFunc observes allocator events. Tracing is opt-in and off the hot
// path by default.
type TraceFunc func(op Op, ptr unsafe.Pointer, size, align uintptr)

var defaultHeap = NewHeap()

// Default returns the process-wide heap allocator.
func Default() *Heap {
	return defaultHeap
}
