package alloc

import (
	"sync"
	"unsafe"
)

// maxZeroAlign bounds the alignment served by the zero-size sentinel block.
const maxZeroAlign = 64

// zerobase backs every zero-size allocation. Aligned sentinel pointers are
// carved out of it; they are non-nil, correctly aligned, never dereferenced
// for more than zero bytes and never actually freed.
var zerobase [2 * maxZeroAlign]byte

type block struct {
	buf     []byte // keeps the backing array reachable
	size    uintptr
	align   uintptr
	allocID uint64
}

// Heap is the registry-backed Allocator. Handles handed out by the erasure
// containers are single-owner, but the registry itself is process-wide
// shared state and is therefore mutex-guarded.
type Heap struct {
	mu     sync.Mutex
	blocks map[uintptr]*block
	freed  map[uintptr]uint64 // tombstones: address -> allocID of the freed block
	nextID uint64
	trace  TraceFunc
}

// NewHeap creates an empty heap allocator.
func NewHeap() *Heap {
	return &Heap{
		blocks: make(map[uintptr]*block, 64),
		freed:  make(map[uintptr]uint64, 64),
		nextID: 1,
	}
}

// SetTrace installs an event hook. Pass nil to disable.
func (h *Heap) SetTrace(fn TraceFunc) {
	h.mu.Lock()
	h.trace = fn
	h.mu.Unlock()
}

func checkAlign(align uintptr) {
	if align == 0 || align&(align-1) != 0 {
		fatalf(FaultInvalidAlign, "alignment %d is not a power of two", align)
	}
}

func zeroSentinel(align uintptr) unsafe.Pointer {
	if align > maxZeroAlign {
		fatalf(FaultInvalidAlign, "zero-size alignment %d exceeds %d", align, maxZeroAlign)
	}
	base := uintptr(unsafe.Pointer(&zerobase[0]))
	off := (align - base%align) % align
	return unsafe.Pointer(&zerobase[off])
}

func isZeroSentinel(ptr unsafe.Pointer) bool {
	base := uintptr(unsafe.Pointer(&zerobase[0]))
	p := uintptr(ptr)
	return p >= base && p < base+uintptr(len(zerobase))
}

// Alloc returns a block of at least size bytes aligned to align. Zero-size
// requests return an aligned sentinel instead of invoking the registry. The
// returned address is stable for the lifetime of the block.
func (h *Heap) Alloc(size, align uintptr) unsafe.Pointer {
	checkAlign(align)
	if size > maxAllocSize {
		fatalf(FaultInvalidSize, "allocation size %d out of range", size)
	}
	if size == 0 {
		return zeroSentinel(align)
	}

	// Over-allocate so an aligned address always exists inside the buffer.
	buf := make([]byte, size+align-1)
	addr := uintptr(unsafe.Pointer(&buf[0]))
	p := unsafe.Add(unsafe.Pointer(&buf[0]), (align-addr%align)%align)
	aligned := uintptr(p)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	// Address reuse after a free is legitimate; drop any stale tombstone.
	delete(h.freed, aligned)
	h.blocks[aligned] = &block{buf: buf, size: size, align: align, allocID: id}
	trace := h.trace
	h.mu.Unlock()

	if trace != nil {
		trace(OpAlloc, p, size, align)
	}
	return p
}

// Free releases a block previously returned by Alloc. The size and alignment
// must match the allocation exactly; anything else is fatal. Freeing a
// zero-size sentinel is a no-op.
func (h *Heap) Free(ptr unsafe.Pointer, size, align uintptr) {
	checkAlign(align)
	if size == 0 || isZeroSentinel(ptr) {
		if !isZeroSentinel(ptr) {
			fatalf(FaultForeignFree, "zero-size free of non-sentinel pointer %#x", uintptr(ptr))
		}
		return
	}
	if ptr == nil {
		fatalf(FaultForeignFree, "free of nil pointer")
	}

	addr := uintptr(ptr)
	h.mu.Lock()
	b, ok := h.blocks[addr]
	if !ok {
		if id, freed := h.freed[addr]; freed {
			h.mu.Unlock()
			fatalf(FaultDoubleFree, "double free: block %#x (alloc=%d)", addr, id)
		}
		h.mu.Unlock()
		fatalf(FaultForeignFree, "free of unknown pointer %#x", addr)
	}
	if b.size != size {
		h.mu.Unlock()
		fatalf(FaultSizeMismatch, "invalid free size: got %d want %d (alloc=%d)", size, b.size, b.allocID)
	}
	if b.align != align {
		h.mu.Unlock()
		fatalf(FaultAlignMismatch, "invalid free align: got %d want %d (alloc=%d)", align, b.align, b.allocID)
	}
	delete(h.blocks, addr)
	h.freed[addr] = b.allocID
	trace := h.trace
	h.mu.Unlock()

	if trace != nil {
		trace(OpFree, ptr, size, align)
	}
}

// LiveCount reports the number of blocks currently allocated.
func (h *Heap) LiveCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.blocks)
}

// maxAllocSize caps a single allocation at half the address space, which
// also keeps the over-allocation arithmetic from wrapping.
const maxAllocSize = ^uintptr(0) >> 1
