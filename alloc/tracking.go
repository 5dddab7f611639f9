package alloc

import (
	"sync"
	"unsafe"
)

// Stats is a point-in-time accounting snapshot of a Tracking allocator.
type Stats struct {
	AllocCount uint64
	FreeCount  uint64
	LiveCount  uint64
	LiveBytes  uint64
	TotalBytes uint64
}

// Tracking wraps an Allocator with accounting and fault injection. It is the
// leak oracle for lifecycle tests: a balanced erase/destroy cycle must leave
// LiveCount at zero.
type Tracking struct {
	inner Allocator

	mu        sync.Mutex
	stats     Stats
	failAfter int64 // remaining successful allocs before injected exhaustion; -1 disabled
}

// NewTracking wraps inner. A nil inner wraps the process-wide heap.
func NewTracking(inner Allocator) *Tracking {
	if inner == nil {
		inner = Default()
	}
	return &Tracking{inner: inner, failAfter: -1}
}

// FailAfter arms fault injection: the next n Alloc calls succeed and every
// one after that is fatal with FaultExhausted. Pass a negative n to disarm.
func (t *Tracking) FailAfter(n int64) {
	t.mu.Lock()
	t.failAfter = n
	t.mu.Unlock()
}

// Alloc forwards to the wrapped allocator, accounting the block. Zero-size
// sentinels are not accounted: they own no memory.
func (t *Tracking) Alloc(size, align uintptr) unsafe.Pointer {
	t.mu.Lock()
	if t.failAfter == 0 {
		t.mu.Unlock()
		fatalf(FaultExhausted, "injected allocation failure (size %d align %d)", size, align)
	}
	if t.failAfter > 0 {
		t.failAfter--
	}
	if size != 0 {
		t.stats.AllocCount++
		t.stats.LiveCount++
		t.stats.LiveBytes += uint64(size)
		t.stats.TotalBytes += uint64(size)
	}
	t.mu.Unlock()
	return t.inner.Alloc(size, align)
}

// Free forwards to the wrapped allocator, accounting the release.
func (t *Tracking) Free(ptr unsafe.Pointer, size, align uintptr) {
	t.inner.Free(ptr, size, align)
	if size == 0 {
		return
	}
	t.mu.Lock()
	t.stats.FreeCount++
	t.stats.LiveCount--
	t.stats.LiveBytes -= uint64(size)
	t.mu.Unlock()
}

// Snapshot returns the current accounting state.
func (t *Tracking) Snapshot() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// LeakCheck is fatal if any tracked block is still live.
func (t *Tracking) LeakCheck() {
	t.mu.Lock()
	s := t.stats
	t.mu.Unlock()
	if s.LiveCount != 0 {
		fatalf(FaultLeak, "heap leak detected: %d blocks (%d bytes) still alive", s.LiveCount, s.LiveBytes)
	}
}
