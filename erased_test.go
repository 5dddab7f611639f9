package erased_test

import (
	"strconv"
	"testing"

	"erased/alloc"
)

// counter observes finalization: Dispose bumps the shared counter. Copies
// share the pointer, so value relocation keeps the count honest.
type counter struct {
	hits *int32
}

func (c counter) Dispose() {
	(*c.hits)++
}

// printable is the dynamically-dispatched behavior used by the erasure
// tests: the erased value's identity is observable only through dispatch.
type printable interface {
	String() string
}

type floatValue float64

func (f floatValue) String() string {
	return strconv.FormatFloat(float64(f), 'f', -1, 64)
}

// disposablePrintable implements both dispatch and finalization.
type disposablePrintable struct {
	f    floatValue
	hits *int32
}

func (d disposablePrintable) String() string { return d.f.String() }
func (d disposablePrintable) Dispose()       { (*d.hits)++ }

// tracked builds a fresh tracking allocator; tests end with a leak check.
func tracked(t *testing.T) *alloc.Tracking {
	t.Helper()
	return alloc.NewTracking(alloc.NewHeap())
}

func mustBalance(t *testing.T, tr *alloc.Tracking) {
	t.Helper()
	s := tr.Snapshot()
	if s.LiveCount != 0 {
		t.Errorf("allocation tracker reports leak: %d blocks (%d bytes) live", s.LiveCount, s.LiveBytes)
	}
}
