package erased

import (
	"unsafe"

	"erased/alloc"
	"erased/layout"
)

// ThinBox is the thin owning container: the same ownership semantics as Box
// behind a single-word handle. Finalizer, shape descriptor and value bytes
// are co-located in one combined allocation:
//
//	+-----------+-------------------+---------------------+
//	| finalizer | shape descriptor  | value bytes ...     |
//	+-----------+-------------------+---------------------+
//
// with padding so every region starts at its own alignment. The combined
// layout is computed at runtime on every construction, since the value's
// size may itself be runtime data.
type ThinBox struct {
	inner unsafe.Pointer
}

// thinFinalizer tears down one combined record. Only static (non-closure)
// funcs may be stored here: the combined allocation is not scanned by the
// GC, so a heap-allocated closure would be collectable while still stored.
type thinFinalizer func(a alloc.Allocator, inner unsafe.Pointer)

var (
	thinHeaderLayout = layout.Of[thinFinalizer]()

	// The shape offset depends only on the header and descriptor layouts,
	// never on the value, so every record agrees on it.
	thinShapeOff = layout.RoundUp(thinHeaderLayout.Size, shapeLayout.Align)
)

// thinLayout computes the combined record layout for a given value layout
// and the byte offset where the value region starts.
func thinLayout(val layout.Layout) (total layout.Layout, valOff uintptr) {
	total, offs := layout.Combined(thinHeaderLayout, shapeLayout, val)
	return total, offs[2]
}

func thinShape(inner unsafe.Pointer) *Shape {
	return (*Shape)(unsafe.Add(inner, thinShapeOff))
}

// newThinRecord allocates and populates one combined record, relocating
// val.Size raw bytes from src into the value region. The source allocation
// is the caller's to discard; its bytes are never observed again.
func newThinRecord(a alloc.Allocator, fin thinFinalizer, s Shape, val layout.Layout, src unsafe.Pointer) ThinBox {
	total, valOff := thinLayout(val)
	inner := a.Alloc(total.Size, total.Align)
	*(*thinFinalizer)(inner) = fin
	*thinShape(inner) = s
	memcopy(unsafe.Add(inner, valOff), src, val.Size)
	return ThinBox{inner: inner}
}

// NewThin erases an owned value of fixed-size type T into a thin box.
func NewThin[T any](a alloc.Allocator, v T) ThinBox {
	return newThinRecord(a, thinDropFixed[T], fixedShape(), layout.Of[T](), unsafe.Pointer(&v))
}

// NewThinSlice erases a sequence into a thin box, preserving the element
// count in the co-located shape descriptor.
func NewThinSlice[E any](a alloc.Allocator, s []E) ThinBox {
	n := len(s)
	val := layout.Of[E]().Array(n)
	return newThinRecord(a, thinDropSequence[E], sequenceShape(n), val, unsafe.Pointer(unsafe.SliceData(s)))
}

// NewThinString erases text as a variable-length byte sequence.
func NewThinString(a alloc.Allocator, s string) ThinBox {
	n := len(s)
	val := layout.Of[byte]().Array(n)
	return newThinRecord(a, thinDropSequence[byte], sequenceShape(n), val, unsafe.Pointer(unsafe.StringData(s)))
}

// NewThinIface erases a dynamically-dispatched value behind interface type I
// into a thin box. Erasing a nil interface is fatal.
func NewThinIface[I any](a alloc.Allocator, v I) ThinBox {
	w, t, empty := captureIface(&v)
	direct := t.DirectIface()
	s := dispatchShape(w.Tab, direct, empty)
	if direct {
		return newThinRecord(a, thinDropDispatch[I], s, ptrWordLayout, unsafe.Pointer(&w.Data))
	}
	return newThinRecord(a, thinDropDispatch[I], s, layout.New(t.Size(), t.Align()), w.Data)
}

// ThinFromBox relocates a wide box's value into a thin box. The wide box's
// cells are freed without running its finalizer: the raw bytes moved, the
// value was never torn down.
func ThinFromBox[T any](a alloc.Allocator, b Box) ThinBox {
	l := layout.Of[T]()
	tb := newThinRecord(a, thinDropFixed[T], *b.meta, l, b.data)
	a.Free(b.data, l.Size, l.Align)
	freeShapeCell(a, b.meta)
	return tb
}

// ThinFromSliceBox relocates a wide sequence box into a thin box.
func ThinFromSliceBox[E any](a alloc.Allocator, b Box) ThinBox {
	l := layout.Of[E]().Array(b.meta.Len())
	tb := newThinRecord(a, thinDropSequence[E], *b.meta, l, b.data)
	a.Free(b.data, l.Size, l.Align)
	freeShapeCell(a, b.meta)
	return tb
}

// ThinFromStringBox relocates a wide text box into a thin box.
func ThinFromStringBox(a alloc.Allocator, b Box) ThinBox {
	return ThinFromSliceBox[byte](a, b)
}

// ThinFromIfaceBox relocates a wide dispatch box into a thin box.
func ThinFromIfaceBox[I any](a alloc.Allocator, b Box) ThinBox {
	l := b.meta.valueLayout()
	tb := newThinRecord(a, thinDropDispatch[I], *b.meta, l, b.data)
	a.Free(b.data, l.Size, l.Align)
	freeShapeCell(a, b.meta)
	return tb
}

// Inner returns the raw pointer to the combined record.
func (tb *ThinBox) Inner() unsafe.Pointer { return tb.inner }

// Meta returns the pointer to the co-located shape descriptor.
func (tb *ThinBox) Meta() *Shape { return thinShape(tb.inner) }

// ThinPtr reifies a typed pointer over the value region. T must be the type
// used at construction; the pointer stays valid until the box is consumed.
func ThinPtr[T any](tb *ThinBox) *T {
	_, valOff := thinLayout(layout.Of[T]())
	return (*T)(unsafe.Add(tb.inner, valOff))
}

// ThinRef reifies a read-only view of the contained value.
func ThinRef[T any](tb *ThinBox) *T { return ThinPtr[T](tb) }

// ThinMut reifies an exclusive, writable view of the contained value. The
// caller must hold the box exclusively for as long as the pointer is used.
func ThinMut[T any](tb *ThinBox) *T { return ThinPtr[T](tb) }

// ThinSlice reifies the erased sequence over the value region.
func ThinSlice[E any](tb *ThinBox) []E {
	n := thinShape(tb.inner).Len()
	_, valOff := thinLayout(layout.Of[E]().Array(n))
	return unsafe.Slice((*E)(unsafe.Add(tb.inner, valOff)), n)
}

// ThinStr reifies the erased text without copying; the string aliases the
// record and dies with it.
func ThinStr(tb *ThinBox) string {
	n := thinShape(tb.inner).Len()
	_, valOff := thinLayout(layout.Of[byte]().Array(n))
	return unsafe.String((*byte)(unsafe.Add(tb.inner, valOff)), n)
}

// ThinIface reifies the record back into interface type I, restoring the
// dispatch captured at construction.
func ThinIface[I any](tb *ThinBox) I {
	s := thinShape(tb.inner)
	_, valOff := thinLayout(s.valueLayout())
	return reifyIface[I](unsafe.Add(tb.inner, valOff), s)
}

// ThinOwned consumes the thin box and moves the value out. The combined
// allocation is freed without the finalizer's disposal step.
func ThinOwned[T any](a alloc.Allocator, tb ThinBox) T {
	val := layout.Of[T]()
	total, valOff := thinLayout(val)
	v := *(*T)(unsafe.Add(tb.inner, valOff))
	a.Free(tb.inner, total.Size, total.Align)
	return v
}

// ThinOwnedSlice consumes the thin box and moves the sequence out into a
// fresh, normally-owned slice.
func ThinOwnedSlice[E any](a alloc.Allocator, tb ThinBox) []E {
	n := thinShape(tb.inner).Len()
	val := layout.Of[E]().Array(n)
	total, valOff := thinLayout(val)
	out := make([]E, n)
	copy(out, unsafe.Slice((*E)(unsafe.Add(tb.inner, valOff)), n))
	a.Free(tb.inner, total.Size, total.Align)
	return out
}

// ThinOwnedStr consumes the thin box and moves the text out.
func ThinOwnedStr(a alloc.Allocator, tb ThinBox) string {
	n := thinShape(tb.inner).Len()
	val := layout.Of[byte]().Array(n)
	total, valOff := thinLayout(val)
	out := string(unsafe.Slice((*byte)(unsafe.Add(tb.inner, valOff)), n))
	a.Free(tb.inner, total.Size, total.Align)
	return out
}

// ThinOwnedIface consumes the thin box and moves the dispatched value out
// into normally-owned memory, preserving its dynamic type.
func ThinOwnedIface[I any](a alloc.Allocator, tb ThinBox) I {
	s := thinShape(tb.inner)
	val := s.valueLayout()
	total, _ := thinLayout(val)
	out := cloneIface(ThinIface[I](&tb))
	a.Free(tb.inner, total.Size, total.Align)
	return out
}

// Destroy tears the record down: the finalizer is read back out of the
// header and invoked exactly once. It disposes the value in place and frees
// the single combined allocation; header and descriptor need no disposal of
// their own. The box must not be used afterwards.
func (tb ThinBox) Destroy(a alloc.Allocator) {
	fin := *(*thinFinalizer)(tb.inner)
	fin(a, tb.inner)
}

func thinDropFixed[T any](a alloc.Allocator, inner unsafe.Pointer) {
	total, valOff := thinLayout(layout.Of[T]())
	dispose((*T)(unsafe.Add(inner, valOff)))
	a.Free(inner, total.Size, total.Align)
}

func thinDropSequence[E any](a alloc.Allocator, inner unsafe.Pointer) {
	n := thinShape(inner).Len()
	val := layout.Of[E]().Array(n)
	total, valOff := thinLayout(val)
	elems := unsafe.Slice((*E)(unsafe.Add(inner, valOff)), n)
	for i := range elems {
		dispose(&elems[i])
	}
	a.Free(inner, total.Size, total.Align)
}

func thinDropDispatch[I any](a alloc.Allocator, inner unsafe.Pointer) {
	s := thinShape(inner)
	val := s.valueLayout()
	total, valOff := thinLayout(val)
	if d, ok := any(reifyIface[I](unsafe.Add(inner, valOff), s)).(Disposer); ok {
		d.Dispose()
	}
	a.Free(inner, total.Size, total.Align)
}
