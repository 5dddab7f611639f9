package erased

import (
	"reflect"
	"unsafe"

	"erased/alloc"
	"erased/layout"
)

// Box is the wide owning container: an erased, owned value of unknown shape
// behind a fixed three-word handle. The shape descriptor lives in its own
// allocator cell, so the handle stays three words even when the descriptor
// is empty. Creating one is safe; reifying it back requires the caller to
// know the erased type, which is never checked.
//
// A Box is single-owner. It follows exactly one of two terminal paths:
// reification-to-owned (BoxOwned and friends, which consume it) or Destroy.
type Box struct {
	data unsafe.Pointer
	meta *Shape
	fin  Finalizer
}

// NewBox erases an owned value of fixed-size type T. The value is relocated
// into allocator memory; the handle owns both the value cell and the shape
// cell.
func NewBox[T any](a alloc.Allocator, v T) Box {
	l := layout.Of[T]()
	data := a.Alloc(l.Size, l.Align)
	if l.Size != 0 {
		*(*T)(data) = v
	}
	return Box{data: data, meta: newShapeCell(a, fixedShape()), fin: dropFixed[T]}
}

// NewSliceBox erases a sequence, preserving its element count in the shape
// descriptor. Elements are copied into allocator memory.
func NewSliceBox[E any](a alloc.Allocator, s []E) Box {
	n := len(s)
	l := layout.Of[E]().Array(n)
	data := a.Alloc(l.Size, l.Align)
	copy(unsafe.Slice((*E)(data), n), s)
	return Box{data: data, meta: newShapeCell(a, sequenceShape(n)), fin: dropSequence[E]}
}

// NewStringBox erases text as a variable-length byte sequence.
func NewStringBox(a alloc.Allocator, s string) Box {
	n := len(s)
	l := layout.Of[byte]().Array(n)
	data := a.Alloc(l.Size, l.Align)
	copy(unsafe.Slice((*byte)(data), n), s)
	return Box{data: data, meta: newShapeCell(a, sequenceShape(n)), fin: dropSequence[byte]}
}

// NewIfaceBox erases a dynamically-dispatched value behind interface type I.
// The concrete value's bytes are relocated into allocator memory and the
// dispatch word is preserved in the shape descriptor, so a later BoxIface
// reification dispatches exactly as the original did. Erasing a nil
// interface is fatal.
func NewIfaceBox[I any](a alloc.Allocator, v I) Box {
	w, t, empty := captureIface(&v)
	direct := t.DirectIface()
	var data unsafe.Pointer
	if direct {
		data = a.Alloc(ptrWordLayout.Size, ptrWordLayout.Align)
		*(*unsafe.Pointer)(data) = w.Data
	} else {
		data = a.Alloc(t.Size(), t.Align())
		memcopy(data, w.Data, t.Size())
	}
	return Box{data: data, meta: newShapeCell(a, dispatchShape(w.Tab, direct, empty)), fin: dropDispatch[I]}
}

// BoxFromRaw adopts an existing allocation of a fixed-size T. The pointer
// must have been returned by a's Alloc with T's exact layout; the box takes
// ownership of it.
func BoxFromRaw[T any](a alloc.Allocator, data unsafe.Pointer) Box {
	return Box{data: data, meta: newShapeCell(a, fixedShape()), fin: dropFixed[T]}
}

// Data returns the raw pointer to the contained value.
func (b *Box) Data() unsafe.Pointer { return b.data }

// Meta returns the pointer to the shape descriptor cell.
func (b *Box) Meta() *Shape { return b.meta }

// BoxPtr reifies the box back into a typed pointer. T must be the type used
// at construction; the pointer stays valid until the box is consumed.
func BoxPtr[T any](b *Box) *T { return (*T)(b.data) }

// BoxRef reifies a read-only view of the contained value. The returned
// pointer must not be written through and must not be used to free the
// value.
func BoxRef[T any](b *Box) *T { return (*T)(b.data) }

// BoxMut reifies an exclusive, writable view of the contained value. The
// caller must hold the box exclusively for as long as the pointer is used.
func BoxMut[T any](b *Box) *T { return (*T)(b.data) }

// BoxSlice reifies the box back into the erased sequence. Element type E
// must match the one used at construction.
func BoxSlice[E any](b *Box) []E {
	return unsafe.Slice((*E)(b.data), b.meta.Len())
}

// BoxStr reifies the box back into the erased text without copying. The
// string aliases the box's storage and dies with it.
func BoxStr(b *Box) string {
	return unsafe.String((*byte)(b.data), b.meta.Len())
}

// BoxIface reifies the box back into interface type I, restoring the
// dispatch captured at construction.
func BoxIface[I any](b *Box) I {
	return reifyIface[I](b.data, b.meta)
}

// BoxOwned consumes the box and moves the value out as an ordinary owned
// value. The box's backing cells are freed; its finalizer - including any
// Dispose call - is skipped, since ownership escapes whole.
func BoxOwned[T any](a alloc.Allocator, b Box) T {
	v := *(*T)(b.data)
	l := layout.Of[T]()
	a.Free(b.data, l.Size, l.Align)
	freeShapeCell(a, b.meta)
	return v
}

// BoxOwnedSlice consumes the box and moves the sequence out into a fresh,
// normally-owned slice.
func BoxOwnedSlice[E any](a alloc.Allocator, b Box) []E {
	n := b.meta.Len()
	out := make([]E, n)
	copy(out, unsafe.Slice((*E)(b.data), n))
	l := layout.Of[E]().Array(n)
	a.Free(b.data, l.Size, l.Align)
	freeShapeCell(a, b.meta)
	return out
}

// BoxOwnedStr consumes the box and moves the text out as an ordinary string.
func BoxOwnedStr(a alloc.Allocator, b Box) string {
	n := b.meta.Len()
	out := string(unsafe.Slice((*byte)(b.data), n))
	l := layout.Of[byte]().Array(n)
	a.Free(b.data, l.Size, l.Align)
	freeShapeCell(a, b.meta)
	return out
}

// BoxOwnedIface consumes the box and moves the dispatched value out into
// normally-owned memory, preserving its dynamic type.
func BoxOwnedIface[I any](a alloc.Allocator, b Box) I {
	out := cloneIface(BoxIface[I](&b))
	l := b.meta.valueLayout()
	a.Free(b.data, l.Size, l.Align)
	freeShapeCell(a, b.meta)
	return out
}

// cloneIface copies an interface's concrete value into fresh Go-managed
// memory. Reification-to-owned needs this because the erased storage is
// about to be freed and Go cannot allocate from a runtime type directly.
func cloneIface[I any](iv I) I {
	rv := reflect.ValueOf(iv)
	clone := reflect.New(rv.Type()).Elem()
	clone.Set(rv)
	return clone.Interface().(I)
}

// Destroy tears the box down: the finalizer runs exactly once, disposing
// the value and freeing the value cell and the shape cell. The box must not
// be used afterwards.
func (b Box) Destroy(a alloc.Allocator) {
	b.fin(a, b.data, b.meta)
}
