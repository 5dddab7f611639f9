package erased

import (
	"unsafe"

	"erased/alloc"
	"erased/internal/rtype"
)

// Ptr is an erased, possibly nil pointer to a value the handle does not
// own. It carries the wide {data, shape cell, finalizer} layout so a typed
// pointer can be reconstructed on demand, but teardown only ever frees the
// shape cell - the referent is untouched. A dangling data pointer is a
// caller error that surfaces only when reified and dereferenced.
type Ptr struct {
	data unsafe.Pointer
	meta *Shape
	fin  Finalizer
}

// NewPtr erases a typed pointer, which may be nil.
func NewPtr[T any](a alloc.Allocator, p *T) Ptr {
	return Ptr{data: unsafe.Pointer(p), meta: newShapeCell(a, fixedShape()), fin: dropMetaOnly}
}

// NewSlicePtr erases a borrowed sequence, preserving its element count.
func NewSlicePtr[E any](a alloc.Allocator, s []E) Ptr {
	return Ptr{data: unsafe.Pointer(unsafe.SliceData(s)), meta: newShapeCell(a, sequenceShape(len(s))), fin: dropMetaOnly}
}

// NewStringPtr erases borrowed text as a byte sequence.
func NewStringPtr(a alloc.Allocator, s string) Ptr {
	return Ptr{data: unsafe.Pointer(unsafe.StringData(s)), meta: newShapeCell(a, sequenceShape(len(s))), fin: dropMetaOnly}
}

// NewIfacePtr erases a borrowed dynamically-dispatched value. The handle
// borrows the interface's data word; the referent stays owned by the
// caller. Erasing a nil interface is fatal.
func NewIfacePtr[I any](a alloc.Allocator, v I) Ptr {
	w, t, empty := captureIface(&v)
	return Ptr{data: w.Data, meta: newShapeCell(a, dispatchShape(w.Tab, t.DirectIface(), empty)), fin: dropMetaOnly}
}

// Data returns the raw pointer to the referenced value.
func (p *Ptr) Data() unsafe.Pointer { return p.data }

// Meta returns the pointer to the shape descriptor cell.
func (p *Ptr) Meta() *Shape { return p.meta }

// PtrTo reifies the erased pointer back into a typed pointer. T must be the
// type used at construction.
func PtrTo[T any](p *Ptr) *T { return (*T)(p.data) }

// PtrSlice reifies the erased pointer back into the borrowed sequence.
func PtrSlice[E any](p *Ptr) []E {
	return unsafe.Slice((*E)(p.data), p.meta.Len())
}

// PtrStr reifies the erased pointer back into the borrowed text.
func PtrStr(p *Ptr) string {
	return unsafe.String((*byte)(p.data), p.meta.Len())
}

// PtrIface reifies the erased pointer back into interface type I. For
// borrows the data word is carried as-is, so the rebuilt interface aliases
// the caller's original value.
func PtrIface[I any](p *Ptr) I {
	var out I
	w := rtype.WordsOf(unsafe.Pointer(&out))
	w.Tab = p.meta.tab
	w.Data = p.data
	return out
}

// Destroy invokes the finalizer on the shape cell only; the referenced
// value is untouched. The handle must not be used afterwards.
func (p Ptr) Destroy(a alloc.Allocator) {
	p.fin(a, p.data, p.meta)
}

// NonNull is an erased pointer whose data is guaranteed non-nil at
// construction. Otherwise identical to Ptr.
type NonNull struct {
	data unsafe.Pointer
	meta *Shape
	fin  Finalizer
}

// NewNonNull erases a typed pointer that must not be nil.
func NewNonNull[T any](a alloc.Allocator, p *T) NonNull {
	if p == nil {
		panic("erased: nil pointer passed to NewNonNull")
	}
	return NonNull{data: unsafe.Pointer(p), meta: newShapeCell(a, fixedShape()), fin: dropMetaOnly}
}

// Data returns the raw pointer to the referenced value.
func (p *NonNull) Data() unsafe.Pointer { return p.data }

// Meta returns the pointer to the shape descriptor cell.
func (p *NonNull) Meta() *Shape { return p.meta }

// NonNullTo reifies the erased pointer back into a typed pointer. T must be
// the type used at construction.
func NonNullTo[T any](p *NonNull) *T { return (*T)(p.data) }

// Destroy invokes the finalizer on the shape cell only; the referenced
// value is untouched. The handle must not be used afterwards.
func (p NonNull) Destroy(a alloc.Allocator) {
	p.fin(a, p.data, p.meta)
}
