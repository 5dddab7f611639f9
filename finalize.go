package erased

import (
	"unsafe"

	"erased/alloc"
	"erased/layout"
)

// Finalizer releases everything an erased handle owns. It is fixed at
// construction time, specialized to the concrete erased type, and is the
// sole surviving piece of type identity after erasure. It must be invoked
// at most once.
type Finalizer func(a alloc.Allocator, data unsafe.Pointer, meta *Shape)

// Disposer is the destruction hook for erased values. A value whose type
// (or pointer type) implements Disposer has Dispose called exactly once
// when its owning handle is torn down. Reification-to-owned skips the call:
// ownership escapes whole and disposal becomes the caller's business.
type Disposer interface {
	Dispose()
}

func dispose[T any](p *T) {
	if d, ok := any(p).(Disposer); ok {
		d.Dispose()
		return
	}
	if d, ok := any(*p).(Disposer); ok {
		d.Dispose()
	}
}

func newShapeCell(a alloc.Allocator, s Shape) *Shape {
	p := a.Alloc(shapeLayout.Size, shapeLayout.Align)
	*(*Shape)(p) = s
	return (*Shape)(p)
}

func freeShapeCell(a alloc.Allocator, meta *Shape) {
	a.Free(unsafe.Pointer(meta), shapeLayout.Size, shapeLayout.Align)
}

// dropMetaOnly is the finalizer of the non-owning pointer family: the
// referent is untouched, only the shape cell is released.
func dropMetaOnly(a alloc.Allocator, _ unsafe.Pointer, meta *Shape) {
	freeShapeCell(a, meta)
}

func dropFixed[T any](a alloc.Allocator, data unsafe.Pointer, meta *Shape) {
	dispose((*T)(data))
	l := layout.Of[T]()
	a.Free(data, l.Size, l.Align)
	freeShapeCell(a, meta)
}

func dropSequence[E any](a alloc.Allocator, data unsafe.Pointer, meta *Shape) {
	n := meta.Len()
	elems := unsafe.Slice((*E)(data), n)
	for i := range elems {
		dispose(&elems[i])
	}
	l := layout.Of[E]().Array(n)
	a.Free(data, l.Size, l.Align)
	freeShapeCell(a, meta)
}

func dropDispatch[I any](a alloc.Allocator, data unsafe.Pointer, meta *Shape) {
	if d, ok := any(reifyIface[I](data, meta)).(Disposer); ok {
		d.Dispose()
	}
	l := meta.valueLayout()
	a.Free(data, l.Size, l.Align)
	freeShapeCell(a, meta)
}
