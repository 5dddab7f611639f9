package erased

import "erased/alloc"

// Ref is an erased immutable borrow: a NonNull whose validity is tied to a
// caller-tracked lifetime. The referent must outlive the handle and must
// not be written through pointers reified from it; both are caller
// contracts, not checked conditions.
type Ref struct {
	ptr NonNull
}

// NewRef erases a borrowed value.
func NewRef[T any](a alloc.Allocator, v *T) Ref {
	return Ref{ptr: NewNonNull(a, v)}
}

// AsPtr returns the internal erased pointer of this borrow.
func (r *Ref) AsPtr() *NonNull { return &r.ptr }

// RefTo reifies the borrow back into a typed read-only pointer. T must be
// the type used at construction.
func RefTo[T any](r *Ref) *T { return NonNullTo[T](&r.ptr) }

// Destroy frees the handle's shape cell only; the referent is untouched.
func (r Ref) Destroy(a alloc.Allocator) {
	r.ptr.Destroy(a)
}

// Mut is an erased mutable borrow. On top of Ref's lifetime contract, the
// caller must guarantee exclusivity: no other access to the referent while
// the handle, or any pointer reified from it, is live.
type Mut struct {
	ptr NonNull
}

// NewMut erases an exclusively borrowed value.
func NewMut[T any](a alloc.Allocator, v *T) Mut {
	return Mut{ptr: NewNonNull(a, v)}
}

// AsPtr returns the internal erased pointer of this borrow.
func (m *Mut) AsPtr() *NonNull { return &m.ptr }

// MutTo reifies the borrow back into a typed writable pointer. T must be
// the type used at construction. Taking *Mut keeps the handle exclusively
// held for the duration of the call.
func MutTo[T any](m *Mut) *T { return NonNullTo[T](&m.ptr) }

// Destroy frees the handle's shape cell only; the referent is untouched.
func (m Mut) Destroy(a alloc.Allocator) {
	m.ptr.Destroy(a)
}
