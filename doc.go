// Package erased provides type-erased ownership and reference handles:
// containers and pointers that hold a value of statically unknown shape
// behind a uniform, fixed-size handle, while still releasing the value and
// its auxiliary allocations correctly when the handle's lifetime ends.
//
// Two owning representations cooperate with a shared shape/finalizer
// scheme. Box is three words wide and keeps its shape descriptor in a
// separate allocator cell; ThinBox is one word wide and co-locates
// finalizer, descriptor and value in a single combined allocation. Ptr,
// NonNull, Ref and Mut reuse the wide layout without owning the referent.
//
// Creating a handle is safe. Reifying one is a reinterpretation, not a
// validated conversion: the caller must supply a type identical in
// representation to the one used at construction, out-of-band. Mismatch is
// undefined behavior and cannot be detected - the concrete type is gone.
//
// Every operation takes the allocator capability explicitly (see the alloc
// package); alloc.Default() is the process-wide instance. Handles are
// moved, not shared: concurrent access to one handle needs external
// synchronization. Erased bytes live in memory the garbage collector does
// not scan, so values that embed Go-managed pointers keep their referents
// alive only if the caller does.
package erased
