// Package rtype mirrors just enough of the runtime's type metadata to read
// the size, alignment and representation of a value hidden behind an
// interface header. Nothing here is created by this module: every *Type and
// itab pointer observed is immortal runtime data, safe to stash in
// unscanned memory.
package rtype

import "unsafe"

type tflag uint8

type nameOff int32 // offset to a name
type typeOff int32 // offset to an *Type

// Type mirrors runtime._type.
//
// Must be kept in sync with:
//
//	runtime/type.go
//	internal/abi/type.go
type Type struct {
	Size_       uintptr
	PtrBytes    uintptr // number of (prefix) bytes in the type that can contain pointers
	Hash        uint32  // hash of type; avoids computation in hash tables
	TFlag       tflag   // extra type information flags
	Align_      uint8   // alignment of variable with this type
	FieldAlign_ uint8   // alignment of struct field with this type
	Kind_       uint8   // enumeration for C
	// function for comparing objects of this type
	// (ptr to object A, ptr to object B) -> ==?
	Equal     func(unsafe.Pointer, unsafe.Pointer) bool
	GCData    *byte   // garbage collection data
	Str       nameOff // string form
	PtrToThis typeOff // type for pointer to this type, may be zero
}

// kindDirectIface marks types stored directly in the interface data word.
const kindDirectIface = 1 << 5

// Itab mirrors the runtime itab header; Fun is longer at runtime but only
// its presence matters here.
type Itab struct {
	Inter unsafe.Pointer // static interface type
	Type  *Type          // dynamic concrete type
	Hash  uint32         // copy of Type.Hash
	Fun   [1]uintptr     // method table, variable sized
}

// Size returns the byte size of a value of this type.
func (t *Type) Size() uintptr { return t.Size_ }

// Align returns the alignment requirement of a value of this type.
func (t *Type) Align() uintptr { return uintptr(t.Align_) }

// DirectIface reports whether values of this type live directly in the
// interface data word instead of behind a pointer.
func (t *Type) DirectIface() bool { return t.Kind_&kindDirectIface != 0 }
