package rtype

import "unsafe"

// IfaceWords is the memory view of any interface header: for a non-empty
// interface Tab is an *Itab, for the empty interface it is the *Type itself.
// Data is not always what it seems: pointer-shaped values are stored in it
// directly.
type IfaceWords struct {
	Tab  unsafe.Pointer
	Data unsafe.Pointer
}

// WordsOf reinterprets a pointer to an interface value as its header words.
func WordsOf(iface unsafe.Pointer) *IfaceWords {
	return (*IfaceWords)(iface)
}

// ConcreteType resolves the dynamic type behind an interface header word.
// empty selects the empty-interface reading, where the word is the type
// itself rather than an itab. Returns nil for a nil interface.
func ConcreteType(tab unsafe.Pointer, empty bool) *Type {
	if tab == nil {
		return nil
	}
	if empty {
		return (*Type)(tab)
	}
	return (*Itab)(tab).Type
}
