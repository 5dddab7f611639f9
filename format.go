package erased

import (
	"fmt"
	"unsafe"
)

// Handle formatting is diagnostic only: it exposes addresses, never the
// erased contents, since the contents cannot be interpreted without the
// caller's type knowledge.

func (b Box) String() string {
	return fmt.Sprintf("Box{data: %#x, meta: %#x, ..}", uintptr(b.data), uintptr(unsafe.Pointer(b.meta)))
}

func (tb ThinBox) String() string {
	return fmt.Sprintf("ThinBox{inner: %#x, ..}", uintptr(tb.inner))
}

func (p Ptr) String() string {
	return fmt.Sprintf("Ptr{data: %#x, meta: %#x, ..}", uintptr(p.data), uintptr(unsafe.Pointer(p.meta)))
}

func (p NonNull) String() string {
	return fmt.Sprintf("NonNull{data: %#x, meta: %#x, ..}", uintptr(p.data), uintptr(unsafe.Pointer(p.meta)))
}

func (r Ref) String() string {
	return fmt.Sprintf("Ref{%s}", r.ptr)
}

func (m Mut) String() string {
	return fmt.Sprintf("Mut{%s}", m.ptr)
}
