package erased

import "unsafe"

// memcopy moves n raw bytes between non-overlapping allocations. This is
// the relocation primitive behind erasure and reification-to-owned: the
// source is always discarded immediately after, never observed again, so
// skipping any disposal of the copied-over bytes is sound.
func memcopy(dst, src unsafe.Pointer, n uintptr) {
	if n == 0 {
		return
	}
	copy(unsafe.Slice((*byte)(dst), n), unsafe.Slice((*byte)(src), n))
}
