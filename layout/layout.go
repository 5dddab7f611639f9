// Package layout computes sizes, alignments and offsets for records whose
// shape is only known at runtime. It is the arithmetic core shared by every
// erasure container: subtle padding mistakes here corrupt memory, so the
// package is kept standalone and exhaustively tested.
package layout

import (
	"unsafe"

	"fortio.org/safecast"
)

// Layout is a size/alignment pair describing one region of memory.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// Of returns the static layout of a Go type.
func Of[T any]() Layout {
	var v T
	return Layout{Size: unsafe.Sizeof(v), Align: unsafe.Alignof(v)}
}

// New builds a layout from an explicit size/align pair. Align must be a
// power of two.
func New(size, align uintptr) Layout {
	if align == 0 || align&(align-1) != 0 {
		panic(&Error{Kind: ErrBadAlign, Align: align})
	}
	return Layout{Size: size, Align: align}
}

// RoundUp rounds n up to the next multiple of align. Align 0 or 1 leaves n
// unchanged.
func RoundUp(n, align uintptr) uintptr {
	if align <= 1 {
		return n
	}
	r := n % align
	if r == 0 {
		return n
	}
	return n + (align - r)
}

// MaxAlign returns the stricter of two alignments.
func MaxAlign(a, b uintptr) uintptr {
	if a > b {
		return a
	}
	return b
}

// PadToAlign rounds the size up to a multiple of the alignment.
func (l Layout) PadToAlign() Layout {
	return Layout{Size: RoundUp(l.Size, l.Align), Align: l.Align}
}

// Array returns the layout of n contiguous elements. Elements are laid out
// at the element's natural stride.
func (l Layout) Array(n int) Layout {
	count, err := safecast.Conv[uintptr](n)
	if err != nil {
		panic(&Error{Kind: ErrNegativeLength, Value: int64(n), Err: err})
	}
	align := l.Align
	if align == 0 {
		align = 1
	}
	stride := RoundUp(l.Size, align)
	if count != 0 && stride > ^uintptr(0)/count {
		panic(&Error{Kind: ErrSizeOverflow, Value: int64(n)})
	}
	return Layout{Size: stride * count, Align: align}
}

// Combined lays the parts out back to back, each at its own alignment, and
// returns the padded record layout plus the byte offset of every part. The
// record alignment is the maximum part alignment and the record size is
// rounded up to it, so consecutive records stay aligned.
//
// Zero-size parts still get a correctly aligned offset. An empty or
// all-zero-size input yields a zero-size layout with alignment 1; callers
// that allocate must substitute a sentinel rather than request zero bytes.
func Combined(parts ...Layout) (Layout, []uintptr) {
	offsets := make([]uintptr, len(parts))
	var size uintptr
	align := uintptr(1)
	for i, p := range parts {
		a := p.Align
		if a == 0 {
			a = 1
		}
		size = RoundUp(size, a)
		offsets[i] = size
		if p.Size > ^uintptr(0)-size {
			panic(&Error{Kind: ErrSizeOverflow})
		}
		size += p.Size
		align = MaxAlign(align, a)
	}
	return Layout{Size: RoundUp(size, align), Align: align}, offsets
}
