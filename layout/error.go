package layout

import "fmt"

// ErrorKind enumerates types of layout calculation faults.
type ErrorKind uint8

const (
	// ErrBadAlign indicates an alignment that is zero or not a power of two.
	ErrBadAlign ErrorKind = iota + 1
	ErrNegativeLength
	ErrSizeOverflow
)

// Error describes a fatal layout calculation fault. Layout arithmetic has no
// recoverable failure path: errors of this type are always panicked.
type Error struct {
	Kind  ErrorKind
	Align uintptr // for ErrBadAlign
	Value int64   // for ErrNegativeLength, ErrSizeOverflow
	Err   error   // for ErrNegativeLength conversions
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch e.Kind {
	case ErrBadAlign:
		return fmt.Sprintf("invalid alignment %d: must be a power of two", e.Align)
	case ErrNegativeLength:
		if e.Err != nil {
			return fmt.Sprintf("invalid element count %d: %v", e.Value, e.Err)
		}
		return fmt.Sprintf("invalid element count %d", e.Value)
	case ErrSizeOverflow:
		return fmt.Sprintf("layout size overflows address space (count %d)", e.Value)
	default:
		return fmt.Sprintf("layout error kind=%d", e.Kind)
	}
}
