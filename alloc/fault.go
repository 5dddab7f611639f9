package alloc

import "fmt"

// FaultCode identifies the type of allocator fault.
type FaultCode int

// Stable fault codes - do not change values.
const (
	FaultInvalidSize   FaultCode = 1001 // EA1001: allocation size out of range
	FaultInvalidAlign  FaultCode = 1002 // EA1002: alignment not a power of two or unsupported
	FaultForeignFree   FaultCode = 1003 // EA1003: free of a pointer this allocator never returned
	FaultDoubleFree    FaultCode = 1004 // EA1004: free of an already-freed block
	FaultSizeMismatch  FaultCode = 1005 // EA1005: free with a size that does not match the allocation
	FaultAlignMismatch FaultCode = 1006 // EA1006: free with an alignment that does not match the allocation
	FaultExhausted     FaultCode = 1007 // EA1007: allocation failure
	FaultLeak          FaultCode = 1008 // EA1008: live blocks at leak check
)

// String returns the code as "EA1001" format.
func (c FaultCode) String() string {
	return fmt.Sprintf("EA%d", c)
}

// Fault is a fatal allocator condition. Allocator misuse and exhaustion have
// no recoverable path: every Fault is panicked, never returned.
type Fault struct {
	Code    FaultCode
	Message string
}

// Error implements the error interface.
func (f *Fault) Error() string {
	return fmt.Sprintf("allocator fault %s: %s", f.Code, f.Message)
}

func fatalf(code FaultCode, format string, args ...any) {
	panic(&Fault{Code: code, Message: fmt.Sprintf(format, args...)})
}
