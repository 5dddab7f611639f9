package erased

import (
	"fmt"
	"reflect"
	"unsafe"

	"erased/internal/rtype"
	"erased/layout"
)

type shapeKind uint8

const (
	shapeFixed shapeKind = iota + 1
	shapeSequence
	shapeDispatch
)

// Shape is the fixed-size descriptor carried alongside every erased value:
// everything needed to interpret the value from its data pointer alone. It
// is one tagged record for all erasures - an ordinary fixed-size value
// carries the fixed variant, a sequence carries its element count, a
// dynamically-dispatched value carries its interface table word. The fixed
// variant holds no information but still occupies the full descriptor, which
// keeps cell sizes and thin-record offsets uniform.
type Shape struct {
	kind   shapeKind
	direct bool // dispatch: value lives in the data word itself
	empty  bool // dispatch: empty-interface header, tab is the type word
	count  uintptr
	tab    unsafe.Pointer
}

// Len returns the element count of a sequence shape.
func (s *Shape) Len() int { return int(s.count) }

// Itab returns the interface table word of a dispatch shape.
func (s *Shape) Itab() unsafe.Pointer { return s.tab }

func fixedShape() Shape {
	return Shape{kind: shapeFixed}
}

func sequenceShape(n int) Shape {
	return Shape{kind: shapeSequence, count: uintptr(n)}
}

func dispatchShape(tab unsafe.Pointer, direct, empty bool) Shape {
	return Shape{kind: shapeDispatch, direct: direct, empty: empty, tab: tab}
}

var (
	shapeLayout   = layout.Of[Shape]()
	ptrWordLayout = layout.Of[unsafe.Pointer]()
)

// valueLayout returns the stored value's layout for a dispatch shape: one
// word for pointer-shaped values, the concrete type's layout otherwise.
func (s *Shape) valueLayout() layout.Layout {
	if s.direct {
		return ptrWordLayout
	}
	t := rtype.ConcreteType(s.tab, s.empty)
	return layout.New(t.Size(), t.Align())
}

// emptyIfaceType reports whether I is the empty interface, and is fatal when
// I is not an interface type at all: a concrete type argument would make the
// header reinterpretation meaningless.
func emptyIfaceType[I any]() bool {
	it := reflect.TypeOf((*I)(nil)).Elem()
	if it.Kind() != reflect.Interface {
		panic(fmt.Sprintf("erased: %v is not an interface type", it))
	}
	return it.NumMethod() == 0
}

// captureIface decomposes an interface value into its header words and the
// concrete runtime type. Erasing a nil interface is fatal: there is no type
// identity to capture.
func captureIface[I any](v *I) (*rtype.IfaceWords, *rtype.Type, bool) {
	empty := emptyIfaceType[I]()
	w := rtype.WordsOf(unsafe.Pointer(v))
	t := rtype.ConcreteType(w.Tab, empty)
	if t == nil {
		panic("erased: cannot erase nil interface value")
	}
	return w, t, empty
}

// reifyIface rebuilds a typed interface value over stored data. The data
// region holds the original data word for pointer-shaped values and the
// value bytes otherwise.
func reifyIface[I any](data unsafe.Pointer, meta *Shape) I {
	var out I
	w := rtype.WordsOf(unsafe.Pointer(&out))
	w.Tab = meta.tab
	if meta.direct {
		w.Data = *(*unsafe.Pointer)(data)
	} else {
		w.Data = data
	}
	return out
}
