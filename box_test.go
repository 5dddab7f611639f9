package erased_test

import (
	"strings"
	"testing"

	"erased"
)

func TestBoxRoundTripInt(t *testing.T) {
	tr := tracked(t)
	b := erased.NewBox(tr, int32(1))
	if got := *erased.BoxRef[int32](&b); got != 1 {
		t.Errorf("got %d want 1", got)
	}
	if got := erased.BoxOwned[int32](tr, b); got != 1 {
		t.Errorf("owned: got %d want 1", got)
	}
	mustBalance(t, tr)
}

func TestBoxDestroyDisposesOnce(t *testing.T) {
	tr := tracked(t)
	var hits int32
	b := erased.NewBox(tr, counter{hits: &hits})
	if hits != 0 {
		t.Fatalf("dispose ran before destroy: %d", hits)
	}
	b.Destroy(tr)
	if hits != 1 {
		t.Errorf("dispose ran %d times, want 1", hits)
	}
	mustBalance(t, tr)
}

func TestBoxOwnedSkipsDispose(t *testing.T) {
	tr := tracked(t)
	var hits int32
	b := erased.NewBox(tr, counter{hits: &hits})
	v := erased.BoxOwned[counter](tr, b)
	if hits != 0 {
		t.Fatalf("dispose ran during owned reification: %d", hits)
	}
	mustBalance(t, tr)

	// Ownership escaped whole; the caller's normal teardown is the one
	// and only finalization across the lifecycle.
	v.Dispose()
	if hits != 1 {
		t.Errorf("total dispose count %d, want 1", hits)
	}
}

func TestBoxMutationVisibility(t *testing.T) {
	tr := tracked(t)
	b := erased.NewBox(tr, 1.5)
	if got := *erased.BoxMut[float64](&b); got != 1.5 {
		t.Fatalf("got %v want 1.5", got)
	}
	*erased.BoxMut[float64](&b) = 2.5
	if got := *erased.BoxRef[float64](&b); got != 2.5 {
		t.Errorf("after write: got %v want 2.5", got)
	}
	b.Destroy(tr)
	mustBalance(t, tr)
}

func TestBoxPtrStable(t *testing.T) {
	tr := tracked(t)
	b := erased.NewBox(tr, uint32(1))
	p1 := erased.BoxPtr[uint32](&b)
	p2 := erased.BoxPtr[uint32](&b)
	if p1 != p2 {
		t.Errorf("reified pointers differ: %p %p", p1, p2)
	}
	b.Destroy(tr)
	mustBalance(t, tr)
}

func TestBoxSliceRoundTrip(t *testing.T) {
	tr := tracked(t)
	b := erased.NewSliceBox(tr, []int32{1, 2, 3})

	view := erased.BoxSlice[int32](&b)
	if len(view) != 3 || view[0] != 1 || view[1] != 2 || view[2] != 3 {
		t.Fatalf("view: got %v want [1 2 3]", view)
	}

	out := erased.BoxOwnedSlice[int32](tr, b)
	if len(out) != 3 || out[0] != 1 || out[1] != 2 || out[2] != 3 {
		t.Errorf("owned: got %v want [1 2 3]", out)
	}
	mustBalance(t, tr)
}

func TestBoxStringRoundTrip(t *testing.T) {
	tr := tracked(t)
	b := erased.NewStringBox(tr, "foo")
	if got := erased.BoxStr(&b); got != "foo" {
		t.Fatalf("view: got %q want %q", got, "foo")
	}
	if got := erased.BoxOwnedStr(tr, b); got != "foo" {
		t.Errorf("owned: got %q want %q", got, "foo")
	}
	mustBalance(t, tr)
}

func TestBoxIfaceDispatch(t *testing.T) {
	tr := tracked(t)
	b := erased.NewIfaceBox[printable](tr, floatValue(123.45))
	if got := erased.BoxIface[printable](&b).String(); got != "123.45" {
		t.Errorf("dispatched: got %q want %q", got, "123.45")
	}
	b.Destroy(tr)
	mustBalance(t, tr)
}

func TestBoxIfaceOwned(t *testing.T) {
	tr := tracked(t)
	b := erased.NewIfaceBox[printable](tr, floatValue(123.45))
	out := erased.BoxOwnedIface[printable](tr, b)
	if got := out.String(); got != "123.45" {
		t.Errorf("owned dispatched: got %q want %q", got, "123.45")
	}
	mustBalance(t, tr)
}

func TestBoxIfaceDisposed(t *testing.T) {
	tr := tracked(t)
	var hits int32
	b := erased.NewIfaceBox[printable](tr, disposablePrintable{f: 1.5, hits: &hits})
	b.Destroy(tr)
	if hits != 1 {
		t.Errorf("dispose ran %d times, want 1", hits)
	}
	mustBalance(t, tr)
}

func TestBoxIfaceAny(t *testing.T) {
	tr := tracked(t)
	b := erased.NewIfaceBox[any](tr, int64(5))
	if got := erased.BoxIface[any](&b); got != int64(5) {
		t.Errorf("got %v want 5", got)
	}
	b.Destroy(tr)
	mustBalance(t, tr)
}

func TestBoxIfacePointerShaped(t *testing.T) {
	tr := tracked(t)
	item := int64(42)
	b := erased.NewIfaceBox[any](tr, &item)
	got, ok := erased.BoxIface[any](&b).(*int64)
	if !ok || got != &item {
		t.Errorf("got %v want %p", got, &item)
	}
	b.Destroy(tr)
	mustBalance(t, tr)
}

func TestBoxNilIfaceIsFatal(t *testing.T) {
	tr := tracked(t)
	defer func() {
		if recover() == nil {
			t.Error("expected panic erasing nil interface")
		}
	}()
	erased.NewIfaceBox[printable](tr, nil)
}

func TestBoxZeroSize(t *testing.T) {
	tr := tracked(t)
	b := erased.NewBox(tr, struct{}{})
	if b.Data() == nil {
		t.Fatal("zero-size box has nil data")
	}
	erased.BoxOwned[struct{}](tr, b)
	mustBalance(t, tr)
}

func TestBoxFromRaw(t *testing.T) {
	tr := tracked(t)
	p := tr.Alloc(4, 4)
	*(*int32)(p) = 7
	b := erased.BoxFromRaw[int32](tr, p)
	if got := *erased.BoxRef[int32](&b); got != 7 {
		t.Errorf("got %d want 7", got)
	}
	b.Destroy(tr)
	mustBalance(t, tr)
}

func TestBoxFormat(t *testing.T) {
	tr := tracked(t)
	b := erased.NewBox(tr, int32(1))
	if s := b.String(); !strings.HasPrefix(s, "Box{data: 0x") {
		t.Errorf("unexpected format: %q", s)
	}
	b.Destroy(tr)
}
