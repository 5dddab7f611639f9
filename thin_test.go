package erased_test

import (
	"strings"
	"testing"

	"erased"
)

func TestThinRoundTripInt(t *testing.T) {
	tr := tracked(t)
	tb := erased.NewThin(tr, int32(1))
	if got := *erased.ThinRef[int32](&tb); got != 1 {
		t.Errorf("got %d want 1", got)
	}
	if got := erased.ThinOwned[int32](tr, tb); got != 1 {
		t.Errorf("owned: got %d want 1", got)
	}
	mustBalance(t, tr)
}

func TestThinDestroyDisposesOnce(t *testing.T) {
	tr := tracked(t)
	var hits int32
	tb := erased.NewThin(tr, counter{hits: &hits})
	tb.Destroy(tr)
	if hits != 1 {
		t.Errorf("dispose ran %d times, want 1", hits)
	}
	mustBalance(t, tr)
}

func TestThinOwnedSkipsDispose(t *testing.T) {
	tr := tracked(t)
	var hits int32
	tb := erased.NewThin(tr, counter{hits: &hits})
	v := erased.ThinOwned[counter](tr, tb)
	if hits != 0 {
		t.Fatalf("dispose ran during owned reification: %d", hits)
	}
	mustBalance(t, tr)

	v.Dispose()
	if hits != 1 {
		t.Errorf("total dispose count %d, want 1", hits)
	}
}

func TestThinMutationVisibility(t *testing.T) {
	tr := tracked(t)
	tb := erased.NewThin(tr, float32(1.5))
	if got := *erased.ThinMut[float32](&tb); got != 1.5 {
		t.Fatalf("got %v want 1.5", got)
	}
	*erased.ThinMut[float32](&tb) = 2.5
	if got := *erased.ThinMut[float32](&tb); got != 2.5 {
		t.Errorf("after write: got %v want 2.5", got)
	}
	tb.Destroy(tr)
	mustBalance(t, tr)
}

func TestThinPtrStable(t *testing.T) {
	tr := tracked(t)
	tb := erased.NewThin(tr, uint32(1))
	p1 := erased.ThinPtr[uint32](&tb)
	p2 := erased.ThinPtr[uint32](&tb)
	if p1 != p2 {
		t.Errorf("reified pointers differ: %p %p", p1, p2)
	}
	tb.Destroy(tr)
	mustBalance(t, tr)
}

func TestThinSliceRoundTrip(t *testing.T) {
	tr := tracked(t)
	tb := erased.NewThinSlice(tr, []int32{1, 2, 3})

	view := erased.ThinSlice[int32](&tb)
	if len(view) != 3 || view[0] != 1 || view[1] != 2 || view[2] != 3 {
		t.Fatalf("view: got %v want [1 2 3]", view)
	}

	out := erased.ThinOwnedSlice[int32](tr, tb)
	if len(out) != 3 || out[0] != 1 || out[1] != 2 || out[2] != 3 {
		t.Errorf("owned: got %v want [1 2 3]", out)
	}
	mustBalance(t, tr)
}

func TestThinStringRoundTrip(t *testing.T) {
	tr := tracked(t)
	tb := erased.NewThinString(tr, "foo")
	if got := erased.ThinStr(&tb); got != "foo" {
		t.Fatalf("view: got %q want %q", got, "foo")
	}
	if got := erased.ThinOwnedStr(tr, tb); got != "foo" {
		t.Errorf("owned: got %q want %q", got, "foo")
	}
	mustBalance(t, tr)
}

func TestThinIfaceDispatch(t *testing.T) {
	tr := tracked(t)
	tb := erased.NewThinIface[printable](tr, floatValue(123.45))
	if got := erased.ThinIface[printable](&tb).String(); got != "123.45" {
		t.Errorf("dispatched: got %q want %q", got, "123.45")
	}
	tb.Destroy(tr)
	mustBalance(t, tr)
}

func TestThinIfaceOwned(t *testing.T) {
	tr := tracked(t)
	tb := erased.NewThinIface[printable](tr, floatValue(123.45))
	out := erased.ThinOwnedIface[printable](tr, tb)
	if got := out.String(); got != "123.45" {
		t.Errorf("owned dispatched: got %q want %q", got, "123.45")
	}
	mustBalance(t, tr)
}

func TestThinIfaceDisposed(t *testing.T) {
	tr := tracked(t)
	var hits int32
	tb := erased.NewThinIface[printable](tr, disposablePrintable{f: 1.5, hits: &hits})
	tb.Destroy(tr)
	if hits != 1 {
		t.Errorf("dispose ran %d times, want 1", hits)
	}
	mustBalance(t, tr)
}

func TestThinZeroSize(t *testing.T) {
	type unit struct{}
	tr := tracked(t)
	tb := erased.NewThin(tr, unit{})
	if tb.Inner() == nil {
		t.Fatal("thin box has nil inner pointer")
	}
	if got := *erased.ThinRef[unit](&tb); got != (unit{}) {
		t.Errorf("got %v", got)
	}
	tb.Destroy(tr)
	mustBalance(t, tr)
}

func TestThinSequenceElementsDisposed(t *testing.T) {
	tr := tracked(t)
	var hits int32
	elems := []counter{{hits: &hits}, {hits: &hits}, {hits: &hits}}
	tb := erased.NewThinSlice(tr, elems)
	tb.Destroy(tr)
	if hits != 3 {
		t.Errorf("dispose ran %d times, want 3", hits)
	}
	mustBalance(t, tr)
}

func TestThinFromBoxRelocation(t *testing.T) {
	tr := tracked(t)
	var hits int32
	b := erased.NewBox(tr, counter{hits: &hits})
	tb := erased.ThinFromBox[counter](tr, b)
	if hits != 0 {
		t.Fatalf("relocation must not dispose: %d", hits)
	}
	tb.Destroy(tr)
	if hits != 1 {
		t.Errorf("dispose ran %d times across relocation, want 1", hits)
	}
	mustBalance(t, tr)
}

func TestThinFromSliceBoxRelocation(t *testing.T) {
	tr := tracked(t)
	b := erased.NewSliceBox(tr, []int32{1, 2, 3})
	tb := erased.ThinFromSliceBox[int32](tr, b)
	view := erased.ThinSlice[int32](&tb)
	if len(view) != 3 || view[0] != 1 || view[2] != 3 {
		t.Errorf("after relocation: got %v want [1 2 3]", view)
	}
	tb.Destroy(tr)
	mustBalance(t, tr)
}

func TestThinFromStringBoxRelocation(t *testing.T) {
	tr := tracked(t)
	b := erased.NewStringBox(tr, "foo")
	tb := erased.ThinFromStringBox(tr, b)
	if got := erased.ThinStr(&tb); got != "foo" {
		t.Errorf("after relocation: got %q want %q", got, "foo")
	}
	tb.Destroy(tr)
	mustBalance(t, tr)
}

func TestThinFromIfaceBoxRelocation(t *testing.T) {
	tr := tracked(t)
	b := erased.NewIfaceBox[printable](tr, floatValue(123.45))
	tb := erased.ThinFromIfaceBox[printable](tr, b)
	if got := erased.ThinIface[printable](&tb).String(); got != "123.45" {
		t.Errorf("after relocation: got %q want %q", got, "123.45")
	}
	tb.Destroy(tr)
	mustBalance(t, tr)
}

func TestThinFormat(t *testing.T) {
	tr := tracked(t)
	tb := erased.NewThin(tr, int32(1))
	if s := tb.String(); !strings.HasPrefix(s, "ThinBox{inner: 0x") {
		t.Errorf("unexpected format: %q", s)
	}
	tb.Destroy(tr)
}
