package calc

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.rcn")

	c, _, _ := newTestCalc(t)
	mustExecute(t, c, "a=4", "1 'two' [3] 10k")
	mustExecute(t, c, fmt.Sprintf("'%s' save", path))
	if c.Len() != 4 {
		t.Fatalf("stack depth after save = %d, want 4", c.Len())
	}

	// A fresh session restores the saved state.
	c2, _, _ := newTestCalc(t)
	mustExecute(t, c2, fmt.Sprintf("'%s' load", path))
	checkStack(t, c2, FromInt(1), FromString("two"),
		FromList(ints(3)), FromInt(10000))
	if v, ok := c2.Variable("a"); !ok || !v.Equal(FromInt(4)) {
		t.Errorf("a = %v, %v", v, ok)
	}

	// The engineering tag survives the round trip.
	if top := mustTop(t, c2); top.Repr() != "10k" {
		t.Errorf("top = %q, want 10k", top.Repr())
	}
}

func TestSaveConsumesFileName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.rcn")
	c, _, _ := newTestCalc(t)
	mustExecute(t, c, "4", fmt.Sprintf("'%s' save", path))
	checkStack(t, c, ints(4)...)
	if _, err := os.Stat(path); err != nil {
		t.Errorf("image file missing: %v", err)
	}
}

func TestSaveCallableRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.rcn")

	c, _, _ := newTestCalc(t)
	mustExecute(t, c, "+:!", fmt.Sprintf("'%s' save", path))

	c2, _, _ := newTestCalc(t)
	mustExecute(t, c2, fmt.Sprintf("'%s' load", path))
	top := mustTop(t, c2)
	if !top.IsFunc() || top.Func().Path() != "op.add" {
		t.Fatalf("top = %s, want the op.add callable", top.Repr())
	}

	// The restored callable still runs.
	mustExecute(t, c2, "4 5 apply")
	checkStack(t, c2, ints(9)...)
}

func TestLoadMissingFile(t *testing.T) {
	c, _, errOut := newTestCalc(t)
	path := filepath.Join(t.TempDir(), "absent.rcn")
	mustExecute(t, c, "7")
	if ok, _ := c.Execute(fmt.Sprintf("'%s' load", path)); ok {
		t.Fatal("expected failure")
	}
	if errOut.Len() == 0 {
		t.Error("expected an error message")
	}
	// Nothing was applied.
	checkStack(t, c, FromInt(7), FromString(path))
}

func TestLoadIsUndoable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.rcn")

	c, _, _ := newTestCalc(t)
	mustExecute(t, c, "1 2", fmt.Sprintf("'%s' save", path))
	mustExecute(t, c, "clear", "99",
		fmt.Sprintf("'%s' load", path), "undo")
	checkStack(t, c, FromInt(99), FromString(path))
}

func TestLoadCorruptImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.rcn")
	if err := os.WriteFile(path, []byte("not cbor at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, _, _ := newTestCalc(t)
	mustExecute(t, c, fmt.Sprintf("'%s'", path))
	if ok, _ := c.Execute("load"); ok {
		t.Fatal("expected failure")
	}
}
