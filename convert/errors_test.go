package convert

import (
	"errors"
	"testing"
)

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	e := wrapError(Internal, cause, "wrapping")
	if !errors.Is(e, cause) {
		t.Fatal("errors.Is should find the wrapped cause")
	}
}

func TestErrorListAddSkipsNil(t *testing.T) {
	var l ErrorList
	l = l.Add(nil, newError(VramOverflow, "a"), nil, newError(VramOverflow, "b"))
	if len(l) != 2 {
		t.Fatalf("len(l) = %d, want 2", len(l))
	}
}

func TestErrorListHasKind(t *testing.T) {
	var l ErrorList
	l = l.Add(newError(VramOverflow, "overflow"))
	if !l.HasKind(VramOverflow) {
		t.Fatal("HasKind(VramOverflow) = false, want true")
	}
	if l.HasKind(Internal) {
		t.Fatal("HasKind(Internal) = true, want false")
	}
}

func TestErrorListErrorJoinsMessages(t *testing.T) {
	var l ErrorList
	l = l.Add(newError(VramOverflow, "a"), newError(VramOverflow, "b"))
	got := l.Error()
	if got == "" {
		t.Fatal("Error() returned empty string for non-empty list")
	}
}
