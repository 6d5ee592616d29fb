package errs

import (
	"errors"
	"testing"

	"go.uber.org/multierr"
)

// Zero errors collapse to success.
func TestCombine_Empty(t *testing.T) {
	if err := Combine(nil); err != nil {
		t.Fatalf("Combine(nil) = %v, want nil", err)
	}
	if err := Combine([]error{}); err != nil {
		t.Fatalf("Combine(empty) = %v, want nil", err)
	}
}

// A single error is returned as-is, not wrapped in a composite.
func TestCombine_Single(t *testing.T) {
	want := &FileNotFound{Path: "missing.zip"}
	got := Combine([]error{want})
	if got != error(want) {
		t.Fatalf("Combine(single) = %#v, want the identical error", got)
	}
}

// Two errors become a composite preserving input order.
func TestCombine_Pair(t *testing.T) {
	a := errors.New("a")
	b := errors.New("b")

	err := Combine([]error{a, b})
	parts := multierr.Errors(err)
	if len(parts) != 2 || parts[0] != a || parts[1] != b {
		t.Fatalf("Combine([a b]) parts = %v, want [a b]", parts)
	}
}

// Nested composites flatten recursively, in order.
func TestFlatten_Nested(t *testing.T) {
	a := errors.New("a")
	b := errors.New("b")
	c := errors.New("c")

	inner := Combine([]error{b, c})
	outer := Combine([]error{a, inner})

	leaves := Flatten(outer)
	if len(leaves) != 3 || leaves[0] != a || leaves[1] != b || leaves[2] != c {
		t.Fatalf("Flatten = %v, want [a b c]", leaves)
	}
}

func TestFlatten_Trivial(t *testing.T) {
	if got := Flatten(nil); got != nil {
		t.Fatalf("Flatten(nil) = %v, want nil", got)
	}
	e := errors.New("solo")
	got := Flatten(e)
	if len(got) != 1 || got[0] != e {
		t.Fatalf("Flatten(solo) = %v, want [solo]", got)
	}
}

// The typed errors are matchable with errors.As through composites.
func TestTypedErrors_MatchThroughComposite(t *testing.T) {
	err := Combine([]error{
		&UnknownFormat{Name: "Hoge"},
		&UnsupportedFormat{Name: "Lha", Op: "archiving"},
	})

	var unknown *UnknownFormat
	if !errors.As(err, &unknown) || unknown.Name != "Hoge" {
		t.Errorf("errors.As(UnknownFormat) failed on %v", err)
	}
	var unsupported *UnsupportedFormat
	if !errors.As(err, &unsupported) || unsupported.Name != "Lha" {
		t.Errorf("errors.As(UnsupportedFormat) failed on %v", err)
	}
}
