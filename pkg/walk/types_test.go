package walk

import (
	"testing"
)

func TestEffective_EmptyDefaultsToExpansion(t *testing.T) {
	got := Effective(nil)

	want := []IgnoreType{GitIgnore, GitGlobal, GitExclude, DotIgnore}
	if len(got) != len(want) {
		t.Fatalf("Effective(nil) = %v, want %v", got, want)
	}
	seen := map[IgnoreType]bool{}
	for _, tt := range got {
		seen[tt] = true
	}
	for _, tt := range want {
		if !seen[tt] {
			t.Errorf("Effective(nil) missing %v", tt)
		}
	}
}

// The Default marker unions in its expansion and is dropped from the
// result.
func TestEffective_DefaultMarkerExpandsAndDrops(t *testing.T) {
	got := Effective([]IgnoreType{Default, Hidden})

	if len(got) != 5 {
		t.Fatalf("Effective(Default, Hidden) = %v, want 5 elements", got)
	}
	for _, tt := range got {
		if tt == Default {
			t.Fatal("Default must never appear in the effective set")
		}
	}
}

func TestEffective_Idempotent(t *testing.T) {
	once := Effective([]IgnoreType{Default})
	twice := Effective(append(once, Default))

	if len(once) != len(twice) {
		t.Fatalf("expansion not idempotent: %v vs %v", once, twice)
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("expansion not idempotent: %v vs %v", once, twice)
		}
	}
}

func TestEffective_Deduplicates(t *testing.T) {
	got := Effective([]IgnoreType{Hidden, Hidden, GitIgnore, Hidden})
	if len(got) != 2 {
		t.Fatalf("Effective with duplicates = %v, want 2 elements", got)
	}
}

// The effective set never exceeds the five concrete values.
func TestEffective_Bounded(t *testing.T) {
	all := []IgnoreType{Default, Hidden, GitIgnore, GitGlobal, GitExclude, DotIgnore}
	if got := Effective(all); len(got) > 5 {
		t.Fatalf("Effective(all) = %v, more than 5 elements", got)
	}
}

func TestParseIgnoreType(t *testing.T) {
	cases := map[string]IgnoreType{
		"default":     Default,
		"HIDDEN":      Hidden,
		"Git-Ignore":  GitIgnore,
		"gitignore":   GitIgnore,
		"git-global":  GitGlobal,
		"git_exclude": GitExclude,
		"ignore":      DotIgnore,
	}
	for s, want := range cases {
		got, err := ParseIgnoreType(s)
		if err != nil {
			t.Errorf("ParseIgnoreType(%q): %v", s, err)
			continue
		}
		if got != want {
			t.Errorf("ParseIgnoreType(%q) = %v, want %v", s, got, want)
		}
	}

	if _, err := ParseIgnoreType("bogus"); err == nil {
		t.Error("ParseIgnoreType(bogus) expected error")
	}
}
