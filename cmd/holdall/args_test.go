package main

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/odvcencio/holdall/pkg/errs"
)

func TestNormalizeArgs_PlainArgumentsPassThrough(t *testing.T) {
	got, err := NormalizeArgs(strings.NewReader(""), []string{"src", "README.md"})
	if err != nil {
		t.Fatalf("NormalizeArgs: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"src", "README.md"}) {
		t.Errorf("args = %v", got)
	}
}

func TestNormalizeArgs_AtFileExpandsLines(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "targets.txt")
	content := "src\nREADME.md\n\n# a comment\n  LICENSE  \n"
	if err := os.WriteFile(list, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NormalizeArgs(strings.NewReader(""), []string{"@" + list, "extra"})
	if err != nil {
		t.Fatalf("NormalizeArgs: %v", err)
	}
	want := []string{"src", "README.md", "LICENSE", "extra"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("args = %v, want %v", got, want)
	}
}

func TestNormalizeArgs_DashReadsStdin(t *testing.T) {
	stdin := strings.NewReader("a.txt\n# skip\nb.txt\n")
	got, err := NormalizeArgs(stdin, []string{"-"})
	if err != nil {
		t.Fatalf("NormalizeArgs: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a.txt", "b.txt"}) {
		t.Errorf("args = %v", got)
	}
}

func TestNormalizeArgs_MissingAtFilesAggregate(t *testing.T) {
	_, err := NormalizeArgs(strings.NewReader(""), []string{"@no-such-1", "ok", "@no-such-2"})
	if err == nil {
		t.Fatal("expected an error for missing @files")
	}
	leaves := errs.Flatten(err)
	if len(leaves) != 2 {
		t.Fatalf("flattened %d errors, want 2: %v", len(leaves), leaves)
	}
	var nf *errs.FileNotFound
	if !errors.As(leaves[0], &nf) || nf.Path != "no-such-1" {
		t.Errorf("first leaf = %v", leaves[0])
	}
}
