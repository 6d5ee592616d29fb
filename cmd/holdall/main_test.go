package main

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/odvcencio/holdall/pkg/errs"
	"github.com/odvcencio/holdall/pkg/format"
	"github.com/spf13/cobra"
)

// chdir changes the working directory for the duration of the test,
// standing in for testing.T.Chdir, which needs Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}

func writeTestZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

// newTestRoot isolates the command from any real rc file.
func newTestRoot(t *testing.T) *cobra.Command {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	root := newRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	return root
}

func TestDetectorFor(t *testing.T) {
	reg := format.Default()

	d, err := detectorFor(reg, "auto")
	if err != nil {
		t.Fatalf("auto: %v", err)
	}
	if f := d.Detect("x.tar.gz"); f == nil || f.Name != "TarGz" {
		t.Errorf("auto detector on x.tar.gz = %v", f)
	}

	d, err = detectorFor(reg, "zip")
	if err != nil {
		t.Fatalf("zip: %v", err)
	}
	if f := d.Detect("anything.bin"); f == nil || f.Name != "Zip" {
		t.Errorf("fixed detector = %v", f)
	}

	_, err = detectorFor(reg, "nope")
	var uf *errs.UnknownFormat
	if !errors.As(err, &uf) {
		t.Errorf("detectorFor(nope) = %v, want UnknownFormat", err)
	}
}

func TestDetectorFor_ParseReadsMagicNumber(t *testing.T) {
	dir := t.TempDir()
	disguised := filepath.Join(dir, "camouflage.rar")
	writeTestZip(t, disguised, map[string]string{"a.txt": "a"})

	d, err := detectorFor(format.Default(), "parse")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f := d.Detect(disguised); f == nil || f.Name != "Zip" {
		t.Errorf("parse detector on zip bytes = %v, want Zip", f)
	}
}

func TestParseIgnoreTypes(t *testing.T) {
	types, err := parseIgnoreTypes([]string{"hidden", "git-ignore"})
	if err != nil {
		t.Fatalf("parseIgnoreTypes: %v", err)
	}
	if len(types) != 2 {
		t.Errorf("types = %v", types)
	}
	if _, err := parseIgnoreTypes([]string{"bogus"}); err == nil {
		t.Error("parseIgnoreTypes(bogus) should fail")
	}
}

func TestRootCommand_AutoModeArchives(t *testing.T) {
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "a.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	dest := filepath.Join(t.TempDir(), "out.zip")

	root := newTestRoot(t)
	root.SetArgs([]string{"-o", dest, "a.txt"})
	chdir(t, src)
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	zr, err := zip.OpenReader(dest)
	if err != nil {
		t.Fatalf("open result: %v", err)
	}
	defer zr.Close()
	if len(zr.File) != 1 || zr.File[0].Name != "a.txt" {
		t.Errorf("archive contents = %v", zr.File)
	}
}

func TestRootCommand_AutoModeExtracts(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "bundle.zip")
	writeTestZip(t, archive, map[string]string{"inner.txt": "payload"})
	dest := filepath.Join(dir, "out")

	root := newTestRoot(t)
	root.SetArgs([]string{"-o", dest, archive})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "inner.txt"))
	if err != nil {
		t.Fatalf("read extracted: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("content = %q", data)
	}
}

func TestRootCommand_FirstArgumentBecomesDestination(t *testing.T) {
	src := t.TempDir()
	if err := os.WriteFile(filepath.Join(src, "a.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	root := newTestRoot(t)
	root.SetArgs([]string{"result.tar.gz", "a.txt"})
	chdir(t, src)
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if _, err := os.Stat(filepath.Join(src, "result.tar.gz")); err != nil {
		t.Errorf("destination missing: %v", err)
	}
}

func TestListCommand_DefaultFormat(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "bundle.zip")
	writeTestZip(t, archive, map[string]string{"inner.txt": "payload"})

	var out bytes.Buffer
	root := newTestRoot(t)
	root.SetOut(&out)
	root.SetArgs([]string{"list", archive})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "inner.txt" {
		t.Errorf("list output = %q", got)
	}
}

func TestExtractCommand_MissingArchiveReportsFileNotFound(t *testing.T) {
	root := newTestRoot(t)
	root.SetArgs([]string{"extract", "no-such.zip"})
	err := root.Execute()
	var nf *errs.FileNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("execute = %v, want FileNotFound", err)
	}
}
