package format

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// Every registered extension must detect as its owning format, regardless
// of case or of directory components in front of the file name.
func TestExtensionDetector_AllRegisteredExtensions(t *testing.T) {
	reg := Default()
	d := NewExtensionDetector(reg)

	for _, f := range reg.Formats() {
		for _, ext := range f.Extensions() {
			for _, path := range []string{
				"x" + ext,
				"/some/dir/x" + ext,
				"rel/dir/X" + ext,
			} {
				got := d.Detect(path)
				if got == nil {
					t.Errorf("Detect(%q) = nil, want %s", path, f.Name)
					continue
				}
				if got.Name != f.Name {
					t.Errorf("Detect(%q) = %s, want %s", path, got.Name, f.Name)
				}
			}
		}
	}
}

func TestExtensionDetector_Unknown(t *testing.T) {
	d := NewExtensionDetector(Default())
	if got := d.Detect("hoge.unknown"); got != nil {
		t.Errorf("Detect(hoge.unknown) = %v, want nil", got)
	}
}

func TestExtensionDetector_MultiPartExtensions(t *testing.T) {
	d := NewExtensionDetector(Default())

	cases := map[string]string{
		"test.tar.gz":   "TarGz",
		"test.tgz":      "TarGz",
		"test.tar.bz2":  "TarBz2",
		"test.tbz2":     "TarBz2",
		"test.tar.xz":   "TarXz",
		"test.txz":      "TarXz",
		"test.tar.zst":  "TarZstd",
		"test.tzst":     "TarZstd",
		"test.tar.zstd": "TarZstd",
		"test.tzstd":    "TarZstd",
		"test.TAR.GZ":   "TarGz",
	}
	for path, want := range cases {
		got := d.Detect(path)
		if got == nil || got.Name != want {
			t.Errorf("Detect(%q) = %v, want %s", path, got, want)
		}
	}
}

func TestFindByName(t *testing.T) {
	reg := Default()

	if f := reg.FindByName("zip"); f == nil || f.Name != "Zip" {
		t.Errorf("FindByName(zip) = %v, want Zip", f)
	}
	if f := reg.FindByName("TaRZsTd"); f == nil || f.Name != "TarZstd" {
		t.Errorf("FindByName(TaRZsTd) = %v, want TarZstd", f)
	}
	if f := reg.FindByName("unknown"); f != nil {
		t.Errorf("FindByName(unknown) = %v, want nil", f)
	}
}

func TestFindByExt(t *testing.T) {
	reg := Default()

	if f := reg.FindByExt(".ZIP"); f == nil || f.Name != "Zip" {
		t.Errorf("FindByExt(.ZIP) = %v, want Zip", f)
	}
	// Leading dot is supplied when missing.
	if f := reg.FindByExt("tAr.Gz"); f == nil || f.Name != "TarGz" {
		t.Errorf("FindByExt(tAr.Gz) = %v, want TarGz", f)
	}
	if f := reg.FindByExt(".unknown"); f != nil {
		t.Errorf("FindByExt(.unknown) = %v, want nil", f)
	}
}

func TestFixedDetector(t *testing.T) {
	reg := Default()
	d := NewFixedDetector(reg.FindByName("Zip"))

	if f := d.Detect("anyfile.anyext"); f == nil || f.Name != "Zip" {
		t.Errorf("Detect(anyfile.anyext) = %v, want Zip", f)
	}
}

func TestMatchAll(t *testing.T) {
	d := NewExtensionDetector(Default())

	archives := []string{"test.zip", "test.tar", "test.tar.gz", "test.tbz2", "test.rar"}
	if !MatchAll(archives, d) {
		t.Error("expected all archive names to match")
	}
	if MatchAll([]string{"test.zip", "README.md"}, d) {
		t.Error("expected README.md to break MatchAll")
	}
}

func writeZip(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	w, err := zw.Create("hello.txt")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

// A file named .rar but holding zip content: the extension detector trusts
// the name, the magic-number detector trusts the bytes.
func TestMagicDetector_Camouflage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "camouflage_of_zip.rar")
	writeZip(t, path)

	reg := Default()
	if f := NewExtensionDetector(reg).Detect(path); f == nil || f.Name != "Rar" {
		t.Errorf("extension detector = %v, want Rar", f)
	}
	if f := NewMagicDetector(reg).Detect(path); f == nil || f.Name != "Zip" {
		t.Errorf("magic detector = %v, want Zip", f)
	}
}

func TestMagicDetector_Gzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "somefile")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte("hello gzip")); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	got := NewMagicDetector(Default()).Detect(path)
	if got == nil || got.Name != "TarGz" {
		t.Errorf("magic detector = %v, want TarGz", got)
	}
}

// Detection failure is a normal outcome: a missing file yields nil.
func TestMagicDetector_MissingFile(t *testing.T) {
	d := NewMagicDetector(Default())
	if f := d.Detect(filepath.Join(t.TempDir(), "not_exist_file.rar")); f != nil {
		t.Errorf("Detect(missing) = %v, want nil", f)
	}
}

// An empty file carries no signature and must not be an error.
func TestMagicDetector_NoSignature(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if f := NewMagicDetector(Default()).Detect(path); f != nil {
		t.Errorf("Detect(empty) = %v, want nil", f)
	}
}
