// Package format manages the catalog of known archive formats and the
// strategies for detecting which format a file is (or should become).
//
// Three detector strategies are provided: by file extension (the default),
// by magic number (file signature), and a fixed detector that always
// reports a preset format regardless of the path.
package format

import (
	"path/filepath"
	"strings"
)

// Format is a named archive type with its set of recognized file
// extensions. Extensions are stored lowercase with a leading dot.
// Instances are created once by the registry and never mutated.
type Format struct {
	Name string
	exts []string
}

// New creates a Format with the given name and extensions. Extensions are
// normalized to lowercase.
func New(name string, exts ...string) Format {
	normalized := make([]string, len(exts))
	for i, e := range exts {
		normalized[i] = strings.ToLower(e)
	}
	return Format{Name: name, exts: normalized}
}

func (f Format) String() string {
	return f.Name
}

// Extensions returns a copy of the format's extension set.
func (f Format) Extensions() []string {
	return append([]string(nil), f.exts...)
}

// Match reports whether the file name of path ends with one of this
// format's extensions. Matching is case-insensitive and independent of any
// directory components preceding the file name.
func (f Format) Match(path string) bool {
	name := strings.ToLower(filepath.Base(path))
	for _, ext := range f.exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Registry is the immutable table of known formats. It is built once at
// process start (see Default) and passed by reference to every component
// that needs format lookup.
type Registry struct {
	formats []Format
}

// NewRegistry builds a registry from the given formats.
func NewRegistry(formats ...Format) *Registry {
	return &Registry{formats: formats}
}

// Default returns the registry of the formats holdall knows about.
// Multi-part extensions such as .tar.gz are registered as distinct literal
// suffixes, so no precedence rule between formats is needed.
func Default() *Registry {
	return NewRegistry(
		New("Ar", ".ar", ".a", ".lib"),
		New("Cab", ".cab"),
		New("Cpio", ".cpio"),
		New("Lha", ".lha", ".lzh"),
		New("SevenZ", ".7z"),
		New("Rar", ".rar"),
		New("Tar", ".tar"),
		New("TarGz", ".tar.gz", ".tgz"),
		New("TarBz2", ".tar.bz2", ".tbz2"),
		New("TarXz", ".tar.xz", ".txz"),
		New("TarZstd", ".tar.zst", ".tzst", ".tar.zstd", ".tzstd"),
		New("Zip", ".zip", ".jar", ".war", ".ear"),
	)
}

// Formats returns a copy of the registry contents.
func (r *Registry) Formats() []Format {
	return append([]Format(nil), r.formats...)
}

// FindByName looks up a format by name, case-insensitively. Unknown names
// return nil, never an error.
func (r *Registry) FindByName(name string) *Format {
	name = strings.ToLower(name)
	for i := range r.formats {
		if strings.ToLower(r.formats[i].Name) == name {
			return &r.formats[i]
		}
	}
	return nil
}

// FindByExt looks up a format by a single extension. A missing leading dot
// is supplied, and matching is case-insensitive.
func (r *Registry) FindByExt(ext string) *Format {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	ext = strings.ToLower(ext)
	for i := range r.formats {
		for _, e := range r.formats[i].exts {
			if e == ext {
				return &r.formats[i]
			}
		}
	}
	return nil
}

// Detector maps a file path to a Format. A nil result means the format is
// unknown; detection failure is a normal outcome, not an error.
type Detector interface {
	Detect(path string) *Format
}

// ExtensionDetector detects a format from the file name's extension. This
// is the default strategy.
type ExtensionDetector struct {
	reg *Registry
}

// NewExtensionDetector returns the extension-based detector for reg.
func NewExtensionDetector(reg *Registry) *ExtensionDetector {
	return &ExtensionDetector{reg: reg}
}

// Detect returns the first registry format whose extension set matches the
// end of the path's file name.
func (d *ExtensionDetector) Detect(path string) *Format {
	for i := range d.reg.formats {
		if d.reg.formats[i].Match(path) {
			return &d.reg.formats[i]
		}
	}
	return nil
}

// FixedDetector ignores the path entirely and always reports a preset
// format. It backs the explicit format-override flag.
type FixedDetector struct {
	format *Format
}

// NewFixedDetector returns a detector that always reports f.
func NewFixedDetector(f *Format) *FixedDetector {
	return &FixedDetector{format: f}
}

// Detect returns the preset format.
func (d *FixedDetector) Detect(string) *Format {
	return d.format
}

// MatchAll reports whether every path detects as some format under d.
func MatchAll(paths []string, d Detector) bool {
	for _, p := range paths {
		if d.Detect(p) == nil {
			return false
		}
	}
	return true
}
