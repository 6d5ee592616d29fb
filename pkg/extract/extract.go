// Package extract lists and materializes the contents of archive files.
//
// Format detection is pluggable: the configured detector maps the archive
// path to a format, and CreateWith resolves the codec handle for it. Every
// registered format resolves a handle for extraction; cab and lha handles
// exist but report the operation unsupported (no Go decoder).
package extract

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/odvcencio/holdall/pkg/errs"
	"github.com/odvcencio/holdall/pkg/format"
)

// Mode holds POSIX permission bits. It serializes as an octal string in
// JSON and XML.
type Mode uint32

func (m Mode) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatUint(uint64(m), 8))), nil
}

func (m Mode) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return e.EncodeElement(strconv.FormatUint(uint64(m), 8), start)
}

// Entry describes one member of an archive file. Only the name is always
// present; sizes, permissions and timestamp depend on what the container
// records.
type Entry struct {
	Name           string     `json:"name" xml:"name"`
	CompressedSize *int64     `json:"compressed_size,omitempty" xml:"compressed_size,omitempty"`
	OriginalSize   *int64     `json:"original_size,omitempty" xml:"original_size,omitempty"`
	UnixMode       *Mode      `json:"unix_mode,omitempty" xml:"unix_mode,omitempty"`
	Date           *time.Time `json:"date,omitempty" xml:"date,omitempty"`
}

func (e Entry) String() string {
	return e.Name
}

// Entries is the listing of one archive file.
type Entries []Entry

// Extractor is the codec handle for one archive format's extraction side.
type Extractor interface {
	// List returns the entries of the archive file without materializing
	// them.
	List(archivePath string) (Entries, error)
	// Perform extracts the archive file into destDir.
	Perform(archivePath, destDir string) error
}

// extractors maps a format name to its extraction codec.
func extractors() map[string]Extractor {
	return map[string]Extractor{
		"Ar":      &arExtractor{},
		"Cab":     &unsupportedExtractor{name: "Cab"},
		"Cpio":    &cpioExtractor{},
		"Lha":     &unsupportedExtractor{name: "Lha"},
		"Rar":     &rarExtractor{},
		"SevenZ":  &sevenZExtractor{},
		"Tar":     &tarExtractor{},
		"TarBz2":  &tarBz2Extractor{},
		"TarGz":   &tarGzExtractor{},
		"TarXz":   &tarXzExtractor{},
		"TarZstd": &tarZstdExtractor{},
		"Zip":     &zipExtractor{},
	}
}

// CreateWith resolves the extraction codec for an already-detected format.
// A nil format is a dispatch failure; an unrecognized name is
// UnknownFormat.
func CreateWith(path string, f *format.Format) (Extractor, error) {
	if f == nil {
		return nil, &errs.NoDetect{Path: path, Op: "extractor"}
	}
	ex, ok := extractors()[f.Name]
	if !ok {
		return nil, &errs.UnknownFormat{Name: f.Name}
	}
	return ex, nil
}

// Config describes one extraction (or listing) operation. Read-only for
// the operation's duration.
type Config struct {
	// Dest is the base destination directory. Empty means the current
	// directory.
	Dest string
	// Overwrite allows extracting over an existing destination.
	Overwrite bool
	// UseArchiveNameDir places the output under a subdirectory named
	// after the archive file's stem.
	UseArchiveNameDir bool
	// Detector chooses the format-detection strategy. Nil means the
	// default extension detector.
	Detector format.Detector
}

// ResolveDest computes and validates the destination directory for an
// archive file. With UseArchiveNameDir the archive's stem (or the literal
// "archive" when no stem can be derived) is appended. An existing
// destination without Overwrite fails with DirExists, except for "." and
// ".." which are always accepted.
func (c *Config) ResolveDest(archiveFile string) (string, error) {
	base := c.Dest
	if base == "" {
		base = "."
	}
	dest := base
	if c.UseArchiveNameDir {
		dest = filepath.Join(base, archiveStem(archiveFile))
	}
	if _, err := os.Stat(dest); err == nil && !c.Overwrite {
		if dest == "." || dest == ".." {
			return dest, nil
		}
		return "", &errs.DirExists{Path: dest}
	}
	return dest, nil
}

// archiveStem returns the archive file name without its final extension,
// or "archive" when nothing usable remains.
func archiveStem(archiveFile string) string {
	base := filepath.Base(archiveFile)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return "archive"
	}
	return stem
}

// Extractor resolves the codec handle for archiveFile using this
// configuration's detector.
func (c *Config) Extractor(reg *format.Registry, archiveFile string) (Extractor, error) {
	d := c.Detector
	if d == nil {
		d = format.NewExtensionDetector(reg)
	}
	return CreateWith(archiveFile, d.Detect(archiveFile))
}

// Extract materializes archiveFile under the configuration's resolved
// destination. Destination validation and codec resolution happen before
// any byte is read.
func Extract(reg *format.Registry, archiveFile string, cfg *Config) error {
	dest, err := cfg.ResolveDest(archiveFile)
	if err != nil {
		return err
	}
	ex, err := cfg.Extractor(reg, archiveFile)
	if err != nil {
		return err
	}
	return ex.Perform(archiveFile, dest)
}

// List returns the entries of archiveFile using the given detector (nil
// for the default extension detector).
func List(reg *format.Registry, archiveFile string, d format.Detector) (Entries, error) {
	if d == nil {
		d = format.NewExtensionDetector(reg)
	}
	ex, err := CreateWith(archiveFile, d.Detect(archiveFile))
	if err != nil {
		return nil, err
	}
	return ex.List(archiveFile)
}

// destPath joins an entry name onto the destination directory, refusing
// absolute names and names that would escape the destination.
func destPath(destDir, name string) (string, error) {
	name = filepath.FromSlash(name)
	if filepath.IsAbs(name) || !filepath.IsLocal(name) {
		return "", fmt.Errorf("%s: entry escapes the destination", name)
	}
	return filepath.Join(destDir, name), nil
}

// writeEntry creates the file for one extracted entry, making parent
// directories as needed.
func writeEntry(path string, mode os.FileMode) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if mode == 0 {
		mode = 0o644
	}
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
}

func int64p(v int64) *int64 {
	return &v
}

func modep(m os.FileMode) *Mode {
	mode := Mode(m.Perm())
	return &mode
}

func timep(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
