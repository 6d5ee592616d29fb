// Package archive creates compressed containers from file-system paths.
//
// The byte-level encoding of each format lives in a codec implementing the
// Archiver interface; this package selects the codec from the destination
// file name, validates the destination, traverses the targets and folds
// per-entry failures into one result. Lha, rar, cab and 7z codecs report
// themselves disabled for creation.
package archive

import (
	"io"
	"os"
	"path/filepath"

	"github.com/odvcencio/holdall/pkg/errs"
	"github.com/odvcencio/holdall/pkg/format"
)

// Entry records one file stored into the resultant archive.
type Entry struct {
	// Path is the source path of the entry.
	Path string
	// Size is the original file size.
	Size int64
}

// EntryFor builds an Entry from a source path, reading its size from the
// file system. An unreadable file records size zero.
func EntryFor(path string) Entry {
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}
	return Entry{Path: path, Size: size}
}

// Entries is the result of one archiving operation.
type Entries struct {
	ArchiveFile string
	Entries     []Entry
	// Compressed is the resultant file size.
	Compressed int64
}

// Total returns the summed original size of the entries.
func (e *Entries) Total() int64 {
	var total int64
	for _, entry := range e.Entries {
		total += entry.Size
	}
	return total
}

// Len returns the number of entries.
func (e *Entries) Len() int {
	return len(e.Entries)
}

// IsEmpty reports whether no entries were archived.
func (e *Entries) IsEmpty() bool {
	return len(e.Entries) == 0
}

// Archiver is the codec handle for creating one archive format.
type Archiver interface {
	// Perform writes the archive of targets to w under cfg, returning the
	// entries stored. Per-entry failures are collected, not escalated.
	Perform(w io.Writer, targets []string, cfg *Config) ([]Entry, error)
	// Enabled reports whether this codec supports creation at all.
	Enabled() bool
}

// archivers maps a format name to its creation codec.
func archivers() map[string]Archiver {
	return map[string]Archiver{
		"Ar":      &arArchiver{},
		"Cab":     &readOnlyArchiver{name: "Cab"},
		"Cpio":    &cpioArchiver{},
		"Lha":     &readOnlyArchiver{name: "Lha"},
		"Rar":     &readOnlyArchiver{name: "Rar"},
		"SevenZ":  &readOnlyArchiver{name: "SevenZ"},
		"Tar":     &tarArchiver{},
		"TarBz2":  &tarBz2Archiver{},
		"TarGz":   &tarGzArchiver{},
		"TarXz":   &tarXzArchiver{},
		"TarZstd": &tarZstdArchiver{},
		"Zip":     &zipArchiver{},
	}
}

// For resolves the creation codec for a destination file name, using the
// default extension detector against reg. Unknown extensions are a
// dispatch failure; a recognized format without a creation codec fails
// with UnsupportedFormat.
func For(reg *format.Registry, dest string) (Archiver, error) {
	f := format.NewExtensionDetector(reg).Detect(dest)
	if f == nil {
		return nil, &errs.NoDetect{Path: filepath.Base(dest), Op: "archiver"}
	}
	a, ok := archivers()[f.Name]
	if !ok {
		return nil, &errs.UnknownFormat{Name: f.Name}
	}
	if !a.Enabled() {
		return nil, &errs.UnsupportedFormat{Name: f.Name, Op: "archiving"}
	}
	return a, nil
}

// Archive creates cfg.Dest from the target paths. The destination is
// validated and the codec resolved before any byte is written; a missing
// parent directory is created.
func Archive(reg *format.Registry, targets []string, cfg *Config) (*Entries, error) {
	dest, err := cfg.DestFile()
	if err != nil {
		return nil, err
	}
	archiver, err := For(reg, dest)
	if err != nil {
		return nil, err
	}
	if parent := filepath.Dir(dest); parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, err
		}
	}
	out, err := os.Create(dest)
	if err != nil {
		return nil, err
	}
	entries, perr := archiver.Perform(out, targets, cfg)
	if cerr := out.Close(); cerr != nil && perr == nil {
		perr = cerr
	}
	if perr != nil {
		return nil, perr
	}
	var compressed int64
	if info, err := os.Stat(dest); err == nil {
		compressed = info.Size()
	}
	return &Entries{ArchiveFile: dest, Entries: entries, Compressed: compressed}, nil
}

// readOnlyArchiver stands in for formats holdall can extract (or at least
// recognize) but not create.
type readOnlyArchiver struct {
	name string
}

func (a *readOnlyArchiver) Perform(io.Writer, []string, *Config) ([]Entry, error) {
	return nil, &errs.UnsupportedFormat{Name: a.name, Op: "archiving"}
}

func (a *readOnlyArchiver) Enabled() bool {
	return false
}
