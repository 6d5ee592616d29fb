package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"github.com/odvcencio/holdall/pkg/errs"
)

type tarArchiver struct{}

func (a *tarArchiver) Perform(w io.Writer, targets []string, cfg *Config) ([]Entry, error) {
	return writeTar(w, targets, cfg)
}

func (a *tarArchiver) Enabled() bool {
	return true
}

type tarGzArchiver struct{}

func (a *tarGzArchiver) Perform(w io.Writer, targets []string, cfg *Config) ([]Entry, error) {
	gz, err := gzip.NewWriterLevel(w, cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("tar.gz: %w", err)
	}
	entries, terr := writeTar(gz, targets, cfg)
	if err := gz.Close(); err != nil && terr == nil {
		terr = fmt.Errorf("tar.gz: %w", err)
	}
	return entries, terr
}

func (a *tarGzArchiver) Enabled() bool {
	return true
}

type tarBz2Archiver struct{}

func (a *tarBz2Archiver) Perform(w io.Writer, targets []string, cfg *Config) ([]Entry, error) {
	level := cfg.Level
	if level < bzip2.BestSpeed {
		level = bzip2.BestSpeed
	}
	bz, err := bzip2.NewWriter(w, &bzip2.WriterConfig{Level: level})
	if err != nil {
		return nil, fmt.Errorf("tar.bz2: %w", err)
	}
	entries, terr := writeTar(bz, targets, cfg)
	if err := bz.Close(); err != nil && terr == nil {
		terr = fmt.Errorf("tar.bz2: %w", err)
	}
	return entries, terr
}

func (a *tarBz2Archiver) Enabled() bool {
	return true
}

type tarXzArchiver struct{}

func (a *tarXzArchiver) Perform(w io.Writer, targets []string, cfg *Config) ([]Entry, error) {
	// The xz writer has no dial for the 0-9 level; it always uses its
	// default preset.
	xw, err := xz.NewWriter(w)
	if err != nil {
		return nil, fmt.Errorf("tar.xz: %w", err)
	}
	entries, terr := writeTar(xw, targets, cfg)
	if err := xw.Close(); err != nil && terr == nil {
		terr = fmt.Errorf("tar.xz: %w", err)
	}
	return entries, terr
}

func (a *tarXzArchiver) Enabled() bool {
	return true
}

type tarZstdArchiver struct{}

func (a *tarZstdArchiver) Perform(w io.Writer, targets []string, cfg *Config) ([]Entry, error) {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(cfg.Level)))
	if err != nil {
		return nil, fmt.Errorf("tar.zst: %w", err)
	}
	entries, terr := writeTar(zw, targets, cfg)
	if err := zw.Close(); err != nil && terr == nil {
		terr = fmt.Errorf("tar.zst: %w", err)
	}
	return entries, terr
}

func (a *tarZstdArchiver) Enabled() bool {
	return true
}

// writeTar stores every collected file into a tar stream on w. Failures on
// individual files are collected and the rest of the batch continues.
func writeTar(w io.Writer, targets []string, cfg *Config) ([]Entry, error) {
	tw := tar.NewWriter(w)
	var entries []Entry
	var errors []error
	for _, path := range cfg.CollectEntries(targets) {
		if err := appendTarEntry(tw, path, cfg); err != nil {
			errors = append(errors, err)
			continue
		}
		entries = append(entries, EntryFor(path))
	}
	if err := tw.Close(); err != nil {
		errors = append(errors, fmt.Errorf("tar: %w", err))
	}
	return entries, errs.Combine(errors)
}

func appendTarEntry(tw *tar.Writer, path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("tar: %s: %w", path, err)
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("tar: %s: %w", path, err)
	}
	hdr.Name = filepath.ToSlash(cfg.PathInArchive(path))
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("tar: %s: %w", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("tar: %s: %w", path, err)
	}
	defer f.Close()
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("tar: %s: %w", path, err)
	}
	return nil
}
