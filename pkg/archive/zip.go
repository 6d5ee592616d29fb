package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/flate"

	"github.com/odvcencio/holdall/pkg/errs"
)

type zipArchiver struct{}

func (a *zipArchiver) Perform(w io.Writer, targets []string, cfg *Config) ([]Entry, error) {
	zw := zip.NewWriter(w)
	level := cfg.Level
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, level)
	})

	method := uint16(zip.Deflate)
	if cfg.Level == 0 {
		method = zip.Store
	}

	var entries []Entry
	var errors []error
	for _, path := range cfg.CollectEntries(targets) {
		if err := appendZipEntry(zw, path, method, cfg); err != nil {
			errors = append(errors, err)
			continue
		}
		entries = append(entries, EntryFor(path))
	}
	if err := zw.Close(); err != nil {
		errors = append(errors, fmt.Errorf("zip: %w", err))
	}
	return entries, errs.Combine(errors)
}

func (a *zipArchiver) Enabled() bool {
	return true
}

func appendZipEntry(zw *zip.Writer, path string, method uint16, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("zip: %s: %w", path, err)
	}
	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("zip: %s: %w", path, err)
	}
	hdr.Name = filepath.ToSlash(cfg.PathInArchive(path))
	hdr.Method = method
	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("zip: %s: %w", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("zip: %s: %w", path, err)
	}
	defer f.Close()
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("zip: %s: %w", path, err)
	}
	return nil
}
