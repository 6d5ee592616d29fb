package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cavaliergopher/cpio"

	"github.com/odvcencio/holdall/pkg/errs"
)

type cpioArchiver struct{}

func (a *cpioArchiver) Perform(w io.Writer, targets []string, cfg *Config) ([]Entry, error) {
	cw := cpio.NewWriter(w)
	var entries []Entry
	var errors []error
	for _, path := range cfg.CollectEntries(targets) {
		if err := appendCpioEntry(cw, path, cfg); err != nil {
			errors = append(errors, err)
			continue
		}
		entries = append(entries, EntryFor(path))
	}
	if err := cw.Close(); err != nil {
		errors = append(errors, fmt.Errorf("cpio: %w", err))
	}
	return entries, errs.Combine(errors)
}

func (a *cpioArchiver) Enabled() bool {
	return true
}

func appendCpioEntry(cw *cpio.Writer, path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cpio: %s: %w", path, err)
	}
	hdr := &cpio.Header{
		Name:    filepath.ToSlash(cfg.PathInArchive(path)),
		Mode:    cpio.FileMode(info.Mode().Perm()),
		ModTime: info.ModTime(),
		Size:    info.Size(),
	}
	if err := cw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("cpio: %s: %w", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cpio: %s: %w", path, err)
	}
	defer f.Close()
	if _, err := io.Copy(cw, f); err != nil {
		return fmt.Errorf("cpio: %s: %w", path, err)
	}
	return nil
}
