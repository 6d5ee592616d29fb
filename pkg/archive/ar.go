package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/blakesmith/ar"

	"github.com/odvcencio/holdall/pkg/errs"
)

type arArchiver struct{}

func (a *arArchiver) Perform(w io.Writer, targets []string, cfg *Config) ([]Entry, error) {
	aw := ar.NewWriter(w)
	if err := aw.WriteGlobalHeader(); err != nil {
		return nil, fmt.Errorf("ar: %w", err)
	}
	var entries []Entry
	var errors []error
	for _, path := range cfg.CollectEntries(targets) {
		if err := appendArEntry(aw, path); err != nil {
			errors = append(errors, err)
			continue
		}
		entries = append(entries, EntryFor(path))
	}
	return entries, errs.Combine(errors)
}

func (a *arArchiver) Enabled() bool {
	return true
}

func appendArEntry(aw *ar.Writer, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("ar: %s: %w", path, err)
	}
	// The ar header stores flat 16-byte member names; only the base name
	// is recorded.
	hdr := &ar.Header{
		Name:    filepath.Base(path),
		ModTime: info.ModTime(),
		Mode:    int64(info.Mode().Perm()),
		Size:    info.Size(),
	}
	if err := aw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("ar: %s: %w", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("ar: %s: %w", path, err)
	}
	defer f.Close()
	if _, err := io.Copy(aw, f); err != nil {
		return fmt.Errorf("ar: %s: %w", path, err)
	}
	return nil
}
