package extract

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/blakesmith/ar"
)

type arExtractor struct{}

func (e *arExtractor) List(archivePath string) (Entries, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("ar: %w", err)
	}
	defer f.Close()

	var entries Entries
	r := ar.NewReader(f)
	for {
		hdr, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ar: %s: %w", archivePath, err)
		}
		entries = append(entries, Entry{
			Name:         arMemberName(hdr.Name),
			OriginalSize: int64p(hdr.Size),
			UnixMode:     modep(os.FileMode(hdr.Mode)),
			Date:         timep(hdr.ModTime),
		})
	}
	return entries, nil
}

func (e *arExtractor) Perform(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("ar: %w", err)
	}
	defer f.Close()

	r := ar.NewReader(f)
	for {
		hdr, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("ar: %s: %w", archivePath, err)
		}
		name := arMemberName(hdr.Name)
		slog.Info("extracting", "name", name, "size", hdr.Size)
		path, perr := destPath(destDir, name)
		if perr != nil {
			return perr
		}
		out, err := writeEntry(path, os.FileMode(hdr.Mode).Perm())
		if err != nil {
			return err
		}
		_, err = io.Copy(out, r)
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("ar: %s: %w", name, err)
		}
	}
	return nil
}

// arMemberName strips the padding and the GNU trailing slash from a raw
// ar member name.
func arMemberName(raw string) string {
	return strings.TrimSuffix(strings.TrimRight(raw, " "), "/")
}
