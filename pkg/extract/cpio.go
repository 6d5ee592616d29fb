package extract

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cavaliergopher/cpio"
)

type cpioExtractor struct{}

func (e *cpioExtractor) List(archivePath string) (Entries, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("cpio: %w", err)
	}
	defer f.Close()

	var entries Entries
	cr := cpio.NewReader(f)
	for {
		hdr, err := cr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cpio: %s: %w", archivePath, err)
		}
		entries = append(entries, Entry{
			Name:         hdr.Name,
			OriginalSize: int64p(hdr.Size),
			UnixMode:     modep(hdr.FileInfo().Mode()),
			Date:         timep(hdr.ModTime),
		})
	}
	return entries, nil
}

func (e *cpioExtractor) Perform(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("cpio: %w", err)
	}
	defer f.Close()

	cr := cpio.NewReader(f)
	for {
		hdr, err := cr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("cpio: %s: %w", archivePath, err)
		}
		info := hdr.FileInfo()
		path, perr := destPath(destDir, hdr.Name)
		if perr != nil {
			return perr
		}
		if info.IsDir() {
			if err := os.MkdirAll(path, 0o755); err != nil {
				return err
			}
			continue
		}
		if !info.Mode().IsRegular() {
			slog.Debug("skipping non-regular entry", "name", hdr.Name)
			continue
		}
		slog.Info("extracting", "name", hdr.Name, "size", hdr.Size)
		out, err := writeEntry(path, info.Mode().Perm())
		if err != nil {
			return err
		}
		_, err = io.Copy(out, cr)
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("cpio: %s: %w", hdr.Name, err)
		}
	}
	return nil
}
