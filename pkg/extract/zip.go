package extract

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
)

type zipExtractor struct{}

func (e *zipExtractor) List(archivePath string) (Entries, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("zip: %s: %w", archivePath, err)
	}
	defer zr.Close()

	var entries Entries
	for _, f := range zr.File {
		entries = append(entries, Entry{
			Name:           f.Name,
			CompressedSize: int64p(int64(f.CompressedSize64)),
			OriginalSize:   int64p(int64(f.UncompressedSize64)),
			UnixMode:       modep(f.Mode()),
			Date:           timep(f.Modified),
		})
	}
	return entries, nil
}

func (e *zipExtractor) Perform(archivePath, destDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("zip: %s: %w", archivePath, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		slog.Info("extracting", "name", f.Name, "size", f.UncompressedSize64)
		path, err := destPath(destDir, f.Name)
		if err != nil {
			return err
		}
		src, err := f.Open()
		if err != nil {
			return fmt.Errorf("zip: %s: %w", f.Name, err)
		}
		out, err := writeEntry(path, f.Mode().Perm())
		if err != nil {
			src.Close()
			return err
		}
		_, err = io.Copy(out, src)
		src.Close()
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("zip: %s: %w", f.Name, err)
		}
	}
	return nil
}
