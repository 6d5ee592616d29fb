package extract

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/bodgit/sevenzip"
)

type sevenZExtractor struct{}

func (e *sevenZExtractor) List(archivePath string) (Entries, error) {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("7z: %s: %w", archivePath, err)
	}
	defer r.Close()

	var entries Entries
	for _, f := range r.File {
		info := f.FileInfo()
		entry := Entry{
			Name:     f.Name,
			UnixMode: modep(info.Mode()),
			Date:     timep(f.Modified),
		}
		if !info.IsDir() {
			entry.OriginalSize = int64p(info.Size())
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (e *sevenZExtractor) Perform(archivePath, destDir string) error {
	r, err := sevenzip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("7z: %s: %w", archivePath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		slog.Info("extracting", "name", f.Name)
		path, err := destPath(destDir, f.Name)
		if err != nil {
			return err
		}
		src, err := f.Open()
		if err != nil {
			return fmt.Errorf("7z: %s: %w", f.Name, err)
		}
		out, err := writeEntry(path, f.FileInfo().Mode().Perm())
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
			return fmt.Errorf("7z: %s: %w", f.Name, err)
		}
	}
	return nil
}
