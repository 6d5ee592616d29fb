package extract

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/nwaples/rardecode/v2"
)

type rarExtractor struct{}

func (e *rarExtractor) List(archivePath string) (Entries, error) {
	r, err := rardecode.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("rar: %s: %w", archivePath, err)
	}
	defer r.Close()

	var entries Entries
	for {
		hdr, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("rar: %s: %w", archivePath, err)
		}
		entry := Entry{
			Name:     hdr.Name,
			UnixMode: modep(hdr.Mode()),
			Date:     timep(hdr.ModificationTime),
		}
		if !hdr.UnKnownSize {
			entry.OriginalSize = int64p(hdr.UnPackedSize)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (e *rarExtractor) Perform(archivePath, destDir string) error {
	r, err := rardecode.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("rar: %s: %w", archivePath, err)
	}
	defer r.Close()

	for {
		hdr, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("rar: %s: %w", archivePath, err)
		}
		if hdr.IsDir {
			continue
		}
		slog.Info("extracting", "name", hdr.Name)
		path, err := destPath(destDir, hdr.Name)
		if err != nil {
			return err
		}
		out, err := writeEntry(path, hdr.Mode().Perm())
		if err != nil {
			return err
		}
		_, err = io.Copy(out, r)
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("rar: %s: %w", hdr.Name, err)
		}
	}
	return nil
}
