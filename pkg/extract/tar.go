package extract

import (
	"archive/tar"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// wrapFunc layers a decompressor over the raw archive stream. The
// returned closer is nil when the layer needs no explicit close.
type wrapFunc func(r io.Reader) (io.Reader, func(), error)

type tarExtractor struct{}

func (e *tarExtractor) List(archivePath string) (Entries, error) {
	return listTar(archivePath, nopWrap)
}

func (e *tarExtractor) Perform(archivePath, destDir string) error {
	return extractTar(archivePath, destDir, nopWrap)
}

type tarGzExtractor struct{}

func (e *tarGzExtractor) List(archivePath string) (Entries, error) {
	return listTar(archivePath, gzWrap)
}

func (e *tarGzExtractor) Perform(archivePath, destDir string) error {
	return extractTar(archivePath, destDir, gzWrap)
}

type tarBz2Extractor struct{}

func (e *tarBz2Extractor) List(archivePath string) (Entries, error) {
	return listTar(archivePath, bz2Wrap)
}

func (e *tarBz2Extractor) Perform(archivePath, destDir string) error {
	return extractTar(archivePath, destDir, bz2Wrap)
}

type tarXzExtractor struct{}

func (e *tarXzExtractor) List(archivePath string) (Entries, error) {
	return listTar(archivePath, xzWrap)
}

func (e *tarXzExtractor) Perform(archivePath, destDir string) error {
	return extractTar(archivePath, destDir, xzWrap)
}

type tarZstdExtractor struct{}

func (e *tarZstdExtractor) List(archivePath string) (Entries, error) {
	return listTar(archivePath, zstdWrap)
}

func (e *tarZstdExtractor) Perform(archivePath, destDir string) error {
	return extractTar(archivePath, destDir, zstdWrap)
}

func nopWrap(r io.Reader) (io.Reader, func(), error) {
	return r, nil, nil
}

func gzWrap(r io.Reader) (io.Reader, func(), error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, nil, err
	}
	return gz, func() { gz.Close() }, nil
}

func bz2Wrap(r io.Reader) (io.Reader, func(), error) {
	bz, err := bzip2.NewReader(r, nil)
	if err != nil {
		return nil, nil, err
	}
	return bz, func() { bz.Close() }, nil
}

func xzWrap(r io.Reader) (io.Reader, func(), error) {
	xr, err := xz.NewReader(r)
	if err != nil {
		return nil, nil, err
	}
	return xr, nil, nil
}

func zstdWrap(r io.Reader) (io.Reader, func(), error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, nil, err
	}
	return zr.IOReadCloser(), func() { zr.Close() }, nil
}

func openTar(archivePath string, wrap wrapFunc) (*tar.Reader, func(), error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, nil, fmt.Errorf("tar: %w", err)
	}
	r, closeWrap, err := wrap(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("tar: %s: %w", archivePath, err)
	}
	closer := func() {
		if closeWrap != nil {
			closeWrap()
		}
		f.Close()
	}
	return tar.NewReader(r), closer, nil
}

func listTar(archivePath string, wrap wrapFunc) (Entries, error) {
	tr, closer, err := openTar(archivePath, wrap)
	if err != nil {
		return nil, err
	}
	defer closer()

	var entries Entries
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("tar: %s: %w", archivePath, err)
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

func extractTar(archivePath, destDir string, wrap wrapFunc) error {
	tr, closer, err := openTar(archivePath, wrap)
	if err != nil {
		return err
	}
	defer closer()

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("tar: %s: %w", archivePath, err)
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			path, err := destPath(destDir, hdr.Name)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(path, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			slog.Info("extracting", "name", hdr.Name, "size", hdr.Size)
			path, err := destPath(destDir, hdr.Name)
			if err != nil {
				return err
			}
			out, err := writeEntry(path, hdr.FileInfo().Mode().Perm())
			if err != nil {
				return err
			}
			_, err = io.Copy(out, tr)
			if cerr := out.Close(); cerr != nil && err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("tar: %s: %w", hdr.Name, err)
			}
		default:
			// Links and specials are not materialized.
			slog.Debug("skipping non-regular entry", "name", hdr.Name, "type", hdr.Typeflag)
		}
	}
	return nil
}
