package format

import (
	"log/slog"

	"github.com/gabriel-vasile/mimetype"
)

// mediaTypes maps the media type reported by file-signature sniffing to a
// registry format name. Gzip, bzip2, xz and zstd streams are reported as
// their tar-wrapped formats: a signature read cannot distinguish a bare
// .gz from a .tar.gz.
var mediaTypes = map[string]string{
	"application/x-archive":             "Ar",
	"application/vnd.ms-cab-compressed": "Cab",
	"application/x-cab":                 "Cab",
	"application/x-cpio":                "Cpio",
	"application/x-lzh":                 "Lha",
	"application/x-lha":                 "Lha",
	"application/x-7z-compressed":       "SevenZ",
	"application/x-rar-compressed":      "Rar",
	"application/vnd.rar":               "Rar",
	"application/x-tar":                 "Tar",
	"application/gzip":                  "TarGz",
	"application/x-bzip2":               "TarBz2",
	"application/x-xz":                  "TarXz",
	"application/zstd":                  "TarZstd",
	"application/zip":                   "Zip",
	"application/jar":                   "Zip",
	"application/java-archive":          "Zip",
}

// MagicDetector detects a format by a bounded read of the file's leading
// bytes. It is the only detector with an observable side effect (the read).
type MagicDetector struct {
	reg *Registry
}

// NewMagicDetector returns the magic-number detector for reg.
func NewMagicDetector(reg *Registry) *MagicDetector {
	return &MagicDetector{reg: reg}
}

// Detect sniffs the file signature of path and resolves the reported media
// type through the registry. Any read failure, absent signature, or
// unmapped media type is logged and yields nil.
func (d *MagicDetector) Detect(path string) *Format {
	mime, err := mimetype.DetectFile(path)
	if err != nil {
		slog.Error("failed to read file for format detection", "path", path, "error", err)
		return nil
	}
	name, ok := mediaTypes[mime.String()]
	if !ok {
		slog.Error("unknown file format detected by magic number", "path", path, "media-type", mime.String())
		return nil
	}
	return d.reg.FindByName(name)
}
