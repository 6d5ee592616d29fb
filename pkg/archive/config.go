package archive

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/odvcencio/holdall/pkg/errs"
	"github.com/odvcencio/holdall/pkg/walk"
)

// Config describes one archiving operation. It is created once per
// invocation and read-only for the operation's duration.
type Config struct {
	// Dest is the destination archive file.
	Dest string
	// Level is the compression level, 0 (none) to 9 (finest).
	Level int
	// RebaseDir, when non-empty, prefixes every entry's stored path.
	RebaseDir string
	// Overwrite allows replacing an existing destination file.
	Overwrite bool
	// NoRecursive bounds traversal to each target's immediate children.
	NoRecursive bool
	// Ignore lists the ignore policies for traversal. Empty means the
	// default set.
	Ignore []walk.IgnoreType
}

// DestFile validates the destination eagerly, before any bytes are
// written. An existing file without Overwrite fails with FileExists; an
// existing directory fails with DestIsDir regardless of Overwrite.
func (c *Config) DestFile() (string, error) {
	info, err := os.Stat(c.Dest)
	if err != nil {
		return c.Dest, nil // not existing (or not statable) is fine here
	}
	if !info.IsDir() && !c.Overwrite {
		return "", &errs.FileExists{Path: c.Dest}
	}
	if info.IsDir() {
		return "", &errs.DestIsDir{Path: c.Dest}
	}
	return c.Dest, nil
}

// PathInArchive returns the path recorded inside the container for a
// source file: RebaseDir joined in front when set, the source path
// unchanged otherwise.
func (c *Config) PathInArchive(path string) string {
	if c.RebaseDir == "" {
		return path
	}
	return filepath.Join(c.RebaseDir, path)
}

// IgnoreTypes resolves the configured ignore list into the effective set.
func (c *Config) IgnoreTypes() []walk.IgnoreType {
	return walk.Effective(c.Ignore)
}

// Walker builds the traversal for this configuration.
func (c *Config) Walker() *walk.Walker {
	return walk.New(c.Ignore, c.NoRecursive)
}

// CollectEntries walks every target under this configuration's ignore set
// and returns the regular files found, in walk order. Unreadable targets
// are logged and skipped; archiving continues with the rest.
func (c *Config) CollectEntries(targets []string) []string {
	w := c.Walker()
	var r []string
	for _, target := range targets {
		err := w.Walk(target, func(path string, d fs.DirEntry) error {
			if d.Type().IsRegular() {
				r = append(r, path)
			}
			return nil
		})
		if err != nil {
			slog.Warn("skipping unreadable target", "target", target, "error", err)
		}
	}
	return r
}
