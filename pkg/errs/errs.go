// Package errs defines the typed errors shared by archiving and
// extraction, and the protocol for collapsing per-entry failures from a
// batch operation into a single result.
package errs

import (
	"fmt"

	"go.uber.org/multierr"
)

// UnknownFormat reports a format name with no registered handler.
type UnknownFormat struct {
	Name string
}

func (e *UnknownFormat) Error() string {
	return fmt.Sprintf("%s: unknown format", e.Name)
}

// UnsupportedFormat reports a recognized format whose codec is disabled
// for the requested operation (e.g. rar creation).
type UnsupportedFormat struct {
	Name string
	Op   string
}

func (e *UnsupportedFormat) Error() string {
	return fmt.Sprintf("%s: unsupported format (%s)", e.Name, e.Op)
}

// NoDetect reports that no format could be detected for a path at all.
type NoDetect struct {
	Path string
	Op   string
}

func (e *NoDetect) Error() string {
	return fmt.Sprintf("%s: no suitable %s", e.Path, e.Op)
}

// FileExists reports a destination file that already exists and overwrite
// was not requested.
type FileExists struct {
	Path string
}

func (e *FileExists) Error() string {
	return fmt.Sprintf("%s: file already exists", e.Path)
}

// DirExists reports an extraction destination directory that already
// exists and overwrite was not requested.
type DirExists struct {
	Path string
}

func (e *DirExists) Error() string {
	return fmt.Sprintf("%s: directory already exists", e.Path)
}

// DestIsDir reports an archive destination that is an existing directory
// where a file was expected.
type DestIsDir struct {
	Path string
}

func (e *DestIsDir) Error() string {
	return fmt.Sprintf("%s: destination is a directory", e.Path)
}

// FileNotFound reports a named input that does not exist.
type FileNotFound struct {
	Path string
}

func (e *FileNotFound) Error() string {
	return fmt.Sprintf("%s: file not found", e.Path)
}

// Combine collapses the failures of a batch operation: no errors yields
// nil, a single error is returned as-is (never wrapped), and two or more
// become one composite preserving input order. Composites nest when a
// batch member was itself a batch.
func Combine(errors []error) error {
	return multierr.Combine(errors...)
}

// Flatten recursively expands composite errors into their leaves, in
// order. A nil error yields nil; a plain error yields itself.
func Flatten(err error) []error {
	if err == nil {
		return nil
	}
	parts := multierr.Errors(err)
	if len(parts) == 1 {
		return parts
	}
	var leaves []error
	for _, p := range parts {
		leaves = append(leaves, Flatten(p)...)
	}
	return leaves
}
