package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/odvcencio/holdall/pkg/archive"
	"github.com/odvcencio/holdall/pkg/errs"
)

// printArchiveResult prints the size summary of a finished archiving
// operation. The summary is informational, so it honors the log level.
func printArchiveResult(result *archive.Entries) {
	if !slog.Default().Enabled(context.Background(), slog.LevelInfo) {
		return
	}
	total := result.Total()
	var rate float64
	if total > 0 {
		rate = float64(result.Compressed) / float64(total) * 100.0
	}
	fmt.Printf("archived: %s (%d entries, %10s / %10s, %.2f%%)\n",
		result.ArchiveFile,
		result.Len(),
		humanize.Bytes(uint64(result.Compressed)),
		humanize.Bytes(uint64(total)),
		rate)
}

// printErrors writes every leaf of a possibly-aggregated error on its own
// line.
func printErrors(w io.Writer, err error) {
	for _, leaf := range errs.Flatten(err) {
		fmt.Fprintln(w, leaf)
	}
}
