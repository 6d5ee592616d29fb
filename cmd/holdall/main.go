package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/odvcencio/holdall/pkg/archive"
	"github.com/odvcencio/holdall/pkg/errs"
	"github.com/odvcencio/holdall/pkg/extract"
	"github.com/odvcencio/holdall/pkg/format"
	"github.com/odvcencio/holdall/pkg/walk"
	"github.com/spf13/cobra"
)

const version = "0.1.0-dev"

// options collects the flag values shared by the root command and its
// subcommands.
type options struct {
	output         string
	overwrite      bool
	level          int
	rebaseDir      string
	noRecursive    bool
	ignoreTypes    []string
	listFormat     string
	archiveNameDir bool
	detect         string
	logLevel       string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		printErrors(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "holdall [flags] [arguments...]",
		Short: "Archive and extract files in a dozen formats",
		Long: `holdall archives file-system paths into a compressed container, or
extracts and lists existing archives. Without a subcommand the mode is
chosen automatically: when every argument looks like an archive file the
arguments are extracted, otherwise they are archived.

Arguments '-' and '@<file>' expand to the lines read from stdin or the
named file. In archive mode the destination is the -o flag, or the first
argument when it carries an archive extension, or 'holdall.zip'.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := setupLogging(opts.logLevel); err != nil {
				return err
			}
			return applyRcFile(cmd, opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			targets, err := NormalizeArgs(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			reg := format.Default()
			d, err := detectorFor(reg, opts.detect)
			if err != nil {
				return err
			}
			if format.MatchAll(targets, d) {
				return runExtract(cmd, reg, targets, opts)
			}
			return runArchive(cmd, reg, targets, opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.output, "output", "o", "", "output file in archive mode, output directory in extract mode")
	pf.BoolVar(&opts.overwrite, "overwrite", false, "overwrite existing files")
	pf.IntVarP(&opts.level, "level", "L", 5, "compression level, 0 (none) to 9 (finest)")
	pf.StringVarP(&opts.rebaseDir, "dir", "C", "", "base directory recorded for archived entries")
	pf.BoolVarP(&opts.noRecursive, "no-recursive", "n", false, "archive only the immediate children of directory targets")
	pf.StringSliceVarP(&opts.ignoreTypes, "ignore-types", "i", nil, "ignore policies for traversal (default, hidden, git-ignore, git-global, git-exclude, ignore)")
	pf.BoolVar(&opts.archiveNameDir, "to-archive-name-dir", false, "extract into a subdirectory named after the archive file")
	pf.StringVar(&opts.detect, "detect", "auto", "format detection strategy: auto (extension), parse (magic number), or a format name")
	pf.StringVar(&opts.logLevel, "log", "warn", "log level: error, warn, info, or debug")

	root.AddCommand(newArchiveCmd(opts))
	root.AddCommand(newExtractCmd(opts))
	root.AddCommand(newListCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

func newArchiveCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <targets...>",
		Short: "Create an archive from files and directories",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := NormalizeArgs(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return runArchive(cmd, format.Default(), targets, opts)
		},
	}
}

func newExtractCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <archives...>",
		Short: "Extract archive files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := NormalizeArgs(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return runExtract(cmd, format.Default(), targets, opts)
		},
	}
}

func newListCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <archives...>",
		Short: "List the entries of archive files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := NormalizeArgs(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}
			return runList(cmd, format.Default(), targets, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.listFormat, "format", "f", "default", "listing format: default, long, json, pretty-json, or xml")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "holdall %s\n", version)
		},
	}
}

// runArchive resolves the destination, archives the remaining targets and
// prints the result summary.
func runArchive(cmd *cobra.Command, reg *format.Registry, targets []string, opts *options) error {
	dest := opts.output
	if dest == "" && len(targets) > 0 {
		if format.NewExtensionDetector(reg).Detect(targets[0]) != nil {
			dest, targets = targets[0], targets[1:]
		}
	}
	if dest == "" {
		dest = "holdall.zip"
	}
	ignores, err := parseIgnoreTypes(opts.ignoreTypes)
	if err != nil {
		return err
	}
	if opts.level < 0 || opts.level > 9 {
		return fmt.Errorf("%d: compression level must be between 0 and 9", opts.level)
	}
	cfg := &archive.Config{
		Dest:        dest,
		Level:       opts.level,
		RebaseDir:   opts.rebaseDir,
		Overwrite:   opts.overwrite,
		NoRecursive: opts.noRecursive,
		Ignore:      ignores,
	}
	result, err := archive.Archive(reg, targets, cfg)
	if err != nil {
		return err
	}
	printArchiveResult(result)
	return nil
}

// runExtract extracts every archive argument, folding per-archive failures
// into one result.
func runExtract(cmd *cobra.Command, reg *format.Registry, targets []string, opts *options) error {
	d, err := detectorFor(reg, opts.detect)
	if err != nil {
		return err
	}
	cfg := &extract.Config{
		Dest:              opts.output,
		Overwrite:         opts.overwrite,
		UseArchiveNameDir: opts.archiveNameDir,
		Detector:          d,
	}
	var failures []error
	for _, target := range targets {
		if _, err := os.Stat(target); err != nil {
			failures = append(failures, &errs.FileNotFound{Path: target})
			continue
		}
		if err := extract.Extract(reg, target, cfg); err != nil {
			failures = append(failures, err)
		}
	}
	return errs.Combine(failures)
}

// runList prints the entries of every archive argument in the requested
// output format.
func runList(cmd *cobra.Command, reg *format.Registry, targets []string, opts *options) error {
	f, err := extract.ParseOutputFormat(opts.listFormat)
	if err != nil {
		return err
	}
	d, err := detectorFor(reg, opts.detect)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	var failures []error
	for _, target := range targets {
		if _, err := os.Stat(target); err != nil {
			failures = append(failures, &errs.FileNotFound{Path: target})
			continue
		}
		entries, err := extract.List(reg, target, d)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		rendered, err := extract.Render(entries, f)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		fmt.Fprintln(out, rendered)
	}
	return errs.Combine(failures)
}

// detectorFor maps the --detect flag to a detection strategy: "auto" for
// the file extension, "parse" for the magic number, and any other value
// for a fixed, named format.
func detectorFor(reg *format.Registry, mode string) (format.Detector, error) {
	switch strings.ToLower(mode) {
	case "", "auto":
		return format.NewExtensionDetector(reg), nil
	case "parse":
		return format.NewMagicDetector(reg), nil
	default:
		f := reg.FindByName(mode)
		if f == nil {
			return nil, &errs.UnknownFormat{Name: mode}
		}
		return format.NewFixedDetector(f), nil
	}
}

func parseIgnoreTypes(names []string) ([]walk.IgnoreType, error) {
	var types []walk.IgnoreType
	for _, name := range names {
		t, err := walk.ParseIgnoreType(name)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}

func setupLogging(level string) error {
	var l slog.Level
	switch strings.ToLower(level) {
	case "error":
		l = slog.LevelError
	case "", "warn":
		l = slog.LevelWarn
	case "info":
		l = slog.LevelInfo
	case "debug":
		l = slog.LevelDebug
	default:
		return fmt.Errorf("%s: unknown log level", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}
