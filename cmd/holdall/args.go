package main

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/odvcencio/holdall/pkg/errs"
)

// NormalizeArgs expands the argument list: "-" is replaced by the lines
// read from stdin and "@<file>" by the lines of the named file. Blank
// lines and lines starting with '#' are dropped. Expansion failures are
// collected across all arguments and folded into one error.
func NormalizeArgs(stdin io.Reader, args []string) ([]string, error) {
	var result []string
	var failures []error
	for _, arg := range args {
		expanded, err := expandArg(stdin, arg)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		result = append(result, expanded...)
	}
	if err := errs.Combine(failures); err != nil {
		return nil, err
	}
	return result, nil
}

func expandArg(stdin io.Reader, arg string) ([]string, error) {
	if arg == "-" {
		return readLines(stdin), nil
	}
	if name, ok := strings.CutPrefix(arg, "@"); ok {
		f, err := os.Open(name)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, &errs.FileNotFound{Path: name}
			}
			return nil, err
		}
		defer f.Close()
		return readLines(f), nil
	}
	return []string{arg}, nil
}

func readLines(r io.Reader) []string {
	var lines []string
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
