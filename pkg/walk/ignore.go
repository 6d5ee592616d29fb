package walk

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// checker holds the patterns parsed from one ignore file. Paths are
// matched relative to the directory the file was found in.
type checker struct {
	patterns []ignorePattern
}

type ignorePattern struct {
	pattern  string
	negated  bool
	dirOnly  bool
	hasSlash bool // pattern contains a slash, so match against full path
	regex    *regexp.Regexp
}

// loadChecker parses the ignore file at path. A missing or unreadable file
// yields nil: an absent ignore file disables nothing.
func loadChecker(path string) *checker {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	c := &checker{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if p := parseLine(scanner.Text()); p != nil {
			c.patterns = append(c.patterns, *p)
		}
	}
	if len(c.patterns) == 0 {
		return nil
	}
	return c
}

// parseLine parses a single ignore-file line. Returns nil if the line is
// empty or a comment.
func parseLine(line string) *ignorePattern {
	line = strings.TrimRight(line, " \t")
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	p := &ignorePattern{}

	// Negation: lines starting with ! un-ignore a pattern.
	if strings.HasPrefix(line, "!") {
		p.negated = true
		line = line[1:]
	}

	// Directory-only: lines ending with / match directories only.
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimRight(line, "/")
	}

	// A leading slash anchors the pattern at the ignore file's directory.
	line = strings.TrimPrefix(line, "/")

	// If the pattern contains a slash, match against the full relative path.
	p.hasSlash = strings.Contains(line, "/")

	p.pattern = line
	if strings.Contains(line, "**") {
		if re, err := regexp.Compile(globToRegex(line)); err == nil {
			p.regex = re
		}
	}
	return p
}

// isIgnored checks whether a path, relative to the checker's directory and
// using forward slashes, should be ignored.
//
// Last matching pattern wins (to support negation).
func (c *checker) isIgnored(path string, isDir bool) bool {
	ignored := false
	for i := range c.patterns {
		if c.patterns[i].matches(path, isDir) {
			ignored = !c.patterns[i].negated
		}
	}
	return ignored
}

// matches checks if the given relative path matches this ignore pattern.
func (p *ignorePattern) matches(path string, isDir bool) bool {
	if p.hasSlash {
		// Pattern contains a slash: match against the full relative path,
		// or against any ancestor directory of it.
		if p.match(path) {
			return isDir || !p.dirOnly
		}
		for i := 0; i < len(path); i++ {
			if path[i] == '/' && p.match(path[:i]) {
				return true
			}
		}
		return false
	}

	// Pattern without a slash: match against any path segment. A dir-only
	// pattern must not match the final segment of a file path.
	segs := strings.Split(path, "/")
	for i, seg := range segs {
		if p.match(seg) {
			if p.dirOnly && !isDir && i == len(segs)-1 {
				continue
			}
			return true
		}
	}
	return false
}

func (p *ignorePattern) match(target string) bool {
	if p.regex != nil {
		return p.regex.MatchString(target)
	}
	matched, _ := filepath.Match(p.pattern, target)
	return matched
}

func globToRegex(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		if ch == '*' {
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				if i+2 < len(pattern) && pattern[i+2] == '/' {
					// Globstar directory segment: match zero or more path segments.
					b.WriteString("(?:.*/)?")
					i += 2
				} else {
					b.WriteString(".*")
					i++
				}
				continue
			}
			b.WriteString("[^/]*")
			continue
		}
		if ch == '?' {
			b.WriteString("[^/]")
			continue
		}
		if strings.ContainsRune(`.+()|[]{}^$\\`, rune(ch)) {
			b.WriteByte('\\')
		}
		b.WriteByte(ch)
	}
	b.WriteString("$")
	return b.String()
}
