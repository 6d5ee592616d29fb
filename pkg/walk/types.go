// Package walk performs ignore-aware directory traversal for archiving.
//
// A Walker descends a directory tree (or yields a single file root) while
// honoring a set of ignore policies: generic .ignore files, the three git
// exclusion tiers, and hidden-file skipping. Enumeration order is whatever
// the underlying file system yields; re-walking performs a fresh traversal.
package walk

import (
	"fmt"
	"strings"
)

// IgnoreType selects one ignore policy for traversal.
type IgnoreType int

const (
	Default    IgnoreType = iota // composite: expands to DotIgnore + the three git tiers
	Hidden                       // skip dot-files and dot-directories
	GitIgnore                    // respect .gitignore files
	GitGlobal                    // respect the user's global git excludes
	GitExclude                   // respect .git/info/exclude
	DotIgnore                    // respect generic .ignore files
)

var ignoreNames = map[IgnoreType]string{
	Default:    "default",
	Hidden:     "hidden",
	GitIgnore:  "git-ignore",
	GitGlobal:  "git-global",
	GitExclude: "git-exclude",
	DotIgnore:  "ignore",
}

func (t IgnoreType) String() string {
	if n, ok := ignoreNames[t]; ok {
		return n
	}
	return fmt.Sprintf("IgnoreType(%d)", int(t))
}

// ParseIgnoreType maps a CLI value to an IgnoreType. Matching is
// case-insensitive and tolerates omitted separators ("gitignore").
func ParseIgnoreType(s string) (IgnoreType, error) {
	normalize := func(v string) string {
		v = strings.ToLower(strings.TrimSpace(v))
		v = strings.ReplaceAll(v, "-", "")
		return strings.ReplaceAll(v, "_", "")
	}
	want := normalize(s)
	for t, n := range ignoreNames {
		if normalize(n) == want {
			return t, nil
		}
	}
	return Default, fmt.Errorf("%s: unknown ignore type", s)
}

// defaultExpansion is what the Default marker stands for.
var defaultExpansion = []IgnoreType{DotIgnore, GitIgnore, GitGlobal, GitExclude}

// Effective resolves a configured ignore list into the concrete set the
// Walker consumes. An empty list defaults to the Default expansion; a list
// containing Default is unioned with that expansion and the marker itself
// is dropped. The result is deduplicated and deterministically ordered,
// and never contains Default.
func Effective(types []IgnoreType) []IgnoreType {
	if len(types) == 0 {
		return append([]IgnoreType(nil), defaultExpansion...)
	}
	seen := map[IgnoreType]bool{}
	for _, t := range types {
		if t == Default {
			for _, d := range defaultExpansion {
				seen[d] = true
			}
			continue
		}
		seen[t] = true
	}
	// Fixed order keeps walks reproducible across runs.
	var r []IgnoreType
	for _, t := range []IgnoreType{Hidden, GitIgnore, GitGlobal, GitExclude, DotIgnore} {
		if seen[t] {
			r = append(r, t)
		}
	}
	return r
}
