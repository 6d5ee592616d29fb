package walk

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// WalkFunc is invoked for every surviving entry. Returning an error aborts
// the walk and propagates the error.
type WalkFunc func(path string, d fs.DirEntry) error

// Walker traverses directory trees under a resolved set of ignore
// policies. A Walker is read-only after construction; each Walk call
// performs a fresh traversal.
type Walker struct {
	types       map[IgnoreType]bool
	noRecursive bool
	global      *checker // user-global git excludes, loaded once
}

// New builds a Walker for the given configured ignore types (resolved
// through Effective). When noRecursive is set, descent is bounded to the
// immediate children of each root.
func New(types []IgnoreType, noRecursive bool) *Walker {
	w := &Walker{
		types:       map[IgnoreType]bool{},
		noRecursive: noRecursive,
	}
	for _, t := range Effective(types) {
		w.types[t] = true
	}
	if w.types[GitGlobal] {
		w.global = loadChecker(globalExcludesPath())
	}
	return w
}

// globalExcludesPath returns the conventional location of the user's
// global git excludes file.
func globalExcludesPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "git", "ignore")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "git", "ignore")
}

// scope binds a checker to the directory its ignore file was found in.
type scope struct {
	dir     string // absolute-ish directory the patterns are relative to
	checker *checker
}

// Walk descends the tree rooted at root, calling fn for every entry that
// survives the ignore policies. If root is a regular file it is yielded
// directly. Enumeration order is the file system's; nothing is sorted.
func (w *Walker) Walk(root string, fn WalkFunc) error {
	info, err := os.Lstat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fn(root, fs.FileInfoToDirEntry(info))
	}

	var scopes []scope
	if w.global != nil {
		scopes = append(scopes, scope{dir: root, checker: w.global})
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			scopes = w.enterDir(path, scopes)
			return nil
		}

		// Drop scopes we have stepped out of.
		scopes = pruneScopes(scopes, filepath.Dir(path))

		base := d.Name()
		if w.types[Hidden] && strings.HasPrefix(base, ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		// Never descend into git metadata when a git tier is active.
		if d.IsDir() && base == ".git" && w.gitAware() {
			return fs.SkipDir
		}

		if w.ignored(path, d.IsDir(), scopes) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if w.noRecursive {
				return fs.SkipDir
			}
			scopes = w.enterDir(path, scopes)
			return nil
		}
		return fn(path, d)
	})
}

func (w *Walker) gitAware() bool {
	return w.types[GitIgnore] || w.types[GitGlobal] || w.types[GitExclude]
}

// enterDir loads the ignore files present in dir for the active types.
func (w *Walker) enterDir(dir string, scopes []scope) []scope {
	if w.types[DotIgnore] {
		if c := loadChecker(filepath.Join(dir, ".ignore")); c != nil {
			scopes = append(scopes, scope{dir: dir, checker: c})
		}
	}
	if w.types[GitIgnore] {
		if c := loadChecker(filepath.Join(dir, ".gitignore")); c != nil {
			scopes = append(scopes, scope{dir: dir, checker: c})
		}
	}
	if w.types[GitExclude] {
		if c := loadChecker(filepath.Join(dir, ".git", "info", "exclude")); c != nil {
			scopes = append(scopes, scope{dir: dir, checker: c})
		}
	}
	return scopes
}

// pruneScopes removes scopes whose directory is not an ancestor of dir.
func pruneScopes(scopes []scope, dir string) []scope {
	kept := scopes[:0]
	for _, s := range scopes {
		if s.dir == dir || strings.HasPrefix(dir+string(filepath.Separator), s.dir+string(filepath.Separator)) {
			kept = append(kept, s)
		}
	}
	return kept
}

// ignored checks path against every active scope; later (deeper) scopes
// win over earlier ones.
func (w *Walker) ignored(path string, isDir bool, scopes []scope) bool {
	ignored := false
	for _, s := range scopes {
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if s.checker.isIgnored(rel, isDir) {
			ignored = true
		} else if ignoredByNegation(s.checker, rel, isDir) {
			ignored = false
		}
	}
	return ignored
}

// ignoredByNegation reports whether the checker's last matching pattern
// for rel is a negation, which re-includes a path a shallower scope
// excluded.
func ignoredByNegation(c *checker, rel string, isDir bool) bool {
	for i := len(c.patterns) - 1; i >= 0; i-- {
		if c.patterns[i].matches(rel, isDir) {
			return c.patterns[i].negated
		}
	}
	return false
}
