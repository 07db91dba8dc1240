// File: pkg/match/match.go
package match

import (
	"path/filepath"
	"strings"
)

// extensionPrefix marks a pattern as an extension-suffix rule ("*.go", "*.min.js").
const extensionPrefix = "*."

// Matcher decides whether a path matches an include or exclude pattern.
// WorkDir is the directory relative paths are computed against; it is passed
// in explicitly so matching never depends on process state.
type Matcher struct {
	WorkDir string
}

// New returns a Matcher that resolves relative paths against workDir.
func New(workDir string) Matcher {
	return Matcher{WorkDir: workDir}
}

// Matches reports whether path matches pattern.
//
// A pattern starting with "*." is a suffix test on the base name: "*.min.js"
// matches only names ending exactly in ".min.js". Any other pattern is a
// literal substring looked up in the base name, the path relative to WorkDir
// and the raw path, so "node_modules" excludes a directory by name.
func (m Matcher) Matches(path, pattern string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(pattern, extensionPrefix) {
		return strings.HasSuffix(base, pattern[1:])
	}

	if base == pattern || strings.Contains(base, pattern) {
		return true
	}
	if rel, ok := m.relative(path); ok && strings.Contains(rel, pattern) {
		return true
	}
	return strings.Contains(path, pattern)
}

// MatchesAny reports whether path matches at least one of patterns.
// An empty list matches nothing in exclude mode and everything otherwise.
func (m Matcher) MatchesAny(path string, patterns []string, excludeMode bool) bool {
	if len(patterns) == 0 {
		return !excludeMode
	}
	for _, pattern := range patterns {
		if m.Matches(path, pattern) {
			return true
		}
	}
	return false
}

// Selected applies a full filter set: excludes are checked first and win.
func (m Matcher) Selected(path string, exclude, include []string) bool {
	if m.MatchesAny(path, exclude, true) {
		return false
	}
	return m.MatchesAny(path, include, false)
}

func (m Matcher) relative(path string) (string, bool) {
	if m.WorkDir == "" {
		return "", false
	}
	abs := path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(m.WorkDir, abs)
	}
	rel, err := filepath.Rel(m.WorkDir, abs)
	if err != nil {
		return "", false
	}
	return rel, true
}
