// Package ignore loads directory-scoped ignore rules for the traverser.
package ignore

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/zap"
)

// FileName is the conventional ignore file looked up in every traversed directory.
const FileName = ".bwignore"

// GitignoreFileName is honoured in addition to FileName when gitignore support is on.
const GitignoreFileName = ".gitignore"

// ReadFunc reads a whole file, as os.ReadFile does.
type ReadFunc func(path string) ([]byte, error)

// Reader loads ignore rules from a single directory.
type Reader struct {
	readFile ReadFunc
	logger   *zap.Logger
}

// NewReader initializes a Reader that reads ignore files through readFile
// (os.ReadFile when nil) and logs to an optional logger.
func NewReader(readFile ReadFunc, logger *zap.Logger) *Reader {
	if readFile == nil {
		readFile = os.ReadFile
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{readFile: readFile, logger: logger}
}

// Load returns the literal exclude patterns listed in dir's ignore file.
// Only dir itself is consulted, never its ancestors. A missing or unreadable
// file yields no rules and is not an error.
func (r *Reader) Load(dir string) []string {
	fpath := filepath.Join(dir, FileName)
	content, err := r.readFile(fpath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Debug("Ignore file unreadable, treating as empty", zap.String("filePath", fpath), zap.Error(err))
		}
		return nil
	}

	patterns := ParseLines(string(content))
	r.logger.Debug("Loaded ignore file", zap.String("filePath", fpath), zap.Int("patternCount", len(patterns)))
	return patterns
}

// ParseLines turns ignore file content into patterns: one per trimmed line,
// skipping blank lines and lines starting with '#'.
func ParseLines(content string) []string {
	var patterns []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// Gitignore is a compiled .gitignore anchored at the directory that holds it.
type Gitignore struct {
	Dir     string
	matcher *gitignore.GitIgnore
}

// LoadGitignore compiles dir/.gitignore. It returns nil when the file is absent
// or cannot be read.
func (r *Reader) LoadGitignore(dir string) *Gitignore {
	fpath := filepath.Join(dir, GitignoreFileName)
	content, err := r.readFile(fpath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Debug("Gitignore unreadable, skipping", zap.String("filePath", fpath), zap.Error(err))
		}
		return nil
	}

	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")
	r.logger.Debug("Loaded gitignore file", zap.String("filePath", fpath), zap.Int("lineCount", len(lines)))
	return &Gitignore{Dir: dir, matcher: gitignore.CompileIgnoreLines(lines...)}
}

// Ignores reports whether path, which must lie under g.Dir, is ignored.
// Directories are matched with a trailing slash so "build/" rules apply.
func (g *Gitignore) Ignores(path string, isDir bool) bool {
	rel, err := filepath.Rel(g.Dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	if isDir {
		rel += "/"
	}
	return g.matcher.MatchesPath(rel)
}
