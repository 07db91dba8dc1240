// File: pkg/combine/traversal.go
package combine

import (
	"path/filepath"
	"slices"

	"byteweaver/pkg/ignore"
	"byteweaver/pkg/match"

	"gitlab.com/tozd/go/errors"
	"go.uber.org/zap"
)

// Traverser walks a directory and produces the ordered list of candidates.
type Traverser struct {
	fs        FileSystem
	matcher   match.Matcher
	ignores   *ignore.Reader
	gitignore bool
	logger    *zap.Logger
}

// NewTraverser creates a Traverser. When gitignore is set, .gitignore files
// are honoured next to the .bwignore rules.
func NewTraverser(fsys FileSystem, matcher match.Matcher, gitignore bool, logger *zap.Logger) *Traverser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Traverser{
		fs:        fsys,
		matcher:   matcher,
		ignores:   ignore.NewReader(fsys.ReadFile, logger),
		gitignore: gitignore,
		logger:    logger,
	}
}

// Traverse returns the files under directory that survive the filters, depth
// first in listing order.
//
// At every visited level the directory's ignore file is appended to the
// exclude set for that level and its subtree only. Excluded entries are
// skipped before they are stat'd, so an excluded directory is never entered.
// Subdirectories are descended only when recursive is set.
func (t *Traverser) Traverse(directory string, exclude, include []string, recursive bool) ([]Candidate, error) {
	t.logger.Debug("Starting file traversal",
		zap.String("directory", directory),
		zap.Bool("recursive", recursive),
		zap.Strings("exclude", exclude),
		zap.Strings("include", include))

	candidates, err := t.walk(directory, exclude, include, nil, recursive)
	if err != nil {
		return nil, err
	}

	t.logger.Debug("Completed file traversal", zap.Int("candidates", len(candidates)))
	return candidates, nil
}

func (t *Traverser) walk(dir string, inherited, include []string, gitignores []*ignore.Gitignore, recursive bool) ([]Candidate, error) {
	names, err := t.fs.ReadDir(dir)
	if err != nil {
		return nil, newError(KindIO, dir, errors.Errorf("reading directory: %w", err))
	}

	// Clip so appending never writes into the parent's backing array.
	exclude := inherited
	if rules := t.ignores.Load(dir); len(rules) > 0 {
		exclude = append(slices.Clip(inherited), rules...)
	}
	if t.gitignore {
		if gi := t.ignores.LoadGitignore(dir); gi != nil {
			gitignores = append(slices.Clip(gitignores), gi)
		}
	}

	var candidates []Candidate
	for _, name := range names {
		path := filepath.Join(dir, name)

		if t.matcher.MatchesAny(path, exclude, true) {
			t.logger.Debug("Skipping excluded path", zap.String("path", path))
			continue
		}

		info, err := t.fs.Stat(path)
		if err != nil {
			t.logger.Warn("Cannot stat path, skipping", zap.String("path", path), zap.Error(err))
			continue
		}

		if ignoredByGit(gitignores, path, info.IsDir()) {
			t.logger.Debug("Skipping gitignored path", zap.String("path", path))
			continue
		}

		if info.IsDir() {
			if !recursive {
				continue
			}
			sub, err := t.walk(path, exclude, include, gitignores, recursive)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, sub...)
			continue
		}

		if !t.matcher.MatchesAny(path, include, false) {
			continue
		}
		candidates = append(candidates, Candidate{Path: path, Name: name})
	}

	return candidates, nil
}

func ignoredByGit(gitignores []*ignore.Gitignore, path string, isDir bool) bool {
	for _, gi := range gitignores {
		if gi.Ignores(path, isDir) {
			return true
		}
	}
	return false
}

// dropPaths removes the candidates that resolve to any of paths. The pipeline
// uses it so a run never reads back the artifact it is about to overwrite, nor
// the config file that configured it.
func dropPaths(candidates []Candidate, paths ...string) []Candidate {
	drop := make(map[string]bool, len(paths))
	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			drop[abs] = true
		}
	}
	kept := candidates[:0:0]
	for _, c := range candidates {
		if abs, err := filepath.Abs(c.Path); err == nil && drop[abs] {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
