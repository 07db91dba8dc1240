package combine

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// spyFS records which paths were listed and stat'd and can fail reads.
type spyFS struct {
	OSFileSystem

	mu       sync.Mutex
	listed   []string
	statted  []string
	read     []string
	failRead map[string]bool
}

func newSpyFS() *spyFS {
	return &spyFS{failRead: map[string]bool{}}
}

func (s *spyFS) ReadDir(dir string) ([]string, error) {
	s.mu.Lock()
	s.listed = append(s.listed, dir)
	s.mu.Unlock()
	return s.OSFileSystem.ReadDir(dir)
}

func (s *spyFS) Stat(path string) (fs.FileInfo, error) {
	s.mu.Lock()
	s.statted = append(s.statted, path)
	s.mu.Unlock()
	return s.OSFileSystem.Stat(path)
}

func (s *spyFS) ReadFile(path string) ([]byte, error) {
	s.mu.Lock()
	s.read = append(s.read, path)
	fail := s.failRead[path]
	s.mu.Unlock()
	if fail {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrPermission}
	}
	return s.OSFileSystem.ReadFile(path)
}

// writeTree creates files under root from a map of slash paths to content.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// relPaths converts candidate paths to slash paths relative to root.
func relPaths(t *testing.T, root string, candidates []Candidate) []string {
	t.Helper()
	out := make([]string, len(candidates))
	for i, c := range candidates {
		rel, err := filepath.Rel(root, c.Path)
		require.NoError(t, err)
		out[i] = filepath.ToSlash(rel)
	}
	return out
}
