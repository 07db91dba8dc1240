package combine

import (
	"io/fs"
	"os"
)

// FileSystem is the set of primitives the pipeline consumes. The OS
// implementation is used by default; tests substitute their own to observe
// which paths are listed or stat'd.
type FileSystem interface {
	// ReadDir returns the entry names of dir in listing order.
	ReadDir(dir string) ([]string, error)
	Stat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	// WriteFile replaces the content of path in a single step.
	WriteFile(path string, data []byte) error
}

// OSFileSystem implements FileSystem on the host file system.
type OSFileSystem struct{}

// ReadDir lists dir sorted by file name.
func (OSFileSystem) ReadDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name()
	}
	return names, nil
}

func (OSFileSystem) Stat(path string) (fs.FileInfo, error) { return os.Stat(path) }

func (OSFileSystem) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// WriteFile writes data atomically while holding an exclusive lock for path.
func (OSFileSystem) WriteFile(path string, data []byte) error {
	return lockAndWrite(path, data)
}
