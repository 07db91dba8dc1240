// File: pkg/combine/helpers.go
package combine

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/sergi/go-diff/diffmatchpatch"
	"gitlab.com/tozd/go/errors"
)

// lockAndWrite acquires an exclusive lock for path and writes data atomically.
// The lock file lives in the temp directory so it never appears in the
// traversed tree. It is left in place after unlocking: removing it would let a
// waiter hold a lock on an unlinked file while a newcomer locks a fresh one.
func lockAndWrite(path string, data []byte) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Errorf("resolving output path: %w", err)
	}

	lock := flock.New(lockPath(abs))
	if err := lock.Lock(); err != nil {
		return errors.Errorf("acquiring lock on %s: %w", abs, err)
	}
	defer func() { _ = lock.Unlock() }()

	return atomicWrite(abs, data)
}

// lockPath derives a stable lock file name for an absolute output path.
func lockPath(abs string) string {
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(os.TempDir(), "byteweaver-"+hex.EncodeToString(sum[:8])+".lock")
}

// atomicWrite writes data to a temp file next to path and renames it into
// place, so readers never see a partially written output. The parent
// directory must already exist.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)

	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			return errors.Errorf("output path %s is a directory", path)
		}
		perm = info.Mode().Perm()
	}

	tempFile, err := os.CreateTemp(dir, ".byteweaver-*.tmp")
	if err != nil {
		return errors.Errorf("creating temp file: %w", err)
	}
	tempPath := tempFile.Name()

	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		return errors.Errorf("writing temp file: %w", err)
	}
	if err := tempFile.Sync(); err != nil {
		return errors.Errorf("syncing temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return errors.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tempPath, perm); err != nil {
		return errors.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return errors.Errorf("renaming temp file to %s: %w", path, err)
	}

	tempFile = nil
	return nil
}

// diffOutput compares the previous output with the freshly assembled one,
// line by line. It returns whether they differ and the changed lines
// prefixed with "-" or "+".
func diffOutput(previous, next string) (bool, string) {
	if previous == next {
		return false, ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(previous, next)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix + strings.TrimSuffix(line, "\n") + "\n")
		}
	}
	return true, out.String()
}
