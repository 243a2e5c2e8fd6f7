// Package fileutil provides file and path helpers over an afero filesystem.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// File permission constants.
const (
	DirPermissions  = 0o755 // rwxr-xr-x: generated sites are served by others
	FilePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// ErrNotDirectory indicates a path expected to be a directory is a file.
var ErrNotDirectory = errors.New("not a directory")

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never observe a partially written page.
// Parent directories are created as needed.
func WriteFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, DirPermissions); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := afero.TempFile(fs, dir, ".mdsite-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	cleanup := func() { _ = fs.Remove(tmpPath) }

	if _, writeErr := tmpFile.Write(data); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", writeErr)
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := fs.Chmod(tmpPath, FilePermissions); err != nil {
		cleanup()
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

// CopyDir recursively copies the contents of src into dst and returns the
// copied files as slash-separated paths relative to dst. Each file is
// written with WriteFileAtomic.
// Returns os.ErrNotExist (wrapped) if src does not exist.
func CopyDir(fs afero.Fs, src, dst string) ([]string, error) {
	info, err := fs.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", src, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, src)
	}

	var copied []string
	err = afero.Walk(fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			if err := fs.MkdirAll(target, DirPermissions); err != nil {
				return fmt.Errorf("creating directory %s: %w", target, err)
			}
			return nil
		}
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if err := WriteFileAtomic(fs, target, data); err != nil {
			return fmt.Errorf("copying %s: %w", path, err)
		}
		copied = append(copied, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return copied, nil
}

// Prune removes every file below dir whose slash-separated path relative
// to dir is not in keep, then removes the directories left empty.
func Prune(fs afero.Fs, dir string, keep map[string]bool) error {
	var dirs []string
	err := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}
		if info.IsDir() {
			if rel != "." {
				dirs = append(dirs, path)
			}
			return nil
		}
		if keep[filepath.ToSlash(rel)] {
			return nil
		}
		if err := fs.Remove(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Walk lists parents first, so children are visited first here.
	for i := len(dirs) - 1; i >= 0; i-- {
		entries, err := afero.ReadDir(fs, dirs[i])
		if err != nil || len(entries) > 0 {
			continue
		}
		if err := fs.Remove(dirs[i]); err != nil {
			return fmt.Errorf("removing %s: %w", dirs[i], err)
		}
	}
	return nil
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "mdsite" -> false (name)
//   - "./mdsite.yaml" -> true (relative path)
//   - "/etc/mdsite.yaml" -> true (absolute)
//   - "sub/dir" -> true (contains separator)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsWithin reports whether path is dir itself or lies below it.
// A relative path is never within an absolute dir, and vice versa.
func IsWithin(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// EscapesParent reports whether a relative path climbs above its base,
// like ".." or "../public".
func EscapesParent(path string) bool {
	clean := filepath.Clean(path)
	return clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator))
}
