package assets

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FilesystemLoader loads a site theme from a directory.
// Implements AssetLoader interface.
type FilesystemLoader struct {
	themeFS
	basePath string
}

// NewFilesystemLoader creates a FilesystemLoader for basePath on fsys.
// Returns ErrInvalidBasePath if the path is not a readable directory.
func NewFilesystemLoader(fsys afero.Fs, basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}

	cleanPath := filepath.Clean(basePath)

	info, err := fsys.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, cleanPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, cleanPath)
	}

	if _, err := afero.ReadDir(fsys, cleanPath); err != nil {
		return nil, fmt.Errorf("%w: cannot read directory: %v", ErrInvalidBasePath, err)
	}

	return &FilesystemLoader{
		themeFS:  themeFS{fs: afero.NewBasePathFs(fsys, cleanPath)},
		basePath: cleanPath,
	}, nil
}

// BasePath returns the theme directory the loader reads from.
func (f *FilesystemLoader) BasePath() string {
	return f.basePath
}

// Compile-time interface check.
var _ AssetLoader = (*FilesystemLoader)(nil)
