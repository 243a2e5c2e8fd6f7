package assets

import (
	"embed"
	"io/fs"

	"github.com/spf13/afero"
)

//go:embed theme
var themeFiles embed.FS

// EmbeddedLoader loads the default theme compiled into the binary.
// Implements AssetLoader interface.
type EmbeddedLoader struct {
	themeFS
}

// NewEmbeddedLoader creates an EmbeddedLoader.
func NewEmbeddedLoader() *EmbeddedLoader {
	sub, err := fs.Sub(themeFiles, "theme")
	if err != nil {
		// fs.Sub only fails on an invalid path literal.
		panic("assets: embedded theme: " + err.Error())
	}
	return &EmbeddedLoader{themeFS{fs: afero.FromIOFS{FS: sub}}}
}

// Compile-time interface check.
var _ AssetLoader = (*EmbeddedLoader)(nil)
