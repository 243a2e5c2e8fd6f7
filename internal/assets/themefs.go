package assets

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// themeFS reads theme files from an afero filesystem rooted at the theme.
type themeFS struct {
	fs afero.Fs
}

func (t themeFS) LoadLayout(name string) (string, error) {
	return t.load(layoutsDir, name, templateExt, ErrLayoutNotFound)
}

func (t themeFS) LoadPartial(name string) (string, error) {
	return t.load(partialsDir, name, templateExt, ErrPartialNotFound)
}

func (t themeFS) LoadStyle(name string) (string, error) {
	return t.load(stylesDir, name, styleExt, ErrStyleNotFound)
}

func (t themeFS) ListLayouts() ([]string, error) {
	return t.list(layoutsDir, templateExt)
}

func (t themeFS) ListPartials() ([]string, error) {
	return t.list(partialsDir, templateExt)
}

func (t themeFS) load(dir, name, ext string, notFound error) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := afero.ReadFile(t.fs, path.Join(dir, name+ext))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", notFound, name)
		}
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(content), nil
}

// list returns asset names in dir with the given extension.
// A missing directory yields an empty list.
func (t themeFS) list(dir, ext string) ([]string, error) {
	entries, err := afero.ReadDir(t.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: listing %s: %v", ErrAssetRead, dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ext)
		if ValidateAssetName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
