package assets

import (
	"errors"
	"sort"

	"github.com/spf13/afero"
)

// AssetResolver combines custom and embedded loaders with fallback logic.
// When a custom loader is configured, it tries custom first, then falls back
// to embedded if the asset is not found in the custom location.
type AssetResolver struct {
	custom   AssetLoader // nil if no custom path configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver.
// If customBasePath is empty, only embedded assets are used.
// Returns error if customBasePath is set but invalid.
func NewAssetResolver(fsys afero.Fs, customBasePath string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if customBasePath != "" {
		fsLoader, err := NewFilesystemLoader(fsys, customBasePath)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadLayout loads a layout, trying the custom loader first if available.
func (r *AssetResolver) LoadLayout(name string) (string, error) {
	return r.loadWithFallback(func(loader AssetLoader) (string, error) {
		return loader.LoadLayout(name)
	})
}

// LoadPartial loads a partial, trying the custom loader first if available.
func (r *AssetResolver) LoadPartial(name string) (string, error) {
	return r.loadWithFallback(func(loader AssetLoader) (string, error) {
		return loader.LoadPartial(name)
	})
}

// LoadStyle loads a CSS style, trying the custom loader first if available.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.loadWithFallback(func(loader AssetLoader) (string, error) {
		return loader.LoadStyle(name)
	})
}

// ListLayouts returns the union of custom and embedded layout names.
func (r *AssetResolver) ListLayouts() ([]string, error) {
	return r.listUnion(func(loader AssetLoader) ([]string, error) {
		return loader.ListLayouts()
	})
}

// ListPartials returns the union of custom and embedded partial names.
func (r *AssetResolver) ListPartials() ([]string, error) {
	return r.listUnion(func(loader AssetLoader) ([]string, error) {
		return loader.ListPartials()
	})
}

// loadWithFallback implements the custom-first, fallback-to-embedded logic.
func (r *AssetResolver) loadWithFallback(loadFn func(AssetLoader) (string, error)) (string, error) {
	if r.custom == nil {
		return loadFn(r.embedded)
	}

	content, err := loadFn(r.custom)
	if err == nil {
		return content, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors
	if !isNotFoundError(err) {
		return "", err
	}

	return loadFn(r.embedded)
}

func (r *AssetResolver) listUnion(listFn func(AssetLoader) ([]string, error)) ([]string, error) {
	names, err := listFn(r.embedded)
	if err != nil {
		return nil, err
	}
	if r.custom == nil {
		return names, nil
	}

	custom, err := listFn(r.custom)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(names)+len(custom))
	var merged []string
	for _, n := range append(names, custom...) {
		if !seen[n] {
			seen[n] = true
			merged = append(merged, n)
		}
	}
	sort.Strings(merged)
	return merged, nil
}

// isNotFoundError checks if the error indicates the asset was not found.
func isNotFoundError(err error) bool {
	return errors.Is(err, ErrStyleNotFound) ||
		errors.Is(err, ErrLayoutNotFound) ||
		errors.Is(err, ErrPartialNotFound)
}

// HasCustomLoader returns true if a custom asset loader is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
