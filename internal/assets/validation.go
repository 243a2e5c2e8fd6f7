package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName checks that an asset name is safe for use as a filename.
// Returns ErrInvalidAssetName if the name is empty or contains path separators,
// dots (which could allow extension manipulation), or traversal characters.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// NormalizeTemplateName strips a trailing ".html" so front-matter may refer
// to "side-nav-tips.html" or "side-nav-tips" interchangeably.
func NormalizeTemplateName(name string) string {
	return strings.TrimSuffix(strings.TrimSpace(name), templateExt)
}
