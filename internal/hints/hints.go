// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"fmt"
	"strings"
)

// ForUnknownLayout returns hints listing the layouts the theme provides.
func ForUnknownLayout(available []string) string {
	if len(available) == 0 {
		return format("add the layout to <themeDir>/layouts/")
	}
	return format("available layouts: " + strings.Join(available, ", "))
}

// ForUnknownPartial returns hints listing the partials usable as sidenav.
func ForUnknownPartial(available []string) string {
	if len(available) == 0 {
		return format("add the partial to <themeDir>/partials/")
	}
	return format("available partials: " + strings.Join(available, ", "))
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForFrontMatter returns hints for missing or malformed front-matter.
func ForFrontMatter() string {
	return formatHints([]string{
		"front-matter must open the file between two '---' lines",
		"required keys: title, layout, permalink",
	})
}

// ForDuplicatePermalink returns a hint for two documents sharing a permalink.
func ForDuplicatePermalink() string {
	return format("give each published document its own permalink, or set published: false")
}

// ForLayoutCycle returns a hint for layouts that inherit from each other.
func ForLayoutCycle() string {
	return format("remove the 'layout' key from one layout's front-matter")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating mdsite.yaml in the site root.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/mdsite.yaml"
	if len(searchedPaths) > 0 {
		hint += " or create " + searchedPaths[0]
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForAddressInUse returns a hint for a serve port that is already bound.
func ForAddressInUse(port int) string {
	return format(fmt.Sprintf("port %d is busy, use --port to pick another", port))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
