package main

import (
	"errors"
	"os"

	mdsite "github.com/alnah/go-mdsite"
	"github.com/alnah/go-mdsite/internal/config"
	"github.com/alnah/go-mdsite/internal/dateutil"
	"github.com/alnah/go-mdsite/internal/pipeline"
)

// Exit codes for mdsite CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful build
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, content or theme
	ExitIO      = 3 // File not found, permission denied, write failure
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidField) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, pipeline.ErrUnknownHighlightStyle) ||
		errors.Is(err, mdsite.ErrMissingFrontMatter) ||
		errors.Is(err, mdsite.ErrMalformedFrontMatter) ||
		errors.Is(err, mdsite.ErrMissingField) ||
		errors.Is(err, mdsite.ErrInvalidField) ||
		errors.Is(err, mdsite.ErrInvalidPermalink) ||
		errors.Is(err, mdsite.ErrDuplicatePermalink) ||
		errors.Is(err, mdsite.ErrPermalinkConflict) ||
		errors.Is(err, mdsite.ErrUnknownLayout) ||
		errors.Is(err, mdsite.ErrUnknownPartial) ||
		errors.Is(err, mdsite.ErrLayoutCycle) ||
		errors.Is(err, mdsite.ErrLayoutParse) ||
		errors.Is(err, mdsite.ErrLayoutExecute) ||
		errors.Is(err, mdsite.ErrInvalidAssetPath) ||
		errors.Is(err, mdsite.ErrStyleNotFound) ||
		errors.Is(err, mdsite.ErrInvalidIndex) ||
		errors.Is(err, mdsite.ErrUnsafeOutputDir) ||
		errors.Is(err, ErrUnsupportedShell) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, mdsite.ErrReadDocument) ||
		errors.Is(err, mdsite.ErrWriteOutput) ||
		errors.Is(err, ErrListen) {
		return ExitIO
	}

	return ExitGeneral
}
