package mdsite

import (
	"errors"
	"fmt"
)

// Sentinel errors for site operations.
var (
	// Document errors.
	ErrMissingFrontMatter   = errors.New("missing front-matter")
	ErrMalformedFrontMatter = errors.New("malformed front-matter")
	ErrMissingField         = errors.New("missing required front-matter key")
	ErrInvalidField         = errors.New("invalid front-matter value")
	ErrReadDocument         = errors.New("failed to read document")
	ErrNotPublished         = errors.New("document is not published")

	// Permalink errors.
	ErrInvalidPermalink   = errors.New("invalid permalink")
	ErrDuplicatePermalink = errors.New("duplicate permalink")
	ErrPermalinkConflict  = errors.New("permalink conflicts with another output")

	// Layout errors.
	ErrUnknownLayout  = errors.New("unknown layout")
	ErrUnknownPartial = errors.New("unknown partial")
	ErrLayoutCycle    = errors.New("layout inheritance cycle")
	ErrLayoutParse    = errors.New("failed to parse layout")
	ErrLayoutExecute  = errors.New("failed to execute layout")

	// Build errors.
	ErrInvalidAssetPath = errors.New("invalid asset path")
	ErrStyleNotFound    = errors.New("style not found")
	ErrInvalidIndex     = errors.New("invalid index page")
	ErrUnsafeOutputDir  = errors.New("refusing to clean output directory")
	ErrWriteOutput      = errors.New("failed to write output")
)

// DocumentError attaches the source file to an error about that document.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// docError wraps err with the document's path when path is known.
func docError(path string, err error) error {
	if path == "" {
		return err
	}
	return &DocumentError{Path: path, Err: err}
}
