package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	mdsite "github.com/alnah/go-mdsite"
	"github.com/alnah/go-mdsite/internal/config"
	"github.com/alnah/go-mdsite/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage  = errors.New("invalid usage")
	ErrListen = errors.New("cannot listen")
)

// hintedError appends actionable hints to an error message.
type hintedError struct {
	err  error
	hint string
}

func (e *hintedError) Error() string {
	return e.err.Error() + e.hint
}

func (e *hintedError) Unwrap() error {
	return e.err
}

// withHints decorates err with hints for the failures users can fix.
// b lists the theme's layouts and partials when available.
func withHints(err error, b *mdsite.Builder, configName string) error {
	if err == nil {
		return nil
	}

	var parts []string
	add := func(h string) {
		if h != "" && !slices.Contains(parts, h) {
			parts = append(parts, h)
		}
	}

	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		if configName == "" {
			configName = config.DefaultConfigName
		}
		if ext := filepath.Ext(configName); ext == ".yaml" || ext == ".yml" {
			add(hints.ForConfigNotFound([]string{configName}))
		} else {
			add(hints.ForConfigNotFound(config.SearchPaths(configName)))
		}
	case errors.Is(err, mdsite.ErrStyleNotFound):
		add(hints.ForStyleNotFound(nil))
	}

	if errors.Is(err, mdsite.ErrMissingFrontMatter) ||
		errors.Is(err, mdsite.ErrMalformedFrontMatter) ||
		errors.Is(err, mdsite.ErrMissingField) {
		add(hints.ForFrontMatter())
	}
	if errors.Is(err, mdsite.ErrUnknownLayout) {
		var layouts []string
		if b != nil {
			layouts, _ = b.Layouts()
		}
		add(hints.ForUnknownLayout(layouts))
	}
	if errors.Is(err, mdsite.ErrUnknownPartial) {
		var partials []string
		if b != nil {
			partials = b.Partials()
		}
		add(hints.ForUnknownPartial(partials))
	}
	if errors.Is(err, mdsite.ErrDuplicatePermalink) || errors.Is(err, mdsite.ErrPermalinkConflict) {
		add(hints.ForDuplicatePermalink())
	}
	if errors.Is(err, mdsite.ErrLayoutCycle) {
		add(hints.ForLayoutCycle())
	}
	if errors.Is(err, mdsite.ErrWriteOutput) {
		add(hints.ForOutputDirectory())
	}

	if len(parts) == 0 {
		return err
	}
	return &hintedError{err: err, hint: strings.Join(parts, "")}
}

// usageError marks err as a command-line usage mistake.
func usageError(err error) error {
	return fmt.Errorf("%w: %v", ErrUsage, err)
}
