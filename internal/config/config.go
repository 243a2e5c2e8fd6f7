package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/alnah/go-mdsite/internal/dateutil"
	"github.com/alnah/go-mdsite/internal/fileutil"
	"github.com/alnah/go-mdsite/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidField    = errors.New("invalid config field")
)

// sampleDate is formatted to check a configured date format.
var sampleDate = time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)

// DefaultConfigName is the config looked up when none is given explicitly.
const DefaultConfigName = "mdsite"

// Field length limits.
const (
	MaxTitleLength     = 200  // Site and index titles
	MaxURLLength       = 2048 // Browser limit
	MaxLanguageLength  = 35   // BCP 47 tag
	MaxPathLength      = 4096 // Directory settings
	MaxStyleNameLength = 100  // Style and layout names
	MaxIndexes         = 100  // Listing pages per site
)

// Config holds all configuration for a site build.
type Config struct {
	Title       string         `yaml:"title"`
	BaseURL     string         `yaml:"baseURL"`  // "https://example.com/blog/" or "/blog/"
	Language    string         `yaml:"language"` // html lang attribute (default: "en")
	ContentDir  string         `yaml:"contentDir"`
	OutputDir   string         `yaml:"outputDir"`
	ThemeDir    string         `yaml:"themeDir"`  // Empty = embedded theme only
	StaticDir   string         `yaml:"staticDir"` // Copied verbatim when present
	Style       string         `yaml:"style"`     // Name in <theme>/styles/ (empty = no stylesheet)
	DateFormat  string         `yaml:"dateFormat"`
	InlineCSS   bool           `yaml:"inlineCSS"`   // Inject CSS in <head> instead of writing css/site.css
	CleanOutput bool           `yaml:"cleanOutput"` // Prune files a build did not produce (default: true)
	Markdown    MarkdownConfig `yaml:"markdown"`
	TOC         TOCConfig      `yaml:"toc"`
	Indexes     []IndexConfig  `yaml:"indexes"`
	Params      map[string]any `yaml:"params"` // Free-form values exposed as .Site.Params
}

// MarkdownConfig defines Markdown conversion options.
type MarkdownConfig struct {
	Highlight      bool   `yaml:"highlight"`      // Chroma syntax highlighting (default: true)
	HighlightStyle string `yaml:"highlightStyle"` // Chroma style name (default: "github")
	LineNumbers    bool   `yaml:"lineNumbers"`
	Sanitize       bool   `yaml:"sanitize"` // bluemonday UGC policy (default: true)
	HardWraps      bool   `yaml:"hardWraps"`
}

// TOCConfig defines table of contents options.
type TOCConfig struct {
	Enabled  bool `yaml:"enabled"`
	MinDepth int  `yaml:"minDepth"` // 1-6, default 2
	MaxDepth int  `yaml:"maxDepth"` // 1-6, default 3
}

// IndexConfig defines a listing page.
type IndexConfig struct {
	Permalink   string `yaml:"permalink"`
	Title       string `yaml:"title"`       // Empty = derived from permalink
	Layout      string `yaml:"layout"`      // Empty = "index"
	MatchLayout string `yaml:"matchLayout"` // Only list documents using this layout
	MatchPrefix string `yaml:"matchPrefix"` // Only list documents under this permalink prefix
	Reverse     bool   `yaml:"reverse"`
	Limit       int    `yaml:"limit"` // 0 = no limit
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("title", c.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("baseURL", c.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if err := validateBaseURL(c.BaseURL); err != nil {
		return err
	}
	if err := validateFieldLength("language", c.Language, MaxLanguageLength); err != nil {
		return err
	}
	if err := validateFieldLength("style", c.Style, MaxStyleNameLength); err != nil {
		return err
	}

	dirs := []struct {
		name, value string
		required    bool
	}{
		{"contentDir", c.ContentDir, true},
		{"outputDir", c.OutputDir, true},
		{"themeDir", c.ThemeDir, false},
		{"staticDir", c.StaticDir, false},
	}
	for _, d := range dirs {
		if d.required && strings.TrimSpace(d.value) == "" {
			return fmt.Errorf("%w: %s: required", ErrInvalidField, d.name)
		}
		if err := validateFieldLength(d.name, d.value, MaxPathLength); err != nil {
			return err
		}
	}
	// Builds prune the output directory, so it must not hold any input.
	for _, d := range dirs {
		if d.name == "outputDir" || d.value == "" {
			continue
		}
		if fileutil.IsWithin(c.OutputDir, d.value) {
			return fmt.Errorf("%w: outputDir %s contains %s %s", ErrInvalidField, c.OutputDir, d.name, d.value)
		}
	}

	if c.DateFormat != "" {
		if _, err := dateutil.FormatDate(sampleDate, c.DateFormat); err != nil {
			return fmt.Errorf("dateFormat: %w", err)
		}
	}

	if err := validateFieldLength("markdown.highlightStyle", c.Markdown.HighlightStyle, MaxStyleNameLength); err != nil {
		return err
	}

	if err := c.TOC.validate(); err != nil {
		return err
	}

	if len(c.Indexes) > MaxIndexes {
		return fmt.Errorf("%w: indexes: at most %d entries, got %d", ErrInvalidField, MaxIndexes, len(c.Indexes))
	}
	for i, idx := range c.Indexes {
		if err := idx.validate(fmt.Sprintf("indexes[%d]", i)); err != nil {
			return err
		}
	}

	return nil
}

func (t TOCConfig) validate() error {
	if !t.Enabled {
		return nil
	}
	if t.MinDepth < 1 || t.MinDepth > 6 {
		return fmt.Errorf("%w: toc.minDepth: must be between 1 and 6, got %d", ErrInvalidField, t.MinDepth)
	}
	if t.MaxDepth < 1 || t.MaxDepth > 6 {
		return fmt.Errorf("%w: toc.maxDepth: must be between 1 and 6, got %d", ErrInvalidField, t.MaxDepth)
	}
	if t.MinDepth > t.MaxDepth {
		return fmt.Errorf("%w: toc.minDepth (%d) exceeds toc.maxDepth (%d)", ErrInvalidField, t.MinDepth, t.MaxDepth)
	}
	return nil
}

func (i IndexConfig) validate(field string) error {
	if err := validateFieldLength(field+".permalink", i.Permalink, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength(field+".title", i.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength(field+".layout", i.Layout, MaxStyleNameLength); err != nil {
		return err
	}
	if err := validateFieldLength(field+".matchLayout", i.MatchLayout, MaxStyleNameLength); err != nil {
		return err
	}
	if err := validateFieldLength(field+".matchPrefix", i.MatchPrefix, MaxURLLength); err != nil {
		return err
	}
	if i.Limit < 0 {
		return fmt.Errorf("%w: %s.limit: must not be negative, got %d", ErrInvalidField, field, i.Limit)
	}
	return nil
}

// validateBaseURL accepts an empty value, a root-relative path or an
// absolute http(s) URL without query or fragment.
func validateBaseURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: baseURL: %v", ErrInvalidField, err)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("%w: baseURL: must not contain a query or fragment", ErrInvalidField)
	}
	switch u.Scheme {
	case "":
		if u.Host != "" || !strings.HasPrefix(u.Path, "/") {
			return fmt.Errorf("%w: baseURL: relative value must start with '/', got %q", ErrInvalidField, raw)
		}
	case "http", "https":
		if u.Host == "" {
			return fmt.Errorf("%w: baseURL: missing host in %q", ErrInvalidField, raw)
		}
	default:
		return fmt.Errorf("%w: baseURL: unsupported scheme %q", ErrInvalidField, u.Scheme)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used for keys a site file omits.
func DefaultConfig() *Config {
	return &Config{
		Language:    "en",
		ContentDir:  "content",
		OutputDir:   "public",
		StaticDir:   "static",
		Style:       "default",
		DateFormat:  dateutil.DefaultDateFormat,
		CleanOutput: true,
		Markdown: MarkdownConfig{
			Highlight:      true,
			HighlightStyle: "github",
			Sanitize:       true,
		},
		TOC: TOCConfig{Enabled: false, MinDepth: 2, MaxDepth: 3},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator or a YAML extension, it's treated
// as a file path.
// Otherwise, it's treated as a config name and searched in the working
// directory as <name>.yaml then <name>.yml.
// Keys absent from the file keep their DefaultConfig values, and relative
// directories are resolved against the config file's directory.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(fs afero.Fs, nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) || hasYAMLExt(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(fs, nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := afero.ReadFile(fs, configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.ResolvePaths(filepath.Dir(configPath))
	return cfg, nil
}

// ResolvePaths makes relative directory settings relative to baseDir.
func (c *Config) ResolvePaths(baseDir string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(baseDir, p)
	}
	c.ContentDir = resolve(c.ContentDir)
	c.OutputDir = resolve(c.OutputDir)
	c.ThemeDir = resolve(c.ThemeDir)
	c.StaticDir = resolve(c.StaticDir)
}

// SearchPaths lists where a config name is looked up, in order.
func SearchPaths(name string) []string {
	return []string{name + ".yaml", name + ".yml"}
}

// resolveConfigPath searches for a config file by name.
func resolveConfigPath(fs afero.Fs, name string) (string, error) {
	triedPaths := SearchPaths(name)
	for _, p := range triedPaths {
		if fileutil.FileExists(fs, p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

func hasYAMLExt(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}
