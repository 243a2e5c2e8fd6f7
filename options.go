package mdsite

import (
	"log/slog"

	"github.com/spf13/afero"

	"github.com/alnah/go-mdsite/internal/assets"
	"github.com/alnah/go-mdsite/internal/dateutil"
	"github.com/alnah/go-mdsite/internal/pipeline"
)

// Site holds site-wide values exposed to templates as .Site.
type Site struct {
	Title    string
	BaseURL  string // "", "/docs" or "https://example.com/docs"
	Language string // BCP 47 tag, defaults to "en"
	Params   map[string]any
}

// MarkdownOptions configures Markdown rendering.
type MarkdownOptions struct {
	Highlight      bool
	HighlightStyle string // chroma style name
	LineNumbers    bool
	HardWraps      bool
	Sanitize       bool
}

// TOCOptions configures table of contents extraction.
// Disabled when nil.
type TOCOptions struct {
	Title    string
	MinDepth int
	MaxDepth int
}

// Option configures a Builder.
type Option func(*Builder)

// builderConfig holds the values set by options.
type builderConfig struct {
	fs          afero.Fs
	logger      *slog.Logger
	assetPath   string
	site        Site
	markdown    MarkdownOptions
	toc         *TOCOptions
	style       string
	inlineCSS   bool
	cleanOutput bool
	dateFormat  string
	indexes     []Index
}

func defaultBuilderConfig() builderConfig {
	return builderConfig{
		fs:     afero.NewOsFs(),
		logger: slog.New(slog.DiscardHandler),
		site:   Site{Language: "en"},
		markdown: MarkdownOptions{
			Highlight:      true,
			HighlightStyle: pipeline.DefaultHighlightStyle,
			Sanitize:       true,
		},
		style:       assets.DefaultStyleName,
		cleanOutput: true,
		dateFormat:  dateutil.DefaultDateFormat,
	}
}

// WithFs sets the filesystem used for themes, static files and output.
func WithFs(fs afero.Fs) Option {
	return func(b *Builder) {
		if fs != nil {
			b.cfg.fs = fs
		}
	}
}

// WithLogger sets the logger for build progress. Logs are discarded by
// default.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.cfg.logger = logger
		}
	}
}

// WithAssetPath sets a theme directory that overrides the embedded theme
// by asset name.
func WithAssetPath(path string) Option {
	return func(b *Builder) {
		b.cfg.assetPath = path
	}
}

// WithSite sets the site-wide template values.
func WithSite(site Site) Option {
	return func(b *Builder) {
		if site.Language == "" {
			site.Language = "en"
		}
		b.cfg.site = site
	}
}

// WithMarkdown replaces the Markdown rendering options.
func WithMarkdown(opts MarkdownOptions) Option {
	return func(b *Builder) {
		b.cfg.markdown = opts
	}
}

// WithTOC enables table of contents extraction.
func WithTOC(opts TOCOptions) Option {
	return func(b *Builder) {
		b.cfg.toc = &opts
	}
}

// WithStyle selects the theme stylesheet by name.
func WithStyle(name string) Option {
	return func(b *Builder) {
		b.cfg.style = name
	}
}

// WithInlineCSS embeds the stylesheet in each page instead of writing
// css/site.css.
func WithInlineCSS(inline bool) Option {
	return func(b *Builder) {
		b.cfg.inlineCSS = inline
	}
}

// WithCleanOutput controls whether files an earlier build left in the
// output directory are removed. Enabled by default.
func WithCleanOutput(clean bool) Option {
	return func(b *Builder) {
		b.cfg.cleanOutput = clean
	}
}

// WithDateFormat sets the format for .Page.DateString and formatDate,
// using dateutil tokens (YYYY-MM-DD) or presets (iso, long).
func WithDateFormat(format string) Option {
	return func(b *Builder) {
		b.cfg.dateFormat = format
	}
}

// WithIndexes adds listing pages to every build.
func WithIndexes(indexes ...Index) Option {
	return func(b *Builder) {
		b.cfg.indexes = append(b.cfg.indexes, indexes...)
	}
}
