package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Sentinel errors for Markdown conversion.
var (
	ErrHTMLConversion        = errors.New("HTML conversion failed")
	ErrUnknownHighlightStyle = errors.New("unknown highlight style")
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// ConverterOptions configures a GoldmarkConverter.
type ConverterOptions struct {
	Highlight      bool
	HighlightStyle string
	LineNumbers    bool
	HardWraps      bool
}

// GoldmarkConverter converts Markdown to HTML using goldmark (pure Go).
type GoldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions and,
// when enabled, chroma syntax highlighting.
// Returns ErrUnknownHighlightStyle if the style is not registered with chroma.
func NewGoldmarkConverter(opts ConverterOptions) (*GoldmarkConverter, error) {
	exts := []goldmark.Extender{
		extension.GFM,      // Tables, strikethrough, autolinks, task lists
		extension.Footnote, // [^1] footnotes
		HighlightMarks,     // ==text==
	}

	if opts.Highlight {
		style, err := lookupStyle(opts.HighlightStyle)
		if err != nil {
			return nil, err
		}
		exts = append(exts, highlighting.NewHighlighting(
			highlighting.WithStyle(style),
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true), // CSS classes, styled by the generated stylesheet
				chromahtml.WithLineNumbers(opts.LineNumbers),
			),
		))
	}

	rendererOpts := []goldmark.Option{
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(), // Generate IDs for headings (required for TOC)
		),
	}

	// Raw HTML is kept: articles embed markup and block attribute lines
	// become <div> wrappers. The sanitizer runs on the output.
	htmlOpts := []renderer.Option{html.WithUnsafe()}
	if opts.HardWraps {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}
	rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(htmlOpts...))

	return &GoldmarkConverter{md: goldmark.New(rendererOpts...)}, nil
}

// ToHTML converts Markdown content to an HTML fragment.
// Supports context cancellation via goroutine + select pattern since
// goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: buf.String()}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// lookupStyle resolves a chroma style name, defaulting to DefaultHighlightStyle.
func lookupStyle(name string) (string, error) {
	if name == "" {
		return DefaultHighlightStyle, nil
	}
	key := strings.ToLower(name)
	if _, ok := styles.Registry[key]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownHighlightStyle, name)
	}
	return key, nil
}
