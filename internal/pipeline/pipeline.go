package pipeline

import (
	"context"
	"fmt"
)

// Options configures a Pipeline.
type Options struct {
	Converter ConverterOptions
	Sanitize  bool     // Run Markdown output through bluemonday
	BasePath  string   // Prefix for root-relative URLs ("" or "/" = none)
	TOC       *TOCData // nil = no table of contents
}

// Result is a rendered document body.
type Result struct {
	HTML string // body fragment
	TOC  string // table of contents fragment, may be empty
}

// Pipeline renders document bodies. A Pipeline is stateless after
// construction and safe for sequential reuse across documents.
type Pipeline struct {
	preprocessor MarkdownPreprocessor
	converter    HTMLConverter
	sanitizer    HTMLSanitizer // nil when sanitizing is off
	toc          TOCBuilder
	basePath     string
	tocData      *TOCData
}

// New builds a Pipeline from opts.
func New(opts Options) (*Pipeline, error) {
	conv, err := NewGoldmarkConverter(opts.Converter)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		preprocessor: &CommonMarkPreprocessor{},
		converter:    conv,
		toc:          NumberedTOC{},
		basePath:     opts.BasePath,
		tocData:      opts.TOC,
	}
	if opts.Sanitize {
		p.sanitizer = NewBluemondaySanitizer()
	}
	return p, nil
}

// RenderMarkdown runs a Markdown body through every stage.
func (p *Pipeline) RenderMarkdown(ctx context.Context, source string) (*Result, error) {
	content := p.preprocessor.PreprocessMarkdown(ctx, source)

	htmlContent, err := p.converter.ToHTML(ctx, content)
	if err != nil {
		return nil, err
	}

	if p.sanitizer != nil {
		htmlContent = p.sanitizer.Sanitize(htmlContent)
	}

	return p.finish(ctx, htmlContent)
}

// RenderHTML handles a body authored as HTML: it is trusted, so only link
// rewriting and TOC extraction apply.
func (p *Pipeline) RenderHTML(ctx context.Context, source string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.finish(ctx, normalizeLineEndings(source))
}

func (p *Pipeline) finish(ctx context.Context, htmlContent string) (*Result, error) {
	rewritten, err := RewriteRootRelative(htmlContent, p.basePath)
	if err != nil {
		return nil, fmt.Errorf("rewriting links: %w", err)
	}

	toc, err := p.toc.BuildTOC(ctx, rewritten, p.tocData)
	if err != nil {
		return nil, err
	}

	return &Result{HTML: rewritten, TOC: toc}, nil
}
