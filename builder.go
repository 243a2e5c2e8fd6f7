package mdsite

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdsite/internal/assets"
	"github.com/alnah/go-mdsite/internal/dateutil"
	"github.com/alnah/go-mdsite/internal/fileutil"
	"github.com/alnah/go-mdsite/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pipeline.HTMLSanitizer        = (*pipeline.BluemondaySanitizer)(nil)
	_ pipeline.StylesheetInliner    = pipeline.LinkInliner{}
	_ pipeline.TOCBuilder           = pipeline.NumberedTOC{}
	_ assets.AssetLoader            = (*assets.AssetResolver)(nil)
)

// stylesheetPath is where the combined stylesheet is written, relative to
// the output directory.
const stylesheetPath = "css/site.css"

// sampleDate checks date formats at construction.
var sampleDate = time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)

// Builder renders a set of documents into a static site.
// Create with NewBuilder; a Builder can run any number of sequential builds.
type Builder struct {
	cfg      builderConfig
	basePath string
	layouts  *LayoutSet
	pipeline *pipeline.Pipeline
	inliner  pipeline.StylesheetInliner
	css      string
}

// NewBuilder creates a Builder with default configuration.
// Use options to customize behavior (e.g., WithSite, WithAssetPath).
// Returns error if the theme, style, highlight style or date format is
// invalid.
func NewBuilder(opts ...Option) (*Builder, error) {
	b := &Builder{
		cfg:     defaultBuilderConfig(),
		inliner: pipeline.LinkInliner{},
	}
	for _, opt := range opts {
		opt(b)
	}
	b.basePath = basePathOf(b.cfg.site.BaseURL)

	if _, err := dateutil.FormatDate(sampleDate, b.cfg.dateFormat); err != nil {
		return nil, err
	}

	resolver, err := assets.NewAssetResolver(b.cfg.fs, b.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}

	b.layouts, err = NewLayoutSet(resolver, templateFuncs(b.cfg, b.basePath))
	if err != nil {
		return nil, err
	}

	popts := pipeline.Options{
		Converter: pipeline.ConverterOptions{
			Highlight:      b.cfg.markdown.Highlight,
			HighlightStyle: b.cfg.markdown.HighlightStyle,
			LineNumbers:    b.cfg.markdown.LineNumbers,
			HardWraps:      b.cfg.markdown.HardWraps,
		},
		Sanitize: b.cfg.markdown.Sanitize,
		BasePath: b.basePath,
	}
	if t := b.cfg.toc; t != nil {
		popts.TOC = &pipeline.TOCData{Title: t.Title, MinDepth: t.MinDepth, MaxDepth: t.MaxDepth}
	}
	if b.pipeline, err = pipeline.New(popts); err != nil {
		return nil, err
	}

	if b.css, err = b.loadCSS(resolver); err != nil {
		return nil, err
	}
	return b, nil
}

// loadCSS combines the theme stylesheet with the highlight style's CSS.
func (b *Builder) loadCSS(loader assets.AssetLoader) (string, error) {
	var parts []string
	if name := strings.TrimSpace(b.cfg.style); name != "" {
		css, err := loader.LoadStyle(name)
		if err != nil {
			if errors.Is(err, assets.ErrStyleNotFound) || errors.Is(err, assets.ErrInvalidAssetName) {
				return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
			}
			return "", fmt.Errorf("loading style %q: %w", name, err)
		}
		parts = append(parts, css)
	}
	if b.cfg.markdown.Highlight {
		css, err := pipeline.SyntaxCSS(b.cfg.markdown.HighlightStyle)
		if err != nil {
			return "", err
		}
		parts = append(parts, css)
	}
	return strings.Join(parts, "\n"), nil
}

// Layouts returns the names of the layouts the theme provides.
func (b *Builder) Layouts() ([]string, error) {
	return b.layouts.Layouts()
}

// Partials returns the names of the partials the theme provides.
func (b *Builder) Partials() []string {
	return b.layouts.Partials()
}

// BuildInput is one build's documents and destination.
type BuildInput struct {
	Documents []*Document
	OutputDir string
	StaticDir string // copied into OutputDir when it exists; "" = none
	DryRun    bool   // validate and render without writing
}

// BuildResult reports what a build produced. Paths are slash-separated
// and relative to the output directory.
type BuildResult struct {
	Pages       []string // document pages, in order-key order
	Indexes     []string
	Stylesheet  string   // empty when CSS is inlined
	Unpublished []string // source paths of skipped documents
	Static      bool     // static directory copied
}

// renderedPage is a page held in memory until every page has rendered.
type renderedPage struct {
	out  string
	data []byte
}

// resolved is a document or index with its layout.
type resolved struct {
	doc    *Document
	index  *Index
	docs   []*Document // index listing
	layout *Layout
}

// Build validates and renders every published document, then writes the
// site. Configuration errors (bad permalinks, duplicates, unknown layouts
// or partials) are all reported before anything is written.
func (b *Builder) Build(ctx context.Context, in BuildInput) (*BuildResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !in.DryRun {
		if err := b.checkOutputDir(in); err != nil {
			return nil, err
		}
	}

	result := &BuildResult{}
	docs := make([]*Document, 0, len(in.Documents))
	for _, doc := range in.Documents {
		if !doc.Published {
			b.cfg.logger.Debug("skipping unpublished document", "path", doc.SourcePath)
			result.Unpublished = append(result.Unpublished, doc.SourcePath)
			continue
		}
		docs = append(docs, doc)
	}
	SortDocuments(docs)

	indexes, err := b.normalizeIndexes()
	if err != nil {
		return nil, err
	}

	if err := b.planOutputs(docs, indexes); err != nil {
		return nil, err
	}

	items, err := b.resolve(docs, indexes)
	if err != nil {
		return nil, err
	}

	pages, err := b.render(ctx, docs, items, result)
	if err != nil {
		return nil, err
	}
	if !b.cfg.inlineCSS {
		result.Stylesheet = stylesheetPath
	}

	if in.DryRun {
		b.cfg.logger.Info("check complete",
			"pages", len(result.Pages), "indexes", len(result.Indexes), "unpublished", len(result.Unpublished))
		return result, nil
	}

	if err := b.write(ctx, in, pages, result); err != nil {
		return nil, err
	}
	b.cfg.logger.Info("build complete",
		"output", in.OutputDir, "pages", len(result.Pages), "indexes", len(result.Indexes),
		"unpublished", len(result.Unpublished))
	return result, nil
}

// checkOutputDir refuses output directories a clean would make dangerous.
func (b *Builder) checkOutputDir(in BuildInput) error {
	dir := strings.TrimSpace(in.OutputDir)
	if dir == "" {
		return fmt.Errorf("%w: no output directory", ErrUnsafeOutputDir)
	}
	clean := filepath.Clean(dir)
	if b.cfg.cleanOutput && (clean == "." || clean == string(filepath.Separator) || clean == filepath.VolumeName(clean)+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrUnsafeOutputDir, dir)
	}
	if in.StaticDir != "" && filepath.Clean(in.StaticDir) == clean {
		return fmt.Errorf("%w: %s is also the static directory", ErrUnsafeOutputDir, dir)
	}
	if b.cfg.cleanOutput {
		if fileutil.EscapesParent(clean) {
			return fmt.Errorf("%w: %s is above the working directory", ErrUnsafeOutputDir, dir)
		}
		if err := b.checkInputsOutside(clean, in); err != nil {
			return err
		}
	}
	if fileutil.FileExists(b.cfg.fs, clean) {
		return fmt.Errorf("%w: %s: %w", ErrUnsafeOutputDir, dir, fileutil.ErrNotDirectory)
	}
	return nil
}

// checkInputsOutside refuses to clean an output directory that holds the
// static files, the theme or any document source.
func (b *Builder) checkInputsOutside(out string, in BuildInput) error {
	inputs := []struct{ kind, path string }{
		{"static directory", in.StaticDir},
		{"theme directory", b.cfg.assetPath},
	}
	for _, doc := range in.Documents {
		inputs = append(inputs, struct{ kind, path string }{"document", doc.SourcePath})
	}
	for _, input := range inputs {
		if input.path != "" && fileutil.IsWithin(out, input.path) {
			return fmt.Errorf("%w: %s contains %s %s", ErrUnsafeOutputDir, in.OutputDir, input.kind, input.path)
		}
	}
	return nil
}

func (b *Builder) normalizeIndexes() ([]Index, error) {
	out := make([]Index, 0, len(b.cfg.indexes))
	var errs []error
	for _, idx := range b.cfg.indexes {
		n, err := idx.normalize(b.cfg.site.Title, b.cfg.site.Language)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, n)
	}
	return out, errors.Join(errs...)
}

// planOutputs claims every output path and reports duplicates and
// file-versus-directory conflicts together.
func (b *Builder) planOutputs(docs []*Document, indexes []Index) error {
	plan := newOutputPlan()
	var errs []error
	for _, doc := range docs {
		if err := plan.claim(doc.OutputPath(), doc.SourcePath); err != nil {
			errs = append(errs, docError(doc.SourcePath, err))
		}
	}
	for _, idx := range indexes {
		if err := plan.claim(OutputPath(idx.Permalink), "index "+displayPermalink(idx.Permalink)); err != nil {
			errs = append(errs, err)
		}
	}
	if !b.cfg.inlineCSS {
		if err := plan.claim(stylesheetPath, "the site stylesheet"); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, plan.conflicts()...)
	return errors.Join(errs...)
}

// resolve looks up every layout and sidenav partial before rendering.
func (b *Builder) resolve(docs []*Document, indexes []Index) ([]resolved, error) {
	items := make([]resolved, 0, len(docs)+len(indexes))
	var errs []error

	for _, doc := range docs {
		layout, err := b.layouts.Lookup(doc.Layout)
		if err != nil {
			errs = append(errs, docError(doc.SourcePath, err))
			continue
		}
		if doc.SideNav != "" && !b.layouts.HasPartial(doc.SideNav) {
			errs = append(errs, docError(doc.SourcePath, fmt.Errorf("%w: sidenav %q", ErrUnknownPartial, doc.SideNav)))
			continue
		}
		items = append(items, resolved{doc: doc, layout: layout})
	}

	for i := range indexes {
		idx := &indexes[i]
		layout, err := b.layouts.Lookup(idx.Layout)
		if err != nil {
			errs = append(errs, fmt.Errorf("index %s: %w", displayPermalink(idx.Permalink), err))
			continue
		}
		items = append(items, resolved{index: idx, docs: idx.Select(docs), layout: layout})
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return items, nil
}

// render renders every page in memory, documents first in order-key order,
// then index pages.
func (b *Builder) render(ctx context.Context, docs []*Document, items []resolved, result *BuildResult) ([]renderedPage, error) {
	r := b.NewRenderer(docs)
	pages := make([]renderedPage, 0, len(items))

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if item.doc != nil {
			html, err := r.Render(ctx, item.doc, item.layout)
			if err != nil {
				return nil, err
			}
			out := item.doc.OutputPath()
			pages = append(pages, renderedPage{out: out, data: []byte(html)})
			result.Pages = append(result.Pages, out)
			continue
		}

		html, err := r.RenderIndex(ctx, *item.index, item.layout, item.docs)
		if err != nil {
			return nil, err
		}
		out := OutputPath(item.index.Permalink)
		pages = append(pages, renderedPage{out: out, data: []byte(html)})
		result.Indexes = append(result.Indexes, out)
	}
	return pages, nil
}

// write puts the rendered site into the output directory. Every file is
// renamed into place, so a server reading the directory during a rebuild
// sees either the previous or the new version. With cleanOutput, files
// this build did not produce are pruned afterwards.
func (b *Builder) write(ctx context.Context, in BuildInput, pages []renderedPage, result *BuildResult) error {
	fs := b.cfg.fs
	if err := fs.MkdirAll(in.OutputDir, fileutil.DirPermissions); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	keep := make(map[string]bool, len(pages)+1)
	if in.StaticDir != "" && fileutil.DirExists(fs, in.StaticDir) {
		copied, err := fileutil.CopyDir(fs, in.StaticDir, in.OutputDir)
		if err != nil {
			return fmt.Errorf("%w: copying static files: %v", ErrWriteOutput, err)
		}
		for _, rel := range copied {
			keep[rel] = true
		}
		result.Static = true
	}

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := b.writeFile(in.OutputDir, page.out, page.data); err != nil {
			return err
		}
		keep[page.out] = true
		b.cfg.logger.Debug("wrote page", "path", page.out)
	}

	if !b.cfg.inlineCSS {
		if err := b.writeFile(in.OutputDir, stylesheetPath, []byte(b.css)); err != nil {
			return err
		}
		keep[stylesheetPath] = true
	}

	if b.cfg.cleanOutput {
		if err := fileutil.Prune(fs, in.OutputDir, keep); err != nil {
			return fmt.Errorf("%w: cleaning %s: %v", ErrWriteOutput, in.OutputDir, err)
		}
	}
	return nil
}

func (b *Builder) writeFile(dir, rel string, data []byte) error {
	target := filepath.Join(dir, filepath.FromSlash(rel))
	if b.cfg.cleanOutput {
		if err := b.clearStale(dir, target); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWriteOutput, rel, err)
		}
	}
	if err := fileutil.WriteFileAtomic(b.cfg.fs, target, data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, rel, err)
	}
	return nil
}

// clearStale removes what an earlier build left in the way of target: a
// directory at target itself, or a file where target needs a directory.
func (b *Builder) clearStale(dir, target string) error {
	fs := b.cfg.fs
	if fileutil.DirExists(fs, target) {
		return fs.RemoveAll(target)
	}
	root := filepath.Clean(dir)
	for p := filepath.Dir(target); p != root && fileutil.IsWithin(root, p); p = filepath.Dir(p) {
		if fileutil.FileExists(fs, p) {
			return fs.Remove(p)
		}
	}
	return nil
}

// displayPermalink formats a normalized permalink for messages.
func displayPermalink(p string) string {
	return "/" + p
}
