package mdsite

import (
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alnah/go-mdsite/internal/dateutil"
	"github.com/alnah/go-mdsite/internal/pipeline"
)

// SiteData is exposed to templates as .Site.
type SiteData struct {
	Title         string
	BaseURL       string
	HomeURL       string
	Language      string
	StylesheetURL string // replaced by a <style> element when CSS is inlined
	Params        map[string]any
	Pages         []PageData // published documents in order-key order
}

// PageData describes one page to templates.
type PageData struct {
	Title      string
	Permalink  string // "/" + normalized permalink
	URL        string // permalink prefixed with the site base path
	Layout     string
	Type       DocumentType
	Order      string
	Date       time.Time
	DateString string
	Params     map[string]any
}

// TemplateData is the value layouts and partials are executed with.
type TemplateData struct {
	Site    *SiteData
	Page    PageData
	Content template.HTML
	TOC     template.HTML
	SideNav template.HTML
	Pages   []PageData // index pages only
}

// Renderer turns documents into complete HTML pages. It holds the site
// listing for one build and has no side effects.
type Renderer struct {
	b    *Builder
	site *SiteData
}

// NewRenderer returns a Renderer whose .Site.Pages lists the published
// documents among docs, sorted by ordering key.
func (b *Builder) NewRenderer(docs []*Document) *Renderer {
	published := publishedDocuments(docs)
	SortDocuments(published)

	site := &SiteData{
		Title:         b.cfg.site.Title,
		BaseURL:       b.cfg.site.BaseURL,
		HomeURL:       b.basePath + "/",
		Language:      b.cfg.site.Language,
		StylesheetURL: permalinkURL(b.basePath, stylesheetPath),
		Params:        b.cfg.site.Params,
		Pages:         make([]PageData, 0, len(published)),
	}
	r := &Renderer{b: b, site: site}
	for _, doc := range published {
		site.Pages = append(site.Pages, r.pageData(doc))
	}
	return r
}

// Render renders doc through layout and returns the complete page.
// Unpublished documents are refused with ErrNotPublished.
func (r *Renderer) Render(ctx context.Context, doc *Document, layout *Layout) (string, error) {
	if !doc.Published {
		return "", docError(doc.SourcePath, ErrNotPublished)
	}
	if layout == nil {
		return "", docError(doc.SourcePath, fmt.Errorf("%w: %q", ErrUnknownLayout, doc.Layout))
	}

	body, err := r.renderBody(ctx, doc)
	if err != nil {
		return "", docError(doc.SourcePath, err)
	}

	data := TemplateData{
		Site:    r.site,
		Page:    r.pageData(doc),
		Content: template.HTML(body.HTML), // #nosec G203 -- sanitized by the pipeline or trusted HTML source
		TOC:     template.HTML(body.TOC),  // #nosec G203 -- generated from escaped heading text
	}
	if doc.SideNav != "" {
		data.SideNav, err = r.b.layouts.renderPartial(doc.SideNav, data)
		if err != nil {
			return "", docError(doc.SourcePath, err)
		}
	}

	out, err := layout.execute(data)
	if err != nil {
		return "", docError(doc.SourcePath, err)
	}
	return r.finishPage(ctx, out), nil
}

// RenderIndex renders a listing page for docs, which must already be
// selected and ordered by the index.
func (r *Renderer) RenderIndex(ctx context.Context, idx Index, layout *Layout, docs []*Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if layout == nil {
		return "", fmt.Errorf("index %s: %w: %q", idx.Permalink, ErrUnknownLayout, idx.Layout)
	}

	data := TemplateData{
		Site: r.site,
		Page: PageData{
			Title:     idx.Title,
			Permalink: "/" + idx.Permalink,
			URL:       permalinkURL(r.b.basePath, idx.Permalink),
			Layout:    idx.Layout,
		},
		Pages: make([]PageData, 0, len(docs)),
	}
	for _, doc := range docs {
		data.Pages = append(data.Pages, r.pageData(doc))
	}

	out, err := layout.execute(data)
	if err != nil {
		return "", fmt.Errorf("index %s: %w", idx.Permalink, err)
	}
	return r.finishPage(ctx, out), nil
}

func (r *Renderer) renderBody(ctx context.Context, doc *Document) (*pipeline.Result, error) {
	if doc.Type == TypeHTML {
		return r.b.pipeline.RenderHTML(ctx, doc.Body)
	}
	return r.b.pipeline.RenderMarkdown(ctx, doc.Body)
}

func (r *Renderer) finishPage(ctx context.Context, page string) string {
	if r.b.cfg.inlineCSS {
		page = r.b.inliner.InlineStylesheet(ctx, page, r.site.StylesheetURL, r.b.css)
	}
	return page
}

func (r *Renderer) pageData(doc *Document) PageData {
	// The format is validated when the Builder is created.
	dateString, _ := dateutil.FormatDate(doc.Date, r.b.cfg.dateFormat)
	return PageData{
		Title:      doc.Title,
		Permalink:  "/" + doc.Permalink,
		URL:        permalinkURL(r.b.basePath, doc.Permalink),
		Layout:     doc.Layout,
		Type:       doc.Type,
		Order:      doc.Order.String(),
		Date:       doc.Date,
		DateString: dateString,
		Params:     doc.Params,
	}
}

// publishedDocuments returns the published documents of docs, keeping
// their order.
func publishedDocuments(docs []*Document) []*Document {
	out := make([]*Document, 0, len(docs))
	for _, doc := range docs {
		if doc.Published {
			out = append(out, doc)
		}
	}
	return out
}

// templateFuncs are available in every layout and partial.
func templateFuncs(cfg builderConfig, basePath string) template.FuncMap {
	caser := titleCaser(cfg.site.Language)
	return template.FuncMap{
		"relURL": func(p string) string {
			return permalinkURL(basePath, strings.TrimLeft(p, "/"))
		},
		"absURL": func(p string) string {
			return absoluteURL(cfg.site.BaseURL, basePath, p)
		},
		"formatDate": func(t time.Time) (string, error) {
			return dateutil.FormatDate(t, cfg.dateFormat)
		},
		"title": func(s string) string {
			return caser.String(s)
		},
	}
}

// titleCaser returns a title caser for a BCP 47 tag; unparseable tags
// fall back to language-neutral casing.
func titleCaser(lang string) cases.Caser {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Und
	}
	return cases.Title(tag)
}

// absoluteURL prefixes p with the site origin when the base URL has one.
func absoluteURL(baseURL, basePath, p string) string {
	rel := permalinkURL(basePath, strings.TrimLeft(p, "/"))
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return rel
	}
	return u.Scheme + "://" + u.Host + rel
}

// basePathOf returns the path component of a base URL without a trailing
// slash: "https://example.com/docs/" -> "/docs", "" -> "".
func basePathOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	p := strings.TrimRight(u.Path, "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
