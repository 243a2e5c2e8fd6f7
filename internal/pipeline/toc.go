package pipeline

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// TOCData holds TOC configuration.
type TOCData struct {
	Title    string
	MinDepth int // Minimum heading level (default: 2, skips H1)
	MaxDepth int // Maximum heading level (default: 3)
}

// Heading is a heading extracted from rendered HTML.
type Heading struct {
	Level int    // 1-6
	ID    string // anchor ID
	Text  string // heading text content
}

// headingPattern matches h1-h6 tags with id attribute.
// Captures: 1=level, 2=id, 3=inner HTML (may contain inline tags)
var headingPattern = regexp.MustCompile(`(?is)<h([1-6])[^>]*\bid="([^"]*)"[^>]*>(.*?)</h[1-6]>`)

// htmlTagPattern matches HTML tags for stripping from heading text.
var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTMLTags removes HTML tags from a string, decodes HTML entities,
// and trims whitespace. Decoding entities avoids double-encoding when the
// text is escaped again for the TOC.
func stripHTMLTags(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}

// ExtractHeadings parses HTML and returns headings between minDepth and maxDepth.
// Headings without IDs are skipped.
func ExtractHeadings(htmlContent string, minDepth, maxDepth int) []Heading {
	matches := headingPattern.FindAllStringSubmatch(htmlContent, -1)
	if len(matches) == 0 {
		return nil
	}

	var headings []Heading
	for _, m := range matches {
		level, _ := strconv.Atoi(m[1])
		if level < minDepth || level > maxDepth {
			continue
		}
		headings = append(headings, Heading{
			Level: level,
			ID:    m[2],
			Text:  stripHTMLTags(m[3]),
		})
	}
	return headings
}

// numberingState tracks hierarchical numbering for TOC entries.
// Supports normalization (first heading becomes level 1) and gap skipping.
type numberingState struct {
	counters     [6]int // counters[0] = level 1 count, etc.
	minLevelSeen int    // for normalization (0 = not set)
	lastLevel    int    // for tracking parent relationships
}

// next returns the next number string and effective depth for the given heading level.
func (n *numberingState) next(level int) (numStr string, effectiveDepth int) {
	if n.minLevelSeen == 0 {
		n.minLevelSeen = level
	}

	effectiveDepth = level - n.minLevelSeen + 1
	if effectiveDepth < 1 {
		effectiveDepth = 1
	}

	// Gap skipping: H2 -> H4 becomes depth 1 -> depth 2
	if n.lastLevel > 0 && effectiveDepth > n.lastLevel+1 {
		effectiveDepth = n.lastLevel + 1
	}

	for i := effectiveDepth; i < 6; i++ {
		n.counters[i] = 0
	}

	n.counters[effectiveDepth-1]++
	n.lastLevel = effectiveDepth

	parts := make([]string, 0, effectiveDepth)
	for i := 0; i < effectiveDepth; i++ {
		parts = append(parts, strconv.Itoa(n.counters[i]))
	}
	return strings.Join(parts, ".") + ".", effectiveDepth
}

// generateNumberedTOC creates HTML for a numbered table of contents.
// Uses <div> elements instead of <ul>/<li> to avoid list-style conflicts.
func generateNumberedTOC(headings []Heading, title string) string {
	if len(headings) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString(`<div class="toc-body">`)

	if title != "" {
		buf.WriteString(`<h2 class="toc-title">`)
		buf.WriteString(html.EscapeString(title))
		buf.WriteString(`</h2>`)
	}

	buf.WriteString(`<div class="toc-list">`)

	var numbering numberingState
	for _, h := range headings {
		num, effectiveDepth := numbering.next(h.Level)

		buf.WriteString(`<div class="toc-item`)
		if effectiveDepth > 1 {
			fmt.Fprintf(&buf, ` toc-depth-%d`, effectiveDepth)
		}
		buf.WriteString(`"><a href="#`)
		buf.WriteString(html.EscapeString(h.ID))
		buf.WriteString(`">`)
		buf.WriteString(num)
		buf.WriteString(` `)
		buf.WriteString(html.EscapeString(h.Text))
		buf.WriteString(`</a></div>`)
	}

	buf.WriteString(`</div></div>`)
	return buf.String()
}

// TOCBuilder defines the contract for table of contents generation.
type TOCBuilder interface {
	BuildTOC(ctx context.Context, htmlContent string, data *TOCData) (string, error)
}

// NumberedTOC implements TOCBuilder.
type NumberedTOC struct{}

// BuildTOC extracts headings from a rendered body and returns the TOC
// markup, or "" when data is nil or no heading is in range.
func (NumberedTOC) BuildTOC(ctx context.Context, htmlContent string, data *TOCData) (string, error) {
	if data == nil {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	headings := ExtractHeadings(htmlContent, data.MinDepth, data.MaxDepth)
	return generateNumberedTOC(headings, data.Title), nil
}
