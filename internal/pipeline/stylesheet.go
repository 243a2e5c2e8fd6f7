package pipeline

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// StylesheetInliner embeds the site stylesheet into a rendered page.
type StylesheetInliner interface {
	InlineStylesheet(ctx context.Context, page, href, css string) string
}

// LinkInliner replaces the page's <link rel="stylesheet"> to href with a
// <style> element holding css. When the layout does not link href, the
// <style> element goes before </head>, else right after <body>, else in
// front of the page. The rest of the page is kept byte for byte.
type LinkInliner struct{}

// InlineStylesheet returns page with css inlined.
func (LinkInliner) InlineStylesheet(ctx context.Context, page, href, css string) string {
	if css == "" || ctx.Err() != nil {
		return page
	}
	style := "<style>" + escapeStyleText(css) + "</style>"

	s := scanPage(page, href)
	switch {
	case s.linkStart >= 0:
		return page[:s.linkStart] + style + page[s.linkEnd:]
	case s.headClose >= 0:
		return page[:s.headClose] + style + page[s.headClose:]
	case s.bodyOpen >= 0:
		return page[:s.bodyOpen] + style + page[s.bodyOpen:]
	default:
		return style + page
	}
}

// pageScan holds byte offsets into a page; -1 means not found.
type pageScan struct {
	linkStart, linkEnd int // the stylesheet <link> tag
	headClose          int // start of </head>
	bodyOpen           int // just past <body ...>
}

// scanPage tokenizes page and records where the stylesheet link, the end
// of the head and the start of the body are.
func scanPage(page, href string) pageScan {
	s := pageScan{linkStart: -1, linkEnd: -1, headClose: -1, bodyOpen: -1}
	z := html.NewTokenizer(strings.NewReader(page))
	offset := 0
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return s
		}
		size := len(z.Raw())

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			switch atom.Lookup(name) {
			case atom.Link:
				if s.linkStart < 0 && hasAttr && linksStylesheet(z, href) {
					s.linkStart, s.linkEnd = offset, offset+size
				}
			case atom.Body:
				if s.bodyOpen < 0 {
					s.bodyOpen = offset + size
				}
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.Head && s.headClose < 0 {
				s.headClose = offset
			}
		}
		offset += size
	}
}

// linksStylesheet reports whether the current <link> tag is a stylesheet
// link to href.
func linksStylesheet(z *html.Tokenizer, href string) bool {
	var rel, target string
	for {
		key, val, more := z.TagAttr()
		switch string(key) {
		case "rel":
			rel = strings.ToLower(string(val))
		case "href":
			target = string(val)
		}
		if !more {
			break
		}
	}
	return href != "" && target == href && slices.Contains(strings.Fields(rel), "stylesheet")
}

// escapeStyleText keeps css from closing the <style> element early.
func escapeStyleText(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
