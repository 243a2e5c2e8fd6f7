package pipeline

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// urlAttrs lists the attributes rewritten per element.
var urlAttrs = map[string]string{
	"a":      "href",
	"img":    "src",
	"source": "src",
	"video":  "src",
	"audio":  "src",
	"link":   "href",
}

// RewriteRootRelative prefixes root-relative URLs ("/img/x.png") with
// basePath so a site deployed below a path ("/abseil/") keeps working.
// If basePath is empty or "/", returns the HTML unchanged.
//
// Does NOT rewrite:
//   - Relative paths ("img/x.png"), anchors, or absolute URLs
//   - Protocol-relative URLs ("//cdn.example.com/x.js")
//   - URLs already under basePath
//   - srcset attributes and CSS url() references
func RewriteRootRelative(htmlContent, basePath string) (string, error) {
	prefix := strings.TrimRight(basePath, "/")
	if prefix == "" {
		return htmlContent, nil
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}

	// Parse HTML - detect if full document or fragment
	doc, isFragment, err := parseHTML(htmlContent)
	if err != nil {
		return "", err
	}

	rewriteNode(doc, prefix)

	return renderHTML(doc, isFragment)
}

// parseHTML parses HTML content, handling both full documents and fragments.
// Returns the parsed node, whether it was a fragment, and any error.
func parseHTML(content string) (*html.Node, bool, error) {
	trimmed := strings.TrimSpace(content)

	// Full document: starts with <!DOCTYPE or <html
	if strings.HasPrefix(strings.ToLower(trimmed), "<!doctype") ||
		strings.HasPrefix(strings.ToLower(trimmed), "<html") {
		doc, err := html.Parse(strings.NewReader(content))
		return doc, false, err
	}

	// Fragment: parse with body context to avoid wrapping
	context := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(content), context)
	if err != nil {
		return nil, true, err
	}

	// Wrap nodes in a container for uniform traversal
	container := &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	return container, true, nil
}

// renderHTML renders the document back to string.
// For fragments, only renders the children (avoids adding <html><body> wrapper).
func renderHTML(doc *html.Node, isFragment bool) (string, error) {
	var buf strings.Builder

	if isFragment {
		for c := doc.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// rewriteNode traverses the DOM and prefixes root-relative URLs.
func rewriteNode(n *html.Node, prefix string) {
	if n.Type == html.ElementNode {
		if attr, ok := urlAttrs[n.Data]; ok {
			rewriteAttr(n, attr, prefix)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteNode(c, prefix)
	}
}

// rewriteAttr rewrites a single attribute if it's root-relative.
func rewriteAttr(n *html.Node, attrName, prefix string) {
	for i, attr := range n.Attr {
		if attr.Key != attrName || !isRootRelative(attr.Val) {
			continue
		}
		if attr.Val == prefix || strings.HasPrefix(attr.Val, prefix+"/") {
			continue
		}
		n.Attr[i].Val = prefix + attr.Val
	}
}

// isRootRelative returns true for "/path" but not "//host/path".
func isRootRelative(path string) bool {
	return strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "//")
}
