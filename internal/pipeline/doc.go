// Package pipeline implements the document body pipeline that turns a
// Markdown or HTML source body into the HTML fragment placed in a layout.
//
// Stages, in order:
//   - Markdown preprocessing (line normalization, BOM removal, block
//     attribute lines following fenced code)
//   - Markdown to HTML conversion via goldmark with chroma highlighting
//     and ==mark== spans
//   - HTML sanitizing via bluemonday
//   - Root-relative link rewriting for sites served below a path prefix
//   - Table of contents extraction
//
// The package also renders the chroma stylesheet for the configured
// highlight style and inlines the site stylesheet into finished pages.
package pipeline
