package pipeline

import (
	"context"
	"regexp"
	"strings"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress multiple blank lines to max 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// Block attribute line: {: .bad-code .wide}
	blockAttrPattern = regexp.MustCompile(`^\s*\{:\s*((?:\.[A-Za-z][\w-]*\s*)+)\}\s*$`)

	// Opening or closing code fence: ``` or ~~~, at most 3 spaces indent
	fencePattern = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})")
)

// MarkdownPreprocessor defines the contract for markdown preprocessing.
type MarkdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// CommonMarkPreprocessor applies transformations before CommonMark conversion.
type CommonMarkPreprocessor struct{}

// PreprocessMarkdown applies all transformations to prepare Markdown for conversion.
func (p *CommonMarkPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	// Check for cancellation before processing
	if ctx.Err() != nil {
		return content
	}

	content = strings.TrimPrefix(content, "\uFEFF")
	content = normalizeLineEndings(content)
	content = applyBlockAttributes(content)
	content = compressBlankLines(content)
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to 2 maximum.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// applyBlockAttributes handles kramdown-style attribute lines. A line such
// as "{: .bad-code}" directly after a fenced code block wraps that block in
// <div class="bad-code">. Attribute lines anywhere else are dropped.
// Lines inside fenced blocks are never touched.
func applyBlockAttributes(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	var fence string
	blockStart := -1 // index in out of the current fence opening line
	lastBlockStart, lastBlockEnd := -1, -1

	for _, line := range lines {
		if fence != "" {
			out = append(out, line)
			if isClosingFence(line, fence) {
				fence = ""
				lastBlockStart, lastBlockEnd = blockStart, len(out)-1
			}
			continue
		}

		if m := blockAttrPattern.FindStringSubmatch(line); m != nil {
			if lastBlockEnd == len(out)-1 && lastBlockStart >= 0 {
				out = wrapBlock(out, lastBlockStart, classList(m[1]))
			}
			lastBlockStart, lastBlockEnd = -1, -1
			continue
		}

		if m := fencePattern.FindStringSubmatch(line); m != nil {
			fence = m[1]
			blockStart = len(out)
		}
		out = append(out, line)
	}

	return strings.Join(out, "\n")
}

// wrapBlock surrounds out[start:] with a div carrying classes. Blank lines
// separate the raw HTML from the fence so goldmark still parses the code.
func wrapBlock(out []string, start int, classes string) []string {
	block := append([]string(nil), out[start:]...)
	out = append(out[:start], `<div class="`+classes+`">`, "")
	out = append(out, block...)
	return append(out, "", "</div>")
}

// classList turns ".a .b" into "a b".
func classList(attrs string) string {
	fields := strings.Fields(attrs)
	classes := make([]string, 0, len(fields))
	for _, f := range fields {
		classes = append(classes, strings.TrimPrefix(f, "."))
	}
	return strings.Join(classes, " ")
}

// isClosingFence reports whether line closes a block opened with fence.
func isClosingFence(line, fence string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return false
	}
	run := strings.TrimRight(trimmed, " \t")
	if len(run) < len(fence) || run[0] != fence[0] {
		return false
	}
	return strings.Trim(run, string(fence[0])) == ""
}
