package pipeline

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer abstracts HTML sanitizing.
type HTMLSanitizer interface {
	Sanitize(htmlContent string) string
}

// BluemondaySanitizer strips unsafe markup using a bluemonday policy.
type BluemondaySanitizer struct {
	policy *bluemonday.Policy
}

// NewBluemondaySanitizer builds the UGC policy extended with the attributes
// rendered articles rely on: class names for highlighting and block
// attributes, ids for heading anchors and footnotes.
func NewBluemondaySanitizer() *BluemondaySanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[\w\- ]+$`)).Globally()
	p.AllowAttrs("id").Matching(regexp.MustCompile(`^[\p{L}\p{N}_\-:.]+$`)).Globally()
	p.AllowAttrs("role").Matching(regexp.MustCompile(`^doc-[a-z]+$`)).OnElements("a", "div", "section")
	p.AllowElements("mark", "section")
	return &BluemondaySanitizer{policy: p}
}

// Sanitize returns htmlContent with disallowed elements and attributes removed.
func (s *BluemondaySanitizer) Sanitize(htmlContent string) string {
	return s.policy.Sanitize(htmlContent)
}
