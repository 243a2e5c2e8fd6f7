package mdsite

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/alnah/go-mdsite/internal/assets"
)

// DefaultIndexLayout renders index pages without an explicit layout.
const DefaultIndexLayout = "index"

// Index is a listing page of published documents, in order-key order.
type Index struct {
	Permalink   string
	Title       string // defaults from the permalink, or the site title at the root
	Layout      string // defaults to DefaultIndexLayout
	MatchLayout string // only documents using this layout; empty = all
	MatchPrefix string // only documents whose permalink starts with this; empty = all
	Reverse     bool
	Limit       int // 0 = no limit
}

// normalize validates idx and fills in defaults.
func (idx Index) normalize(siteTitle, lang string) (Index, error) {
	p, err := NormalizePermalink(idx.Permalink)
	if err != nil {
		return Index{}, fmt.Errorf("%w: %w", ErrInvalidIndex, err)
	}
	if idx.Limit < 0 {
		return Index{}, fmt.Errorf("%w: %s: negative limit %d", ErrInvalidIndex, p, idx.Limit)
	}
	idx.Permalink = p

	idx.Layout = assets.NormalizeTemplateName(idx.Layout)
	if idx.Layout == "" {
		idx.Layout = DefaultIndexLayout
	}
	idx.MatchLayout = assets.NormalizeTemplateName(idx.MatchLayout)
	idx.MatchPrefix = strings.TrimLeft(strings.TrimSpace(idx.MatchPrefix), "/")

	if strings.TrimSpace(idx.Title) == "" {
		idx.Title = defaultIndexTitle(p, siteTitle, lang)
	}
	return idx, nil
}

// defaultIndexTitle title-cases the last permalink segment:
// "tips/" -> "Tips", "go-notes" -> "Go Notes".
func defaultIndexTitle(permalink, siteTitle, lang string) string {
	seg := path.Base(strings.TrimSuffix(permalink, "/"))
	if permalink == "" || seg == "." || seg == "/" {
		return siteTitle
	}
	seg = strings.NewReplacer("-", " ", "_", " ").Replace(seg)
	return titleCaser(lang).String(seg)
}

// matches reports whether doc belongs on the listing.
func (idx Index) matches(doc *Document) bool {
	if idx.MatchLayout != "" && doc.Layout != idx.MatchLayout {
		return false
	}
	return idx.MatchPrefix == "" || strings.HasPrefix(doc.Permalink, idx.MatchPrefix)
}

// Select returns the documents listed by idx. docs must be published and
// sorted; the input slice is not modified.
func (idx Index) Select(docs []*Document) []*Document {
	var out []*Document
	for _, doc := range docs {
		if doc.Published && idx.matches(doc) {
			out = append(out, doc)
		}
	}
	if idx.Reverse {
		slices.Reverse(out)
	}
	if idx.Limit > 0 && len(out) > idx.Limit {
		out = out[:idx.Limit]
	}
	return out
}
