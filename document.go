package mdsite

import (
	"bytes"
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/spf13/afero"

	"github.com/alnah/go-mdsite/internal/assets"
	"github.com/alnah/go-mdsite/internal/dateutil"
	"github.com/alnah/go-mdsite/internal/yamlutil"
)

// DocumentType selects how a document body is turned into HTML.
type DocumentType string

// Document body types.
const (
	TypeMarkdown DocumentType = "markdown"
	TypeHTML     DocumentType = "html"
)

// Front-matter keys with a meaning of their own. Every other key is kept
// in Document.Params.
const (
	keyTitle     = "title"
	keyLayout    = "layout"
	keySideNav   = "sidenav"
	keyPublished = "published"
	keyPermalink = "permalink"
	keyType      = "type"
	keyOrder     = "order"
	keyDate      = "date"
)

// documentExts are the file extensions LoadDocuments picks up.
var documentExts = map[string]DocumentType{
	".md":       TypeMarkdown,
	".markdown": TypeMarkdown,
	".html":     TypeHTML,
}

// frontMatterFormat is YAML between "---" fences, decoded with go-yaml.
var frontMatterFormat = frontmatter.NewFormat("---", "---", yamlutil.UnmarshalBlock)

// Document is one source file: front-matter metadata plus a raw body.
type Document struct {
	SourcePath string
	Title      string
	Layout     string       // layout name, without extension
	SideNav    string       // partial name, without extension; empty = none
	Published  bool         // defaults to true
	Permalink  string       // normalized, see NormalizePermalink
	Type       DocumentType // defaults to markdown
	Order      OrderKey
	Date       time.Time // zero when absent
	Params     map[string]any
	Body       string
}

// OutputPath returns where the document is written, relative to the output
// directory.
func (d *Document) OutputPath() string {
	return OutputPath(d.Permalink)
}

// ParseDocument parses front-matter and body. path is used for error
// messages and to default the type of .html files.
func ParseDocument(path string, data []byte) (*Document, error) {
	var fm map[string]any
	body, err := frontmatter.MustParse(bytes.NewReader(data), &fm, frontMatterFormat)
	if err != nil {
		if errors.Is(err, frontmatter.ErrNotFound) {
			return nil, docError(path, ErrMissingFrontMatter)
		}
		return nil, docError(path, fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err))
	}

	doc := &Document{
		SourcePath: path,
		Published:  true,
		Type:       TypeMarkdown,
		Body:       string(body),
		Params:     make(map[string]any),
	}
	if t, ok := documentExts[strings.ToLower(filepath.Ext(path))]; ok {
		doc.Type = t
	}

	if err := doc.applyFrontMatter(fm); err != nil {
		return nil, docError(path, err)
	}
	return doc, nil
}

func (d *Document) applyFrontMatter(fm map[string]any) error {
	var err error

	if d.Title, err = requiredString(fm, keyTitle); err != nil {
		return err
	}
	if d.Layout, err = requiredString(fm, keyLayout); err != nil {
		return err
	}
	d.Layout = assets.NormalizeTemplateName(d.Layout)

	rawPermalink, err := requiredString(fm, keyPermalink)
	if err != nil {
		return err
	}
	if d.Permalink, err = NormalizePermalink(rawPermalink); err != nil {
		return err
	}

	for _, key := range slices.Sorted(maps.Keys(fm)) {
		value := fm[key]
		switch key {
		case keyTitle, keyLayout, keyPermalink:
		case keySideNav:
			s, err := stringValue(key, value)
			if err != nil {
				return err
			}
			d.SideNav = assets.NormalizeTemplateName(s)
		case keyPublished:
			if d.Published, err = boolValue(key, value); err != nil {
				return err
			}
		case keyType:
			if d.Type, err = typeValue(value); err != nil {
				return err
			}
		case keyOrder:
			if d.Order, err = orderValue(value); err != nil {
				return err
			}
		case keyDate:
			if d.Date, err = dateValue(value); err != nil {
				return err
			}
		default:
			d.Params[key] = value
		}
	}
	return nil
}

func requiredString(fm map[string]any, key string) (string, error) {
	value, ok := fm[key]
	if !ok || value == nil {
		return "", fmt.Errorf("%w: %q", ErrMissingField, key)
	}
	s, err := stringValue(key, value)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: %q is empty", ErrMissingField, key)
	}
	return strings.TrimSpace(s), nil
}

// stringValue accepts YAML scalars, so "permalink: 404" reads as "404".
func stringValue(key string, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case int, int64, uint64, float64:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("%w: %q must be a string, got %T", ErrInvalidField, key, value)
	}
}

func boolValue(key string, value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("%w: %q must be true or false, got %q", ErrInvalidField, key, v)
		}
		return b, nil
	default:
		return false, fmt.Errorf("%w: %q must be true or false, got %T", ErrInvalidField, key, value)
	}
}

func typeValue(value any) (DocumentType, error) {
	s, err := stringValue(keyType, value)
	if err != nil {
		return "", err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return TypeMarkdown, nil
	case "html":
		return TypeHTML, nil
	default:
		return "", fmt.Errorf("%w: %q must be markdown or html, got %q", ErrInvalidField, keyType, s)
	}
}

func orderValue(value any) (OrderKey, error) {
	switch v := value.(type) {
	case nil:
		return OrderKey{}, nil
	case string:
		return StringOrder(v), nil
	case int:
		return NumericOrder(float64(v)), nil
	case int64:
		return NumericOrder(float64(v)), nil
	case uint64:
		return NumericOrder(float64(v)), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return OrderKey{}, fmt.Errorf("%w: %q must be finite", ErrInvalidField, keyOrder)
		}
		return NumericOrder(v), nil
	default:
		return OrderKey{}, fmt.Errorf("%w: %q must be a string or number, got %T", ErrInvalidField, keyOrder, value)
	}
}

func dateValue(value any) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case string:
		t, err := dateutil.ParseDate(v)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %w", ErrInvalidField, keyDate, err)
		}
		return t, nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q must be a date, got %T", ErrInvalidField, keyDate, value)
	}
}

// IsDocumentFile reports whether path has a document extension.
func IsDocumentFile(path string) bool {
	_, ok := documentExts[strings.ToLower(filepath.Ext(path))]
	return ok
}

// LoadDocuments reads every document under dir. Hidden files and
// directories are skipped. All parse errors are returned together, each
// naming its file; documents come back sorted by source path.
func LoadDocuments(fs afero.Fs, dir string) ([]*Document, error) {
	info, err := fs.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: content directory %s does not exist", ErrReadDocument, dir)
		}
		return nil, fmt.Errorf("%w: %v", ErrReadDocument, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrReadDocument, dir)
	}

	var (
		docs []*Document
		errs []error
	)
	walkErr := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			errs = append(errs, docError(path, fmt.Errorf("%w: %v", ErrReadDocument, err)))
			return nil
		}
		if path != dir && strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() || !IsDocumentFile(path) {
			return nil
		}

		data, err := afero.ReadFile(fs, path)
		if err != nil {
			errs = append(errs, docError(path, fmt.Errorf("%w: %v", ErrReadDocument, err)))
			return nil
		}
		doc, err := ParseDocument(path, data)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if walkErr != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrReadDocument, walkErr))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	slices.SortFunc(docs, func(a, b *Document) int { return strings.Compare(a.SourcePath, b.SourcePath) })
	return docs, nil
}
