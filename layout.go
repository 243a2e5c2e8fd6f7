package mdsite

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"slices"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/alnah/go-mdsite/internal/assets"
)

// Layout is a parsed page layout. Every theme partial is available inside
// it through {{ template "name" . }}.
type Layout struct {
	Name   string
	Parent *Layout // nil for a top-level layout
	tmpl   *template.Template
}

// execute renders the layout chain: each layout's output becomes its
// parent's .Content.
func (l *Layout) execute(data TemplateData) (string, error) {
	for cur := l; ; cur = cur.Parent {
		var buf bytes.Buffer
		if err := cur.tmpl.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrLayoutExecute, cur.Name, err)
		}
		if cur.Parent == nil {
			return buf.String(), nil
		}
		data.Content = template.HTML(buf.String()) // #nosec G203 -- output of an html/template execution
	}
}

// LayoutSet loads layouts by name from a theme and caches them.
// Not safe for concurrent use.
type LayoutSet struct {
	loader   assets.AssetLoader
	funcs    template.FuncMap
	partials map[string]string
	names    []string // partial names, sorted
	sidenavs *template.Template
	layouts  map[string]*Layout
}

// NewLayoutSet loads and parses every partial of the theme. Layouts are
// parsed on first lookup.
func NewLayoutSet(loader assets.AssetLoader, funcs template.FuncMap) (*LayoutSet, error) {
	names, err := loader.ListPartials()
	if err != nil {
		return nil, fmt.Errorf("listing partials: %w", err)
	}

	s := &LayoutSet{
		loader:   loader,
		funcs:    funcs,
		partials: make(map[string]string, len(names)),
		names:    names,
		sidenavs: template.New("").Funcs(funcs),
		layouts:  make(map[string]*Layout),
	}

	for _, name := range names {
		src, err := loader.LoadPartial(name)
		if err != nil {
			return nil, fmt.Errorf("loading partial %q: %w", name, err)
		}
		if _, err := s.sidenavs.New(name).Parse(src); err != nil {
			return nil, fmt.Errorf("%w: partial %q: %v", ErrLayoutParse, name, err)
		}
		s.partials[name] = src
	}
	return s, nil
}

// Lookup returns the named layout with its parent chain resolved.
// Returns ErrUnknownLayout if the theme has no such layout, and
// ErrLayoutCycle if layouts inherit from each other.
func (s *LayoutSet) Lookup(name string) (*Layout, error) {
	return s.lookup(assets.NormalizeTemplateName(name), nil)
}

func (s *LayoutSet) lookup(name string, chain []string) (*Layout, error) {
	if l, ok := s.layouts[name]; ok {
		return l, nil
	}
	if slices.Contains(chain, name) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrLayoutCycle, strings.Join(chain, " -> "), name)
	}

	src, err := s.loader.LoadLayout(name)
	if err != nil {
		if errors.Is(err, assets.ErrLayoutNotFound) || errors.Is(err, assets.ErrInvalidAssetName) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
		}
		return nil, fmt.Errorf("loading layout %q: %w", name, err)
	}

	parentName, body, err := splitLayout(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutParse, name, err)
	}

	tmpl := template.New(name).Funcs(s.funcs)
	for _, pn := range s.names {
		if _, err := tmpl.New(pn).Parse(s.partials[pn]); err != nil {
			return nil, fmt.Errorf("%w: partial %q: %v", ErrLayoutParse, pn, err)
		}
	}
	if _, err := tmpl.Parse(body); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutParse, name, err)
	}

	l := &Layout{Name: name, tmpl: tmpl}
	if parentName != "" {
		parent, err := s.lookup(parentName, append(chain, name))
		if err != nil {
			if errors.Is(err, ErrLayoutCycle) {
				return nil, err
			}
			return nil, fmt.Errorf("layout %q: parent: %w", name, err)
		}
		l.Parent = parent
	}

	s.layouts[name] = l
	return l, nil
}

// splitLayout separates an optional front-matter block from a layout.
func splitLayout(src string) (parent, body string, err error) {
	var fm map[string]any
	rest, err := frontmatter.Parse(strings.NewReader(src), &fm, frontMatterFormat)
	if err != nil {
		return "", "", err
	}
	if v, ok := fm[keyLayout]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return "", "", fmt.Errorf("layout key must be a string, got %T", v)
		}
		parent = assets.NormalizeTemplateName(s)
	}
	return parent, string(rest), nil
}

// HasPartial reports whether the theme provides the named partial.
func (s *LayoutSet) HasPartial(name string) bool {
	_, ok := s.partials[assets.NormalizeTemplateName(name)]
	return ok
}

// Partials returns the sorted partial names.
func (s *LayoutSet) Partials() []string {
	return slices.Clone(s.names)
}

// Layouts returns the names of every layout the theme provides.
func (s *LayoutSet) Layouts() ([]string, error) {
	return s.loader.ListLayouts()
}

// renderPartial executes a partial on its own, as used for sidenavs.
func (s *LayoutSet) renderPartial(name string, data TemplateData) (template.HTML, error) {
	name = assets.NormalizeTemplateName(name)
	if !s.HasPartial(name) {
		return "", fmt.Errorf("%w: %q", ErrUnknownPartial, name)
	}
	var buf bytes.Buffer
	if err := s.sidenavs.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("%w: partial %s: %v", ErrLayoutExecute, name, err)
	}
	return template.HTML(buf.String()), nil // #nosec G203 -- output of an html/template execution
}
