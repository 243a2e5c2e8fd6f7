package mdsite

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"unicode"
)

// indexFile is written for permalinks naming a directory.
const indexFile = "index.html"

// NormalizePermalink validates a front-matter permalink and returns its
// canonical form: no leading slash, cleaned segments, and a trailing slash
// kept when present. The site root normalizes to "".
func NormalizePermalink(raw string) (string, error) {
	p := strings.TrimSpace(raw)
	if p == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPermalink)
	}

	for _, r := range p {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("%w: %q contains control characters", ErrInvalidPermalink, raw)
		}
	}
	if strings.Contains(p, `\`) {
		return "", fmt.Errorf("%w: %q contains a backslash", ErrInvalidPermalink, raw)
	}
	if strings.ContainsAny(p, "?#") {
		return "", fmt.Errorf("%w: %q contains a query or fragment", ErrInvalidPermalink, raw)
	}

	u, err := url.Parse(p)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidPermalink, raw, err)
	}
	if u.Scheme != "" || u.Host != "" || strings.HasPrefix(p, "//") {
		return "", fmt.Errorf("%w: %q must be a path, not a URL", ErrInvalidPermalink, raw)
	}

	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: %q contains '..'", ErrInvalidPermalink, raw)
		}
	}

	dir := strings.HasSuffix(p, "/")
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return "", nil
	}

	p = path.Clean(p)
	if p == "." {
		return "", nil
	}
	if dir {
		p += "/"
	}
	return p, nil
}

// OutputPath returns the slash-separated file path, relative to the output
// directory, for a normalized permalink. Directory permalinks and the root
// get index.html; any other permalink is the file name itself, so
// "tips/153" is written to the file tips/153.
func OutputPath(permalink string) string {
	if permalink == "" || strings.HasSuffix(permalink, "/") {
		return permalink + indexFile
	}
	return permalink
}

// permalinkURL joins a site base path and a normalized permalink.
func permalinkURL(basePath, permalink string) string {
	return strings.TrimRight(basePath, "/") + "/" + permalink
}

// outputPlan tracks claimed output paths to detect duplicates and
// file-versus-directory conflicts.
type outputPlan struct {
	owners map[string]string // output path -> owner description
	order  []string
}

func newOutputPlan() *outputPlan {
	return &outputPlan{owners: make(map[string]string)}
}

// claim reserves out for owner. Returns ErrDuplicatePermalink naming the
// previous owner when out is taken.
func (p *outputPlan) claim(out, owner string) error {
	if prev, ok := p.owners[out]; ok {
		return fmt.Errorf("%w: %s is produced by both %s and %s", ErrDuplicatePermalink, out, prev, owner)
	}
	p.owners[out] = owner
	p.order = append(p.order, out)
	return nil
}

// conflicts reports outputs that another output needs as a directory,
// such as "tips" alongside "tips/153".
func (p *outputPlan) conflicts() []error {
	var errs []error
	for _, out := range p.order {
		parts := strings.Split(out, "/")
		for i := 1; i < len(parts); i++ {
			parent := strings.Join(parts[:i], "/")
			if owner, ok := p.owners[parent]; ok {
				errs = append(errs, fmt.Errorf("%w: %s (from %s) must be a directory for %s (from %s)",
					ErrPermalinkConflict, parent, owner, out, p.owners[out]))
			}
		}
	}
	return errs
}
