package pipeline

import (
	"strings"
	"testing"
)

func TestRewriteRootRelative(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		basePath string
		want     string
	}{
		{
			name:     "empty base path unchanged",
			html:     `<a href="/tips/1">x</a>`,
			basePath: "",
			want:     `<a href="/tips/1">x</a>`,
		},
		{
			name:     "root base path unchanged",
			html:     `<a href="/tips/1">x</a>`,
			basePath: "/",
			want:     `<a href="/tips/1">x</a>`,
		},
		{
			name:     "link is prefixed",
			html:     `<a href="/tips/1">x</a>`,
			basePath: "/abseil/",
			want:     `<a href="/abseil/tips/1">x</a>`,
		},
		{
			name:     "base path without slashes",
			html:     `<img src="/img/logo.png"/>`,
			basePath: "abseil",
			want:     `<img src="/abseil/img/logo.png"/>`,
		},
		{
			name:     "relative path unchanged",
			html:     `<a href="tips/1">x</a>`,
			basePath: "/abseil/",
			want:     `<a href="tips/1">x</a>`,
		},
		{
			name:     "anchor unchanged",
			html:     `<a href="#fn:1">1</a>`,
			basePath: "/abseil/",
			want:     `<a href="#fn:1">1</a>`,
		},
		{
			name:     "absolute URL unchanged",
			html:     `<a href="https://abseil.io/tips/1">x</a>`,
			basePath: "/abseil/",
			want:     `<a href="https://abseil.io/tips/1">x</a>`,
		},
		{
			name:     "protocol relative unchanged",
			html:     `<img src="//cdn.example.com/x.png"/>`,
			basePath: "/abseil/",
			want:     `<img src="//cdn.example.com/x.png"/>`,
		},
		{
			name:     "already prefixed unchanged",
			html:     `<a href="/abseil/tips/1">x</a>`,
			basePath: "/abseil/",
			want:     `<a href="/abseil/tips/1">x</a>`,
		},
		{
			name:     "script src unchanged",
			html:     `<script src="/app.js"></script>`,
			basePath: "/abseil/",
			want:     `<script src="/app.js"></script>`,
		},
		{
			name:     "nested elements",
			html:     `<p>see <a href="/tips/2">two</a> and <img src="/a.png"/></p>`,
			basePath: "/abseil",
			want:     `<p>see <a href="/abseil/tips/2">two</a> and <img src="/abseil/a.png"/></p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := RewriteRootRelative(tt.html, tt.basePath)
			if err != nil {
				t.Fatalf("RewriteRootRelative() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("RewriteRootRelative() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRewriteRootRelative_FullDocument(t *testing.T) {
	t.Parallel()

	doc := `<!DOCTYPE html><html><head><link rel="stylesheet" href="/css/site.css"/></head><body><a href="/x">x</a></body></html>`

	got, err := RewriteRootRelative(doc, "/docs/")
	if err != nil {
		t.Fatalf("RewriteRootRelative() error = %v", err)
	}
	if !strings.HasPrefix(got, "<!DOCTYPE html>") {
		t.Errorf("full document should keep doctype, got %q", got)
	}
	for _, want := range []string{`href="/docs/css/site.css"`, `href="/docs/x"`} {
		if !strings.Contains(got, want) {
			t.Errorf("RewriteRootRelative() missing %q in %q", want, got)
		}
	}
}

func TestIsRootRelative(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{"/a", true},
		{"/", true},
		{"//host/a", false},
		{"a/b", false},
		{"", false},
		{"https://x", false},
	}

	for _, tt := range tests {
		if got := isRootRelative(tt.path); got != tt.want {
			t.Errorf("isRootRelative(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
