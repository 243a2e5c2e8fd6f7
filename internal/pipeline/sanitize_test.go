package pipeline

import (
	"strings"
	"testing"
)

func TestBluemondaySanitizer_Sanitize(t *testing.T) {
	t.Parallel()

	s := NewBluemondaySanitizer()

	tests := []struct {
		name         string
		input        string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "script removed",
			input:        `<p>ok</p><script>alert(1)</script>`,
			wantContains: []string{"<p>ok</p>"},
			wantExcludes: []string{"<script", "alert"},
		},
		{
			name:         "event handler removed",
			input:        `<p onclick="x()">t</p>`,
			wantContains: []string{"<p>t</p>"},
			wantExcludes: []string{"onclick"},
		},
		{
			name:         "class kept",
			input:        `<div class="bad-code"><pre class="chroma"><code><span class="kt">int</span></code></pre></div>`,
			wantContains: []string{`class="bad-code"`, `class="chroma"`, `class="kt"`},
		},
		{
			name:         "heading id kept",
			input:        `<h2 id="best-practices">Best</h2>`,
			wantContains: []string{`id="best-practices"`},
		},
		{
			name:         "footnote ids kept",
			input:        `<sup id="fnref:1"><a href="#fn:1" class="footnote-ref" role="doc-noteref">1</a></sup>`,
			wantContains: []string{`id="fnref:1"`, `href="#fn:1"`, `role="doc-noteref"`},
		},
		{
			name:         "mark kept",
			input:        `<p><mark>hot</mark></p>`,
			wantContains: []string{"<mark>hot</mark>"},
		},
		{
			name:         "javascript URL removed",
			input:        `<a href="javascript:alert(1)">x</a>`,
			wantExcludes: []string{"javascript:"},
		},
		{
			name:         "class with quotes rejected",
			input:        `<p class="a&quot; onclick=&quot;x">t</p>`,
			wantExcludes: []string{"onclick"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := s.Sanitize(tt.input)
			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("Sanitize() missing %q in %q", want, got)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(got, exclude) {
					t.Errorf("Sanitize() should drop %q, got %q", exclude, got)
				}
			}
		})
	}
}
