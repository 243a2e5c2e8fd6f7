package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestExtractHeadings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		minDepth int
		maxDepth int
		want     []Heading
	}{
		{
			name:     "empty HTML returns nil",
			html:     "",
			minDepth: 1,
			maxDepth: 3,
			want:     nil,
		},
		{
			name:     "no headings returns nil",
			html:     "<p>Just a paragraph</p>",
			minDepth: 1,
			maxDepth: 3,
			want:     nil,
		},
		{
			name:     "heading without id is skipped",
			html:     "<h1>No ID</h1>",
			minDepth: 1,
			maxDepth: 3,
			want:     nil,
		},
		{
			name:     "single h1 with id",
			html:     `<h1 id="intro">Introduction</h1>`,
			minDepth: 1,
			maxDepth: 3,
			want:     []Heading{{Level: 1, ID: "intro", Text: "Introduction"}},
		},
		{
			name:     "multiple headings",
			html:     `<h1 id="a">A</h1><h2 id="b">B</h2><h3 id="c">C</h3>`,
			minDepth: 1,
			maxDepth: 3,
			want: []Heading{
				{Level: 1, ID: "a", Text: "A"},
				{Level: 2, ID: "b", Text: "B"},
				{Level: 3, ID: "c", Text: "C"},
			},
		},
		{
			name:     "respects maxDepth limit",
			html:     `<h1 id="a">A</h1><h2 id="b">B</h2><h3 id="c">C</h3><h4 id="d">D</h4>`,
			minDepth: 1,
			maxDepth: 2,
			want: []Heading{
				{Level: 1, ID: "a", Text: "A"},
				{Level: 2, ID: "b", Text: "B"},
			},
		},
		{
			name:     "case insensitive H1",
			html:     `<H1 id="test">Test</H1>`,
			minDepth: 1,
			maxDepth: 3,
			want:     []Heading{{Level: 1, ID: "test", Text: "Test"}},
		},
		{
			name:     "mixed case h2",
			html:     `<H2 ID="mixed">Mixed</H2>`,
			minDepth: 1,
			maxDepth: 3,
			want:     []Heading{{Level: 2, ID: "mixed", Text: "Mixed"}}, // case-insensitive matching
		},
		{
			name:     "heading with extra attributes",
			html:     `<h1 class="title" id="main" data-foo="bar">Main</h1>`,
			minDepth: 1,
			maxDepth: 3,
			want:     []Heading{{Level: 1, ID: "main", Text: "Main"}},
		},
		{
			name:     "trims whitespace from text",
			html:     `<h1 id="space">  Spaced Text  </h1>`,
			minDepth: 1,
			maxDepth: 3,
			want:     []Heading{{Level: 1, ID: "space", Text: "Spaced Text"}},
		},
		{
			name:     "maxDepth 6 includes all levels",
			html:     `<h1 id="h1">H1</h1><h6 id="h6">H6</h6>`,
			minDepth: 1,
			maxDepth: 6,
			want: []Heading{
				{Level: 1, ID: "h1", Text: "H1"},
				{Level: 6, ID: "h6", Text: "H6"},
			},
		},
		{
			name:     "maxDepth 1 only h1",
			html:     `<h1 id="h1">H1</h1><h2 id="h2">H2</h2>`,
			minDepth: 1,
			maxDepth: 1,
			want:     []Heading{{Level: 1, ID: "h1", Text: "H1"}},
		},
		{
			name:     "minDepth 2 skips h1",
			html:     `<h1 id="h1">H1</h1><h2 id="h2">H2</h2><h3 id="h3">H3</h3>`,
			minDepth: 2,
			maxDepth: 3,
			want: []Heading{
				{Level: 2, ID: "h2", Text: "H2"},
				{Level: 3, ID: "h3", Text: "H3"},
			},
		},
		{
			name:     "inline em tag stripped",
			html:     `<h1 id="intro"><em>Hello</em> World</h1>`,
			minDepth: 1,
			maxDepth: 3,
			want:     []Heading{{Level: 1, ID: "intro", Text: "Hello World"}},
		},
		{
			name:     "inline code tag stripped",
			html:     `<h1 id="func"><code>func</code> Main</h1>`,
			minDepth: 1,
			maxDepth: 3,
			want:     []Heading{{Level: 1, ID: "func", Text: "func Main"}},
		},
		{
			name:     "inline strong tag stripped",
			html:     `<h1 id="bold">Plain <strong>bold</strong> plain</h1>`,
			minDepth: 1,
			maxDepth: 3,
			want:     []Heading{{Level: 1, ID: "bold", Text: "Plain bold plain"}},
		},
		{
			name:     "nested inline tags stripped",
			html:     `<h1 id="nested"><em><strong>Nested</strong></em></h1>`,
			minDepth: 1,
			maxDepth: 3,
			want:     []Heading{{Level: 1, ID: "nested", Text: "Nested"}},
		},
		{
			name:     "multiple inline tags stripped",
			html:     `<h1 id="multi"><code>code</code> and <em>emphasis</em></h1>`,
			minDepth: 1,
			maxDepth: 3,
			want:     []Heading{{Level: 1, ID: "multi", Text: "code and emphasis"}},
		},
		{
			name:     "anchor tag inside heading stripped",
			html:     `<h1 id="link"><a href="#">Link Text</a></h1>`,
			minDepth: 1,
			maxDepth: 3,
			want:     []Heading{{Level: 1, ID: "link", Text: "Link Text"}},
		},
		// HTML entity decoding - fixes double-encoding bug in TOC
		{
			name:     "ampersand entity decoded",
			html:     `<h1 id="ab">A &amp; B</h1>`,
			minDepth: 1,
			maxDepth: 3,
			want:     []Heading{{Level: 1, ID: "ab", Text: "A & B"}},
		},
		{
			name:     "less than entity decoded",
			html:     `<h1 id="lt">x &lt; y</h1>`,
			minDepth: 1,
			maxDepth: 3,
			want:     []Heading{{Level: 1, ID: "lt", Text: "x < y"}},
		},
		{
			name:     "greater than entity decoded",
			html:     `<h1 id="gt">x &gt; y</h1>`,
			minDepth: 1,
			maxDepth: 3,
			want:     []Heading{{Level: 1, ID: "gt", Text: "x > y"}},
		},
		{
			name:     "quote entity decoded",
			html:     `<h1 id="quote">&quot;quoted&quot;</h1>`,
			minDepth: 1,
			maxDepth: 3,
			want:     []Heading{{Level: 1, ID: "quote", Text: "\"quoted\""}},
		},
		{
			name:     "numeric entity decoded",
			html:     `<h1 id="dash">foo &#8212; bar</h1>`,
			minDepth: 1,
			maxDepth: 3,
			want:     []Heading{{Level: 1, ID: "dash", Text: "foo — bar"}},
		},
		{
			name:     "multiple entities decoded",
			html:     `<h1 id="multi">A &amp; B &lt; C &gt; D</h1>`,
			minDepth: 1,
			maxDepth: 3,
			want:     []Heading{{Level: 1, ID: "multi", Text: "A & B < C > D"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ExtractHeadings(tt.html, tt.minDepth, tt.maxDepth)

			if len(got) != len(tt.want) {
				t.Fatalf("ExtractHeadings() returned %d headings, want %d", len(got), len(tt.want))
			}

			for i, want := range tt.want {
				if got[i].Level != want.Level {
					t.Errorf("heading[%d].Level = %d, want %d", i, got[i].Level, want.Level)
				}
				if got[i].ID != want.ID {
					t.Errorf("heading[%d].ID = %q, want %q", i, got[i].ID, want.ID)
				}
				if got[i].Text != want.Text {
					t.Errorf("heading[%d].Text = %q, want %q", i, got[i].Text, want.Text)
				}
			}
		})
	}
}

func TestStripHTMLTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"plain text", "plain text"},
		{"<em>emphasized</em>", "emphasized"},
		{"<strong>bold</strong>", "bold"},
		{"<code>code</code>", "code"},
		{"<a href=\"#\">link</a>", "link"},
		{"<em>Hello</em> World", "Hello World"},
		{"Plain <strong>bold</strong> plain", "Plain bold plain"},
		{"<em><strong>nested</strong></em>", "nested"},
		{"  <em>spaced</em>  ", "spaced"},
		{"", ""},
		{"no tags", "no tags"},
		{"<br/>self closing", "self closing"},
		{"<div class=\"foo\">with attrs</div>", "with attrs"},
		// HTML entity decoding - fixes double-encoding bug in TOC
		{"A &amp; B", "A & B"},
		{"&lt;script&gt;", "<script>"},
		{"&quot;quoted&quot;", "\"quoted\""},
		{"&#39;apostrophe&#39;", "'apostrophe'"},
		{"&lt;em&gt;not a tag&lt;/em&gt;", "<em>not a tag</em>"},
		{"mixed &amp; <em>tags</em> &amp; entities", "mixed & tags & entities"},
		{"&#8212; em dash", "— em dash"},
		{"&copy; 2025", "© 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := stripHTMLTags(tt.input)
			if got != tt.want {
				t.Errorf("stripHTMLTags(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNumberingState_Next(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		levels []int
		want   []string
	}{
		{
			name:   "sequential h1s",
			levels: []int{1, 1, 1},
			want:   []string{"1.", "2.", "3."},
		},
		{
			name:   "h1 then h2s",
			levels: []int{1, 2, 2},
			want:   []string{"1.", "1.1.", "1.2."},
		},
		{
			name:   "h1 h2 h3 nested",
			levels: []int{1, 2, 3},
			want:   []string{"1.", "1.1.", "1.1.1."},
		},
		{
			name:   "return to h1 resets counters",
			levels: []int{1, 2, 1},
			want:   []string{"1.", "1.1.", "2."},
		},
		{
			name:   "return to h2 resets h3",
			levels: []int{1, 2, 3, 2},
			want:   []string{"1.", "1.1.", "1.1.1.", "1.2."},
		},
		{
			name:   "normalization starts at h2",
			levels: []int{2, 2, 3},
			want:   []string{"1.", "2.", "2.1."},
		},
		{
			name:   "normalization starts at h3",
			levels: []int{3, 3},
			want:   []string{"1.", "2."},
		},
		{
			name:   "gap skipping h1 to h3",
			levels: []int{1, 3},
			want:   []string{"1.", "1.1."},
		},
		{
			name:   "gap skipping h1 to h4",
			levels: []int{1, 4, 4},
			want:   []string{"1.", "1.1.", "1.1.1."}, // consecutive gaps increase depth each time
		},
		{
			name:   "complex sequence",
			levels: []int{1, 2, 2, 3, 2, 1, 2},
			want:   []string{"1.", "1.1.", "1.2.", "1.2.1.", "1.3.", "2.", "2.1."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var state numberingState

			for i, level := range tt.levels {
				got, _ := state.next(level)
				if got != tt.want[i] {
					t.Errorf("next(%d) at step %d = %q, want %q", level, i, got, tt.want[i])
				}
			}
		})
	}
}

func TestNumberingState_Next_EffectiveDepth(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		levels     []int
		wantDepths []int
	}{
		{
			name:       "sequential h1s all depth 1",
			levels:     []int{1, 1, 1},
			wantDepths: []int{1, 1, 1},
		},
		{
			name:       "h1 h2 h3 increasing depths",
			levels:     []int{1, 2, 3},
			wantDepths: []int{1, 2, 3},
		},
		{
			name:       "normalization starts at h2",
			levels:     []int{2, 3},
			wantDepths: []int{1, 2},
		},
		{
			name:       "gap skipping h1 to h3",
			levels:     []int{1, 3},
			wantDepths: []int{1, 2}, // h3 becomes depth 2 (gap skipped)
		},
		{
			name:       "return to shallower level",
			levels:     []int{1, 2, 3, 1},
			wantDepths: []int{1, 2, 3, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var state numberingState

			for i, level := range tt.levels {
				_, depth := state.next(level)
				if depth != tt.wantDepths[i] {
					t.Errorf("next(%d) at step %d depth = %d, want %d", level, i, depth, tt.wantDepths[i])
				}
			}
		})
	}
}

func TestGenerateNumberedTOC(t *testing.T) {
	t.Parallel()

	t.Run("no headings returns empty", func(t *testing.T) {
		t.Parallel()

		if got := generateNumberedTOC(nil, "Contents"); got != "" {
			t.Errorf("generateNumberedTOC(nil) = %q, want empty", got)
		}
	})

	t.Run("numbers entries and links anchors", func(t *testing.T) {
		t.Parallel()

		got := generateNumberedTOC([]Heading{
			{Level: 2, ID: "why", Text: "Why"},
			{Level: 3, ID: "how", Text: "How"},
			{Level: 2, ID: "a-b", Text: "A & B"},
		}, "")

		for _, want := range []string{
			`<div class="toc-item"><a href="#why">1. Why</a></div>`,
			`<div class="toc-item toc-depth-2"><a href="#how">1.1. How</a></div>`,
			`<a href="#a-b">2. A &amp; B</a>`,
		} {
			if !strings.Contains(got, want) {
				t.Errorf("generateNumberedTOC() missing %q in %q", want, got)
			}
		}
		if strings.Contains(got, "toc-title") {
			t.Error("empty title should not render a heading")
		}
	})

	t.Run("escapes title", func(t *testing.T) {
		t.Parallel()

		got := generateNumberedTOC([]Heading{{Level: 2, ID: "x", Text: "X"}}, "<Contents>")
		if !strings.Contains(got, `<h2 class="toc-title">&lt;Contents&gt;</h2>`) {
			t.Errorf("title not escaped: %q", got)
		}
	})
}

func TestNumberedTOC_BuildTOC(t *testing.T) {
	t.Parallel()

	body := `<h1 id="title">Title</h1><h2 id="one">One</h2><h3 id="two">Two</h3><h4 id="deep">Deep</h4>`

	t.Run("nil data disables TOC", func(t *testing.T) {
		t.Parallel()

		got, err := NumberedTOC{}.BuildTOC(context.Background(), body, nil)
		if err != nil || got != "" {
			t.Errorf("BuildTOC(nil) = %q, %v; want empty, nil", got, err)
		}
	})

	t.Run("respects depth range", func(t *testing.T) {
		t.Parallel()

		got, err := NumberedTOC{}.BuildTOC(context.Background(), body, &TOCData{MinDepth: 2, MaxDepth: 3})
		if err != nil {
			t.Fatalf("BuildTOC() error = %v", err)
		}
		if !strings.Contains(got, "#one") || !strings.Contains(got, "#two") {
			t.Errorf("BuildTOC() = %q, want h2 and h3 entries", got)
		}
		if strings.Contains(got, "#title") || strings.Contains(got, "#deep") {
			t.Errorf("BuildTOC() = %q, should skip h1 and h4", got)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NumberedTOC{}.BuildTOC(ctx, body, &TOCData{MinDepth: 1, MaxDepth: 6})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("BuildTOC() error = %v, want context.Canceled", err)
		}
	})
}
