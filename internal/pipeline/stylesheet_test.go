package pipeline

import (
	"context"
	"strings"
	"testing"
)

// defaultHead mirrors the head the built-in default layout renders.
const defaultHead = "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n" +
	"<title>Tip of the Week #153 | Abseil</title>\n" +
	"<link rel=\"stylesheet\" href=\"%s\">\n</head>\n" +
	"<body class=\"layout-tips\">\n<p>Avoid using-directives.</p>\n</body>\n</html>\n"

func TestLinkInliner_InlineStylesheet(t *testing.T) {
	t.Parallel()

	const css = ".bad-code{border-left:4px solid red}"
	const style = "<style>" + css + "</style>"

	tests := []struct {
		name string
		page string
		href string
		want string
	}{
		{
			name: "replaces the layout's stylesheet link",
			page: strings.Replace(defaultHead, "%s", "/css/site.css", 1),
			href: "/css/site.css",
			want: strings.Replace(defaultHead, `<link rel="stylesheet" href="%s">`, style, 1),
		},
		{
			name: "replaces a link below a base path",
			page: strings.Replace(defaultHead, "%s", "/abseil/css/site.css", 1),
			href: "/abseil/css/site.css",
			want: strings.Replace(defaultHead, `<link rel="stylesheet" href="%s">`, style, 1),
		},
		{
			name: "self-closing link",
			page: `<head><link rel="stylesheet" href="/css/site.css" /></head><body></body>`,
			href: "/css/site.css",
			want: "<head>" + style + "</head><body></body>",
		},
		{
			name: "keeps other stylesheets",
			page: `<head><link rel="stylesheet" href="/fonts.css"><link href="/css/site.css" rel="Stylesheet"></head>`,
			href: "/css/site.css",
			want: `<head><link rel="stylesheet" href="/fonts.css">` + style + "</head>",
		},
		{
			name: "preload link is not the stylesheet",
			page: `<head><link rel="preload" href="/css/site.css"></head><body></body>`,
			href: "/css/site.css",
			want: `<head><link rel="preload" href="/css/site.css">` + style + "</head><body></body>",
		},
		{
			name: "commented link is left alone",
			page: `<head><!-- <link rel="stylesheet" href="/css/site.css"> --></head>`,
			href: "/css/site.css",
			want: `<head><!-- <link rel="stylesheet" href="/css/site.css"> -->` + style + "</head>",
		},
		{
			name: "layout without a link gets the style in its head",
			page: "<html><HEAD><title>Tips</title></HEAD><body>Tips</body></html>",
			href: "/css/site.css",
			want: "<html><HEAD><title>Tips</title>" + style + "</HEAD><body>Tips</body></html>",
		},
		{
			name: "layout without a head closing tag",
			page: `<body class="layout-index"><ul class="index-list"></ul></body>`,
			href: "/css/site.css",
			want: `<body class="layout-index">` + style + `<ul class="index-list"></ul></body>`,
		},
		{
			name: "bare fragment layout",
			page: `<section class="index"><h1>Tips</h1></section>`,
			href: "/css/site.css",
			want: style + `<section class="index"><h1>Tips</h1></section>`,
		},
		{
			name: "no href still inlines",
			page: "<head></head><body></body>",
			href: "",
			want: "<head>" + style + "</head><body></body>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := LinkInliner{}.InlineStylesheet(context.Background(), tt.page, tt.href, css)
			if got != tt.want {
				t.Errorf("InlineStylesheet() =\n%q\nwant\n%q", got, tt.want)
			}
		})
	}
}

func TestLinkInliner_EscapesStyleText(t *testing.T) {
	t.Parallel()

	page := `<head><link rel="stylesheet" href="/css/site.css"></head>`
	got := LinkInliner{}.InlineStylesheet(context.Background(), page, "/css/site.css", "p{}</style><script>x()</script>")

	want := `<head><style>p{}<\/style><script>x()<\/script></style></head>`
	if got != want {
		t.Errorf("InlineStylesheet() = %q, want %q", got, want)
	}
}

func TestLinkInliner_Unchanged(t *testing.T) {
	t.Parallel()

	page := strings.Replace(defaultHead, "%s", "/css/site.css", 1)

	t.Run("empty stylesheet", func(t *testing.T) {
		t.Parallel()

		if got := (LinkInliner{}).InlineStylesheet(context.Background(), page, "/css/site.css", ""); got != page {
			t.Errorf("InlineStylesheet() changed the page: %q", got)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if got := (LinkInliner{}).InlineStylesheet(ctx, page, "/css/site.css", "p{}"); got != page {
			t.Errorf("InlineStylesheet() changed the page: %q", got)
		}
	})
}
