// Package mdsite builds a static site from a directory of Markdown or HTML
// documents that carry a YAML front-matter block.
//
// # Quick Start
//
// Load documents, create a builder, and build into an output directory:
//
//	docs, err := mdsite.LoadDocuments(afero.NewOsFs(), "content")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	b, err := mdsite.NewBuilder(
//	    mdsite.WithSite(mdsite.Site{Title: "Abseil", BaseURL: "https://abseil.io/"}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := b.Build(ctx, mdsite.BuildInput{
//	    Documents: docs,
//	    OutputDir: "public",
//	})
//
// # Documents
//
// Each document starts with front-matter:
//
//	---
//	title: "Tip of the Week #153: Don't use using-directives"
//	layout: tips
//	sidenav: side-nav-tips.html
//	published: true
//	permalink: tips/153
//	type: markdown
//	order: "153"
//	---
//
// title, layout and permalink are required. published defaults to true;
// unpublished documents produce no page and no listing entry.
//
// # Build Stages
//
//  1. Unpublished documents are dropped
//  2. Permalinks are checked for duplicates and path conflicts
//  3. Every layout and sidenav partial is resolved
//  4. Every page is rendered in memory
//  5. Static files are copied and pages written, each renamed into place;
//     files an earlier build left behind are then pruned
//
// Configuration errors (stages 1-3) and render errors (stage 4) abort the
// build before anything is written.
//
// # Layouts
//
// Layouts are html/template files in the theme's layouts/ directory. A
// layout may name a parent layout in its own front-matter; the child output
// becomes the parent's .Content. A built-in theme provides the default, tips
// and index layouts and the side-nav-tips partial; WithAssetPath overlays a
// site theme by name.
package mdsite
