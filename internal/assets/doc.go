// Package assets provides the theme files used to render a site: page
// layouts, partials and CSS styles.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from the go:embed default theme
//	    ├── FilesystemLoader  - loads from a site theme directory
//	    └── AssetResolver     - combines both with custom-first fallback
//
// Both concrete loaders read through an afero filesystem, so the embedded
// theme and a theme on disk (or in memory, in tests) share one code path.
//
// # Directory Structure
//
// A theme is organized by asset kind:
//
//	{basePath}/
//	├── layouts/
//	│   └── {name}.html   # page layouts, may declare a parent layout
//	├── partials/
//	│   └── {name}.html   # fragments available to every layout
//	└── styles/
//	    └── {name}.css    # site stylesheets
//
// # Security
//
// Asset names are validated to prevent path traversal, and the filesystem
// loader is rooted with afero.BasePathFs so reads cannot leave basePath.
package assets
