package assets

// AssetLoader defines the contract for loading theme files.
// Names never include the file extension.
type AssetLoader interface {
	// LoadLayout loads a page layout by name.
	// Returns ErrLayoutNotFound if the layout doesn't exist.
	LoadLayout(name string) (string, error)

	// LoadPartial loads a partial template by name.
	// Returns ErrPartialNotFound if the partial doesn't exist.
	LoadPartial(name string) (string, error)

	// LoadStyle loads a CSS style by name.
	// Returns ErrStyleNotFound if the style doesn't exist.
	LoadStyle(name string) (string, error)

	// ListLayouts returns the sorted names of all available layouts.
	ListLayouts() ([]string, error)

	// ListPartials returns the sorted names of all available partials.
	ListPartials() ([]string, error)
}

// Theme directory names and file extensions.
const (
	layoutsDir  = "layouts"
	partialsDir = "partials"
	stylesDir   = "styles"

	templateExt = ".html"
	styleExt    = ".css"
)

// DefaultStyleName is the name of the built-in CSS style.
const DefaultStyleName = "default"
