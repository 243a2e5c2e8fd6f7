package pipeline

import (
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// SyntaxCSS returns the chroma stylesheet for the named highlight style,
// matching the class names emitted by GoldmarkConverter.
func SyntaxCSS(styleName string) (string, error) {
	name, err := lookupStyle(styleName)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(name)); err != nil {
		return "", fmt.Errorf("writing %s syntax CSS: %w", name, err)
	}
	return buf.String(), nil
}
