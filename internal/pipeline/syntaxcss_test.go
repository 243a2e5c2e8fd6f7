package pipeline

import (
	"errors"
	"strings"
	"testing"
)

func TestSyntaxCSS(t *testing.T) {
	t.Parallel()

	t.Run("default style", func(t *testing.T) {
		t.Parallel()

		got, err := SyntaxCSS("")
		if err != nil {
			t.Fatalf("SyntaxCSS() error = %v", err)
		}
		if !strings.Contains(got, ".chroma") {
			t.Errorf("SyntaxCSS() should target .chroma classes, got %q", got)
		}
	})

	t.Run("unknown style", func(t *testing.T) {
		t.Parallel()

		_, err := SyntaxCSS("no-such-style")
		if !errors.Is(err, ErrUnknownHighlightStyle) {
			t.Errorf("SyntaxCSS() error = %v, want ErrUnknownHighlightStyle", err)
		}
	})

	t.Run("stable output", func(t *testing.T) {
		t.Parallel()

		a, _ := SyntaxCSS("monokai")
		b, _ := SyntaxCSS("monokai")
		if a != b {
			t.Error("SyntaxCSS() output differs between calls")
		}
	})
}
