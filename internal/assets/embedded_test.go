package assets

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestEmbeddedLoader_LoadLayout(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name        string
		layout      string
		wantErr     error
		wantContain string
	}{
		{
			name:        "loads default layout",
			layout:      "default",
			wantContain: "<!DOCTYPE html>",
		},
		{
			name:        "tips layout declares its parent",
			layout:      "tips",
			wantContain: "layout: default",
		},
		{
			name:        "index layout ranges over pages",
			layout:      "index",
			wantContain: "range .Pages",
		},
		{
			name:    "returns ErrLayoutNotFound for nonexistent",
			layout:  "nonexistent-layout-xyz",
			wantErr: ErrLayoutNotFound,
		},
		{
			name:    "returns ErrInvalidAssetName for path traversal",
			layout:  "../layouts/default",
			wantErr: ErrInvalidAssetName,
		},
		{
			name:    "returns ErrInvalidAssetName for extension",
			layout:  "default.html",
			wantErr: ErrInvalidAssetName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := loader.LoadLayout(tt.layout)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadLayout(%q) error = %v, want %v", tt.layout, err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("LoadLayout(%q) unexpected error: %v", tt.layout, err)
			}
			if !strings.Contains(got, tt.wantContain) {
				t.Errorf("LoadLayout(%q) should contain %q", tt.layout, tt.wantContain)
			}
		})
	}
}

func TestEmbeddedLoader_LoadPartial(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	got, err := loader.LoadPartial("side-nav-tips")
	if err != nil {
		t.Fatalf("LoadPartial() unexpected error: %v", err)
	}
	if !strings.Contains(got, "side-nav-tips") {
		t.Error("LoadPartial() should return the sidenav markup")
	}

	_, err = loader.LoadPartial("missing")
	if !errors.Is(err, ErrPartialNotFound) {
		t.Errorf("LoadPartial(missing) error = %v, want ErrPartialNotFound", err)
	}
}

func TestEmbeddedLoader_LoadStyle(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	got, err := loader.LoadStyle(DefaultStyleName)
	if err != nil {
		t.Fatalf("LoadStyle() unexpected error: %v", err)
	}
	if !strings.Contains(got, "font-family") {
		t.Error("LoadStyle() should return CSS content")
	}

	_, err = loader.LoadStyle("nonexistent-style-xyz")
	if !errors.Is(err, ErrStyleNotFound) {
		t.Errorf("LoadStyle() error = %v, want ErrStyleNotFound", err)
	}
}

func TestEmbeddedLoader_List(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	layouts, err := loader.ListLayouts()
	if err != nil {
		t.Fatalf("ListLayouts() unexpected error: %v", err)
	}
	want := []string{"default", "index", "tips"}
	if !slices.Equal(layouts, want) {
		t.Errorf("ListLayouts() = %v, want %v", layouts, want)
	}

	partials, err := loader.ListPartials()
	if err != nil {
		t.Fatalf("ListPartials() unexpected error: %v", err)
	}
	if !slices.Contains(partials, "side-nav-tips") {
		t.Errorf("ListPartials() = %v, want side-nav-tips", partials)
	}
}
