package watcher

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"
)

func TestDebouncer_CoalescesAndSorts(t *testing.T) {
	t.Parallel()

	got := make(chan []string, 4)
	d := NewDebouncer(20*time.Millisecond, func(paths []string) { got <- paths })
	defer d.Stop()

	d.Add("b.md")
	d.Add("a.md")
	d.Add("b.md")

	select {
	case paths := <-got:
		if !slices.Equal(paths, []string{"a.md", "b.md"}) {
			t.Errorf("batch = %v, want [a.md b.md]", paths)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer did not fire")
	}

	select {
	case paths := <-got:
		t.Errorf("unexpected second batch %v", paths)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	fired := false
	d := NewDebouncer(20*time.Millisecond, func([]string) {
		mu.Lock()
		fired = true
		mu.Unlock()
	})

	d.Add("a.md")
	d.Stop()
	d.Add("b.md")

	time.Sleep(60 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if fired {
		t.Error("stopped debouncer should not fire")
	}
}

func TestFilters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter Filter
		path   string
		want   bool
	}{
		{"plain file", NoHiddenFilter, "content/tips/153.md", true},
		{"dotfile", NoHiddenFilter, "content/.DS_Store", false},
		{"dot directory", NoHiddenFilter, "site/.git/HEAD", false},
		{"relative dot prefix", NoHiddenFilter, "./content/a.md", true},
		{"vim swap", NoEditorTempFilter, "content/.a.md.swp", false},
		{"backup", NoEditorTempFilter, "content/a.md~", false},
		{"emacs autosave", NoEditorTempFilter, "content/#a.md#", false},
		{"markdown", NoEditorTempFilter, "content/a.md", true},
		{"inside output", OutsideDirFilter("public"), "public/tips/153", false},
		{"output itself", OutsideDirFilter("public"), "public", false},
		{"sibling prefix", OutsideDirFilter("public"), "public-old/x", true},
		{"content", OutsideDirFilter("public"), "content/a.md", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.filter(tt.path); got != tt.want {
				t.Errorf("filter(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestWatcher_Run(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	sub := filepath.Join(root, "tips")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	w, err := New(30*time.Millisecond, nil, NoHiddenFilter)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer w.Close()

	if err := w.AddRecursive(root); err != nil {
		t.Fatalf("AddRecursive() error = %v", err)
	}
	if err := w.AddRecursive(filepath.Join(root, "missing")); err != nil {
		t.Errorf("AddRecursive(missing) error = %v, want nil", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches := make(chan []string, 8)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func(paths []string) { batches <- paths }) }()

	target := filepath.Join(sub, "153.md")
	if err := os.WriteFile(target, []byte("---\ntitle: x\n---\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case paths := <-batches:
		if !slices.Contains(paths, target) {
			t.Errorf("batch = %v, want %s", paths, target)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change batch received")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil on cancel", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
