package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIsAsset(t *testing.T) {
	cases := map[string]bool{
		"tileset2.tsx":       true,
		"maps/demo.TMX":      true,
		"levels/demo.json":   true,
		"tiles.yaml":         true,
		"tiles.yml":          true,
		"scripts/sign.tengo": true,
		"tileset2.png":       false,
		"notes.txt":          false,
		"README":             false,
	}
	for path, want := range cases {
		if got := IsAsset(path); got != want {
			t.Errorf("IsAsset(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestWatcherReportsAssetWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "ignored.png"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	level := filepath.Join(dir, "level.json")
	if err := os.WriteFile(level, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-w.Events:
		if got != level {
			t.Errorf("Expected event for %s, got %s", level, got)
		}
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatalf("Expected an event for %s", level)
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Second Close: %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Errorf("Expected Events to be closed")
	}
}

func TestNewMissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Errorf("Expected error watching a missing directory")
	}
}
