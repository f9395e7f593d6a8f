package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderEmbeddedTemplate(t *testing.T) {
	cat, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	got, err := cat.Render("sync.move.accepted", map[string]any{
		"Side": "White", "SAN": "e4", "Number": 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "White played e4 (move 1)" {
		t.Fatalf("got %q", got)
	}
}

func TestRenderMissingKeyFails(t *testing.T) {
	cat, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cat.Render("sync.move.accepted", map[string]any{"Side": "White"}); err == nil {
		t.Fatal("missing template data should error")
	}
	if _, err := cat.Render("no.such.key", nil); err == nil {
		t.Fatal("unknown key should error")
	}
}

func TestOverrideDirectoryWins(t *testing.T) {
	dir := t.TempDir()
	override := "sync:\n  desync:\n    entered: \"custom desync text\"\n"
	if err := os.WriteFile(filepath.Join(dir, "10-local.yaml"), []byte(override), 0o644); err != nil {
		t.Fatal(err)
	}

	cat, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	got, err := cat.Render("sync.desync.entered", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "custom desync text" {
		t.Fatalf("got %q", got)
	}

	// Untouched keys keep their embedded defaults.
	cleared, err := cat.Render("sync.desync.cleared", nil)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(cleared, "sync") {
		t.Fatalf("got %q", cleared)
	}
}
