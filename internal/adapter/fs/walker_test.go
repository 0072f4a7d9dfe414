package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("entries: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestWalker_IncludeExclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "faq/posh.yaml")
	writeFile(t, root, "faq/pocso.json")
	writeFile(t, root, "faq/notes.txt")
	writeFile(t, root, ".faqbot/config.yaml")
	writeFile(t, root, "faqbot.yaml")

	w := NewWalker(
		[]string{"**/*.yaml", "**/*.json"},
		[]string{"**/.faqbot/**", "faqbot.yaml"},
	)
	files, err := w.Walk(root)
	if err != nil {
		t.Fatal(err)
	}

	var rel []string
	for _, f := range files {
		rel = append(rel, f.RelPath)
	}
	if len(rel) != 2 || rel[0] != "faq/pocso.json" || rel[1] != "faq/posh.yaml" {
		t.Errorf("expected [faq/pocso.json faq/posh.yaml], got %v", rel)
	}
	if !filepath.IsAbs(files[0].Path) {
		t.Errorf("expected absolute path, got %s", files[0].Path)
	}
}

func TestWalker_DefaultIncludesEverything(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.yaml")
	writeFile(t, root, "b/c.txt")

	files, err := NewWalker(nil, nil).Walk(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Errorf("expected 2 files, got %d", len(files))
	}
}

func TestWalker_MissingRoot(t *testing.T) {
	if _, err := NewWalker(nil, nil).Walk(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing root")
	}
}
