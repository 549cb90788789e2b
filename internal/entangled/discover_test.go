package entangled_test

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/eykd/entwine/internal/entangled"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDiscoverSources_RecursiveGlob(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "# a")
	writeFile(t, filepath.Join(root, "docs", "b.md"), "# b")
	writeFile(t, filepath.Join(root, "docs", "nested", "c.md"), "# c")
	writeFile(t, filepath.Join(root, "notes.txt"), "ignored")

	got, err := entangled.DiscoverSources(root, []string{"**/*.md"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sort.Strings(got)
	want := []string{"a.md", "docs/b.md", "docs/nested/c.md"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestDiscoverSources_IntersectsExplicitFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "# a")
	writeFile(t, filepath.Join(root, "b.md"), "# b")

	got, err := entangled.DiscoverSources(root, []string{"*.md"}, []string{filepath.Join(root, "b.md")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "b.md" {
		t.Fatalf("got %v", got)
	}
}
