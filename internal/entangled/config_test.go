package entangled_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/eykd/entwine/internal/entangled"
	"github.com/eykd/entwine/internal/literate"
)

func TestFindConfigFile_SearchesUpward(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "entangled.toml"), []byte("version = \"1.0\"\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	found, err := entangled.FindConfigFile(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := filepath.Abs(filepath.Join(root, "entangled.toml"))
	if found != want {
		t.Fatalf("got %q want %q", found, want)
	}
}

func TestFindConfigFile_NoneFound(t *testing.T) {
	root := t.TempDir()
	found, err := entangled.FindConfigFile(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found != "" {
		t.Fatalf("expected no config file, got %q", found)
	}
}

func TestLoadConfig_DefaultsWhenMissing(t *testing.T) {
	root := t.TempDir()
	cfg, path, err := entangled.LoadConfig(root, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "" {
		t.Fatalf("expected no path, got %q", path)
	}
	if cfg.Annotation != "standard" || cfg.NamespaceDefault != "none" {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoadConfig_DecodesAndRegistersLanguages(t *testing.T) {
	root := t.TempDir()
	toml := `
version = "1.0"
output_dir = "build"
annotation = "naked"
namespace_default = "file"

[hooks]
shebang = true

[[languages]]
name = "zig"
identifiers = ["zig"]
comment = "line://"
`
	if err := os.WriteFile(filepath.Join(root, "entangled.toml"), []byte(toml), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	cfg, path, err := entangled.LoadConfig(root, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path == "" {
		t.Fatalf("expected a discovered path")
	}
	if cfg.OutputDir != "build" || cfg.Annotation != "naked" || cfg.NamespaceDefault != "file" {
		t.Fatalf("got %+v", cfg)
	}
	if !cfg.Hooks.Shebang {
		t.Fatalf("expected shebang hook enabled")
	}
	if cs := literate.CommentStyleFor("zig"); cs.Line != "//" {
		t.Fatalf("expected zig registered with // comments, got %+v", cs)
	}
}

func TestLoadConfig_UnknownKeyWarnsNotErrors(t *testing.T) {
	root := t.TempDir()
	toml := "version = \"1.0\"\nbogus_key = true\n"
	if err := os.WriteFile(filepath.Join(root, "entangled.toml"), []byte(toml), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, _, err := entangled.LoadConfig(root, nil); err != nil {
		t.Fatalf("unknown keys must not be a hard error: %v", err)
	}
}
