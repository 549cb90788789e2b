package entangled_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eykd/entwine/internal/entangled"
	"github.com/eykd/entwine/internal/literate"
)

func newTestContext(t *testing.T, dir string, mutate func(*entangled.Config)) *entangled.Context {
	t.Helper()
	cfg := entangled.DefaultConfig()
	cfg.SourcePatterns = []string{"*.md"}
	if mutate != nil {
		mutate(cfg)
	}
	ctx, err := entangled.NewContext(dir, cfg, nil)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return ctx
}

// S1 via the full orchestrator: tangling a single named block produces the
// annotated target file.
func TestOrchestrator_Tangle_S1(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "doc.md"), "```python #hello file=hello.py\nprint(\"hi\")\n```\n")

	ctx := newTestContext(t, dir, nil)
	txn, err := ctx.Tangle(nil)
	if err != nil {
		t.Fatalf("Tangle: %v", err)
	}
	if err := txn.Execute(ctx.DB, false, nil); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "hello.py"))
	if err != nil {
		t.Fatalf("read target: %v", err)
	}
	want := "# ~/~ begin <<file:hello.py[0]>>\nprint(\"hi\")\n# ~/~ end\n"
	if string(got) != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

// S5 via the full orchestrator: editing a leaf's tangled body and running
// stitch writes the change back to only that leaf's Markdown block.
func TestOrchestrator_Stitch_S5(t *testing.T) {
	dir := t.TempDir()
	md := "```python #main file=m.py\ndef f():\n    <<body>>\n```\n\n" +
		"```python #body\nx = 1\ny = 2\n```\n"
	writeFile(t, filepath.Join(dir, "doc.md"), md)

	ctx := newTestContext(t, dir, nil)
	tangleTxn, err := ctx.Tangle(nil)
	if err != nil {
		t.Fatalf("Tangle: %v", err)
	}
	if err := tangleTxn.Execute(ctx.DB, false, nil); err != nil {
		t.Fatalf("Execute tangle: %v", err)
	}
	if err := ctx.DB.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	tangled, err := os.ReadFile(filepath.Join(dir, "m.py"))
	if err != nil {
		t.Fatalf("read tangled: %v", err)
	}
	edited := []byte(strings.Replace(string(tangled), "x = 1", "x = 10", 1))
	if err := os.WriteFile(filepath.Join(dir, "m.py"), edited, 0o644); err != nil {
		t.Fatalf("edit: %v", err)
	}

	ctx2 := newTestContext(t, dir, nil)
	stitchTxn, err := ctx2.Stitch(nil)
	if err != nil {
		t.Fatalf("Stitch: %v", err)
	}
	if stitchTxn.IsEmpty() {
		t.Fatalf("expected a stitch patch")
	}
	if err := stitchTxn.Execute(ctx2.DB, false, nil); err != nil {
		t.Fatalf("Execute stitch: %v", err)
	}

	newMd, err := os.ReadFile(filepath.Join(dir, "doc.md"))
	if err != nil {
		t.Fatalf("read doc: %v", err)
	}
	if !strings.Contains(string(newMd), "x = 10") {
		t.Fatalf("expected stitched content in doc.md, got:\n%s", newMd)
	}
	if !strings.Contains(string(newMd), "def f():") {
		t.Fatalf("expected the composing block untouched, got:\n%s", newMd)
	}
}

// S6: a target modified on disk outside entwine's tracking is a conflict.
func TestOrchestrator_Tangle_ConflictOnExternalEdit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "doc.md"), "```python #hello file=hello.py\nprint(\"hi\")\n```\n")

	ctx := newTestContext(t, dir, nil)
	txn, err := ctx.Tangle(nil)
	if err != nil {
		t.Fatalf("Tangle: %v", err)
	}
	if err := txn.Execute(ctx.DB, false, nil); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if err := ctx.DB.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "hello.py"), []byte("tampered\n"), 0o644); err != nil {
		t.Fatalf("tamper: %v", err)
	}

	writeFile(t, filepath.Join(dir, "doc.md"), "```python #hello file=hello.py\nprint(\"hi again\")\n```\n")
	ctx2 := newTestContext(t, dir, nil)
	txn2, err := ctx2.Tangle(nil)
	if err != nil {
		t.Fatalf("Tangle: %v", err)
	}
	err = txn2.Execute(ctx2.DB, false, nil)
	lerr, ok := err.(*literate.Error)
	if !ok || lerr.Kind != literate.KindFileConflict {
		t.Fatalf("expected FileConflict, got %v", err)
	}
}
