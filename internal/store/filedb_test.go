package store_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/eykd/entwine/internal/literate"
	"github.com/eykd/entwine/internal/store"
)

func TestLoadDB_MissingIsEmpty(t *testing.T) {
	dir := t.TempDir()
	db, err := store.LoadDB(filepath.Join(dir, "filedb.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(db.Files) != 0 {
		t.Fatalf("expected empty DB, got %+v", db.Files)
	}
}

func TestLoadDB_MalformedIsHardError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filedb.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	_, err := store.LoadDB(path)
	if err == nil {
		t.Fatalf("expected an error for malformed JSON")
	}
	lerr, ok := err.(*literate.Error)
	if !ok || lerr.Kind != literate.KindIoError {
		t.Fatalf("expected IoError, got %v", err)
	}
}

func TestDB_SaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".entangled", "filedb.json")
	db, err := store.LoadDB(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	db.Update(filepath.Join(dir, "hello.py"), []byte("print(1)\n"), time.Now())
	if err := db.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, err := store.LoadDB(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	entry, ok := reloaded.Digest(filepath.Join(dir, "hello.py"))
	if !ok {
		t.Fatalf("expected entry to survive reload")
	}
	if entry.Hexdigest != store.HexDigest([]byte("print(1)\n")) {
		t.Fatalf("digest mismatch: %+v", entry)
	}
}
