// Package store implements the file-state database (C8) and the
// transaction manager (C9): persisted per-path content digests used for
// external-modification conflict detection, and atomic multi-file writes
// with best-effort rollback.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/eykd/entwine/internal/literate"
)

const dbSchemaVersion = "1.0"

// Stat mirrors the on-disk modification timestamp and byte size recorded
// for a tracked file.
type Stat struct {
	Mtime string `json:"mtime"`
	Size  int64  `json:"size"`
}

// Entry is one file-state database record.
type Entry struct {
	Stat      Stat   `json:"stat"`
	Hexdigest string `json:"hexdigest"`
}

// DB is the in-memory file-state database, loaded from and persisted to
// .entangled/filedb.json.
type DB struct {
	Version string           `json:"version"`
	Files   map[string]Entry `json:"files"`

	path string
}

// LoadDB reads the database at path. A missing file yields an empty DB
// tagged with the current schema version, with no error; malformed JSON is a hard error
// distinguishable from "missing" (the caller never sees it for a missing
// file).
func LoadDB(path string) (*DB, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &DB{Version: dbSchemaVersion, Files: map[string]Entry{}, path: path}, nil
	}
	if err != nil {
		return nil, &literate.Error{Kind: literate.KindIoError, Path: path, Msg: err.Error()}
	}
	var db DB
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, &literate.Error{Kind: literate.KindIoError, Path: path, Msg: "malformed file-state database: " + err.Error()}
	}
	if db.Files == nil {
		db.Files = map[string]Entry{}
	}
	db.path = path
	return &db, nil
}

// Save persists the database to its load path using an atomic
// temp-file-plus-rename write.
func (db *DB) Save() error {
	if db.Version == "" {
		db.Version = dbSchemaVersion
	}
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return &literate.Error{Kind: literate.KindIoError, Path: db.path, Msg: err.Error()}
	}
	if err := os.MkdirAll(filepath.Dir(db.path), 0o755); err != nil {
		return &literate.Error{Kind: literate.KindIoError, Path: db.path, Msg: err.Error()}
	}
	return atomicWrite(db.path, data, 0o644)
}

// Digest returns the current entry for path, and whether one exists.
func (db *DB) Digest(path string) (Entry, bool) {
	e, ok := db.Files[path]
	return e, ok
}

// Update records path's new digest, mtime and size after a successful
// write.
func (db *DB) Update(path string, content []byte, mtime time.Time) {
	db.Files[path] = Entry{
		Stat:      Stat{Mtime: mtime.UTC().Format(time.RFC3339), Size: int64(len(content))},
		Hexdigest: HexDigest(content),
	}
}

// Remove deletes path's entry, used on transaction Delete actions.
func (db *DB) Remove(path string) { delete(db.Files, path) }

// HexDigest computes the SHA-256 hex digest of content. The wire format is
// bit-exact per the external interface spec, so this stays on the standard
// library rather than reaching for a third-party hashing package.
func HexDigest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// OnDiskDigest hashes the current content of path, or returns ("", false)
// if the path does not exist.
func OnDiskDigest(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", path, err)
	}
	return HexDigest(data), true, nil
}
