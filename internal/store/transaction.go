package store

import (
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/eykd/entwine/internal/literate"
)

// ActionKind is one of the three file actions a transaction can accumulate.
type ActionKind int

const (
	ActionCreate ActionKind = iota
	ActionWrite
	ActionDelete
)

// Action is one pending file operation.
type Action struct {
	Kind    ActionKind
	Path    string
	Content []byte
}

// Transaction accumulates Create/Write/Delete actions and applies them
// atomically, rolling back on the first I/O error. Each transaction
// carries a correlation id so its log lines can be grouped.
type Transaction struct {
	ID      uuid.UUID
	Actions []Action
}

func NewTransaction() *Transaction {
	return &Transaction{ID: uuid.New()}
}

func (t *Transaction) Create(path string, content []byte) {
	t.Actions = append(t.Actions, Action{Kind: ActionCreate, Path: path, Content: content})
}

func (t *Transaction) Write(path string, content []byte) {
	t.Actions = append(t.Actions, Action{Kind: ActionWrite, Path: path, Content: content})
}

func (t *Transaction) Delete(path string) {
	t.Actions = append(t.Actions, Action{Kind: ActionDelete, Path: path})
}

func (t *Transaction) IsEmpty() bool { return len(t.Actions) == 0 }

type appliedAction struct {
	action  Action
	backup  []byte // previous content, for rollback of Write/Delete
	existed bool
}

// Execute runs pre-flight conflict checking against db, then applies all
// actions atomically. On any I/O error, previously applied actions are
// rolled back in reverse order. On success, db is updated in memory; the
// caller is responsible for persisting it.
func (t *Transaction) Execute(db *DB, force bool, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("txn", t.ID.String())

	// Pre-flight: no file modifications happen until this loop passes.
	for _, a := range t.Actions {
		if a.Kind == ActionDelete {
			continue
		}
		digest, exists, err := OnDiskDigest(a.Path)
		if err != nil {
			return &literate.Error{Kind: literate.KindIoError, Path: a.Path, Msg: err.Error()}
		}
		entry, tracked := db.Digest(a.Path)
		if exists && tracked && digest != entry.Hexdigest && !force {
			return &literate.Error{
				Kind: literate.KindFileConflict,
				Path: a.Path,
				Msg:  "modified on disk since last run; rerun with --force to overwrite",
			}
		}
	}

	var applied []appliedAction
	rollback := func() {
		for i := len(applied) - 1; i >= 0; i-- {
			aa := applied[i]
			var err error
			switch aa.action.Kind {
			case ActionCreate:
				err = os.Remove(aa.action.Path)
			case ActionWrite, ActionDelete:
				if aa.existed {
					err = atomicWrite(aa.action.Path, aa.backup, 0o644)
				} else {
					err = os.Remove(aa.action.Path)
				}
			}
			if err != nil {
				log.Warn("rollback step failed", "path", aa.action.Path, "error", err)
			}
		}
	}

	for _, a := range t.Actions {
		backup, existed, rerr := OnDiskDigest(a.Path)
		_ = backup // digest only; re-read raw bytes below for backup content
		var rawBackup []byte
		if existed {
			rawBackup, rerr = os.ReadFile(a.Path)
		}
		if rerr != nil {
			rollback()
			return &literate.Error{Kind: literate.KindIoError, Path: a.Path, Msg: rerr.Error()}
		}

		var applyErr error
		switch a.Kind {
		case ActionCreate, ActionWrite:
			applyErr = atomicWrite(a.Path, a.Content, 0o644)
		case ActionDelete:
			applyErr = os.Remove(a.Path)
		}
		if applyErr != nil {
			rollback()
			return &literate.Error{Kind: literate.KindIoError, Path: a.Path, Msg: applyErr.Error()}
		}
		applied = append(applied, appliedAction{action: a, backup: rawBackup, existed: existed})
		log.Info("applied action", "kind", a.Kind, "path", a.Path)
	}

	// Commit: only once every action has applied is the db updated.
	for _, a := range t.Actions {
		switch a.Kind {
		case ActionCreate, ActionWrite:
			db.Update(a.Path, a.Content, time.Now())
		case ActionDelete:
			db.Remove(a.Path)
		}
	}

	return nil
}

func (k ActionKind) String() string {
	switch k {
	case ActionCreate:
		return "create"
	case ActionWrite:
		return "write"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}
