// Package audit persists gate verdicts to an append-only SQLite log.
//
// SQLite with WAL mode and a busy timeout serializes concurrent appends
// from independent gate invocations without any in-process coordination,
// and the synchronous=FULL pragma makes an append durable before
// Append returns.
package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timestampLayout is fixed-width so that SQLite's lexicographic TEXT
// comparison matches time order. RFC3339Nano would not work here: it
// trims trailing zeros, so "…00.15Z" sorts before "…00.1Z".
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FindingRecord is the persisted form of one check finding.
type FindingRecord struct {
	Check    string              `json:"check"`
	Severity string              `json:"severity"`
	Message  string              `json:"message"`
	Evidence map[string][]string `json:"evidence,omitempty"`
}

// Entry is one persisted verdict plus its invocation context.
type Entry struct {
	ID        string          `json:"id"`
	TaskID    string          `json:"task_id,omitempty"`
	Trigger   string          `json:"trigger,omitempty"`
	Severity  string          `json:"severity"`
	Action    string          `json:"action"`
	Findings  []FindingRecord `json:"findings"`
	CreatedAt time.Time       `json:"created_at"`
}

// PersistenceError reports that the underlying store could not durably
// record an entry. The caller decides whether that escalates the gate
// action; the sink itself never drops a verdict silently.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("audit: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Sink is the append-only audit log backed by SQLite.
type Sink struct {
	db *sql.DB
	// maxEntries caps retention; 0 keeps everything.
	maxEntries int
}

// Open creates the data directory if needed, opens the database, and
// runs migrations.
func Open(path string, maxEntries int) (*Sink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("audit: create data dir: %w", err)
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("audit: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = FULL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("audit: pragma %q: %w", p, err)
		}
	}

	s := &Sink{db: db, maxEntries: maxEntries}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("audit: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Sink) Close() error {
	return s.db.Close()
}

func (s *Sink) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS verdicts (
			id         TEXT PRIMARY KEY,
			task_id    TEXT NOT NULL DEFAULT '',
			trigger_op TEXT NOT NULL DEFAULT '',
			severity   TEXT NOT NULL,
			action     TEXT NOT NULL,
			findings   TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_verdicts_created_at ON verdicts(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append durably records one entry. Failures surface as
// *PersistenceError; nothing is dropped silently.
func (s *Sink) Append(e Entry) error {
	findings, err := json.Marshal(e.Findings)
	if err != nil {
		return &PersistenceError{Op: "marshal findings", Err: err}
	}

	_, err = s.db.Exec(
		`INSERT INTO verdicts (id, task_id, trigger_op, severity, action, findings, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.TaskID, e.Trigger, e.Severity, e.Action,
		string(findings), e.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return &PersistenceError{Op: "insert verdict", Err: err}
	}

	if s.maxEntries > 0 {
		s.trim()
	}
	return nil
}

// trim drops the oldest entries beyond the retention cap. A trim
// failure is not an append failure: the entry is already durable.
func (s *Sink) trim() {
	s.db.Exec(
		`DELETE FROM verdicts WHERE id NOT IN (
			SELECT id FROM verdicts ORDER BY created_at DESC, id DESC LIMIT ?
		)`, s.maxEntries,
	)
}

// ScanSince returns all entries recorded at or after the given time,
// oldest first. Each call runs a fresh query, so a scan is restartable.
func (s *Sink) ScanSince(since time.Time) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, task_id, trigger_op, severity, action, findings, created_at
		 FROM verdicts WHERE created_at >= ? ORDER BY created_at ASC, id ASC`,
		since.UTC().Format(timestampLayout),
	)
	if err != nil {
		return nil, &PersistenceError{Op: "scan verdicts", Err: err}
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var findings, createdAt string
		if err := rows.Scan(&e.ID, &e.TaskID, &e.Trigger, &e.Severity, &e.Action, &findings, &createdAt); err != nil {
			return nil, &PersistenceError{Op: "scan row", Err: err}
		}
		if err := json.Unmarshal([]byte(findings), &e.Findings); err != nil {
			return nil, &PersistenceError{Op: "decode findings", Err: err}
		}
		t, err := time.Parse(timestampLayout, createdAt)
		if err != nil {
			return nil, &PersistenceError{Op: "decode timestamp", Err: err}
		}
		e.CreatedAt = t
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "scan verdicts", Err: err}
	}
	return entries, nil
}
