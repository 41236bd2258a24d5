// Package journal provides an optional SQLite-backed history of
// reconciliation runs.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at    DATETIME NOT NULL,
	duration_ms   INTEGER NOT NULL DEFAULT 0,
	notes         INTEGER NOT NULL DEFAULT 0,
	indexes       INTEGER NOT NULL DEFAULT 0,
	unindexed     INTEGER NOT NULL DEFAULT 0,
	added         INTEGER NOT NULL DEFAULT 0,
	removed       INTEGER NOT NULL DEFAULT 0,
	tagged        INTEGER NOT NULL DEFAULT 0,
	aux_checksum  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS run_events (
	run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	kind   TEXT NOT NULL,
	target TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_run_events_run ON run_events(run_id);
`

// Event kinds recorded per run.
const (
	EventAdded   = "added"
	EventRemoved = "removed"
	EventTagged  = "tagged"
)

// RunRow represents one recorded reconciliation run.
type RunRow struct {
	ID          int64
	StartedAt   time.Time
	Duration    time.Duration
	Notes       int
	Indexes     int
	Unindexed   int
	Added       int
	Removed     int
	Tagged      int
	AuxChecksum string
}

// Event is one note-level change observed during a run.
type Event struct {
	Kind   string
	Target string
}

// DB wraps a sql.DB with journal-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite journal and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("journal: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("journal: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// RecordRun inserts a run row and its events within a transaction, returning
// the new run id.
func (db *DB) RecordRun(row RunRow, events []Event) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("journal: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	res, err := tx.Exec(`
		INSERT INTO runs (started_at, duration_ms, notes, indexes, unindexed, added, removed, tagged, aux_checksum)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, row.StartedAt, row.Duration.Milliseconds(), row.Notes, row.Indexes, row.Unindexed, row.Added, row.Removed, row.Tagged, row.AuxChecksum)
	if err != nil {
		return 0, fmt.Errorf("journal: insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("journal: run id: %w", err)
	}

	if len(events) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO run_events (run_id, kind, target) VALUES (?, ?, ?)`)
		if err != nil {
			return 0, fmt.Errorf("journal: prepare event insert: %w", err)
		}
		defer stmt.Close()
		for _, ev := range events {
			if _, err := stmt.Exec(runID, ev.Kind, ev.Target); err != nil {
				return 0, fmt.Errorf("journal: insert event: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("journal: commit: %w", err)
	}
	return runID, nil
}

// RecentRuns returns up to limit runs, newest first.
func (db *DB) RecentRuns(limit int) ([]RunRow, error) {
	rows, err := db.conn.Query(`
		SELECT id, started_at, duration_ms, notes, indexes, unindexed, added, removed, tagged, aux_checksum
		FROM runs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: recent runs: %w", err)
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var r RunRow
		var durMS int64
		if err := rows.Scan(&r.ID, &r.StartedAt, &durMS, &r.Notes, &r.Indexes, &r.Unindexed, &r.Added, &r.Removed, &r.Tagged, &r.AuxChecksum); err != nil {
			return nil, err
		}
		r.Duration = time.Duration(durMS) * time.Millisecond
		out = append(out, r)
	}
	return out, rows.Err()
}

// RunEvents returns the events recorded for one run.
func (db *DB) RunEvents(runID int64) ([]Event, error) {
	rows, err := db.conn.Query(`SELECT kind, target FROM run_events WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("journal: run events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.Kind, &ev.Target); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}
