// Package history journals daemon events to SQLite.
//
// Entries are collected in memory by Record, which never touches the disk,
// and written in one transaction by Flush. The dispatch loop calls Flush on a
// timer, before power-off and on exit.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/studiowebux/eshutdown/internal/migrations"
	"github.com/studiowebux/eshutdown/internal/types"
)

const timestampLayout = time.RFC3339Nano

// Journal is one daemon session's view of the history database
type Journal struct {
	db      *sql.DB
	session string

	mu      sync.Mutex
	pending []types.HistoryEntry
	now     func() time.Time
}

// Open opens (creating if needed) the database at dbPath
func Open(dbPath string) (*Journal, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Journal{
		db:      db,
		session: uuid.NewString(),
		now:     time.Now,
	}, nil
}

// Session returns the id stamped on every entry recorded by this journal
func (j *Journal) Session() string {
	return j.session
}

// Begin registers the session in the sessions table
func (j *Journal) Begin() error {
	_, err := j.db.Exec(
		"INSERT INTO sessions (id, pid, started_at) VALUES (?, ?, ?)",
		j.session, os.Getpid(), j.now().Format(timestampLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to start history session: %w", err)
	}
	return nil
}

// Record queues an entry for the next Flush
func (j *Journal) Record(kind types.EntryKind, detail, conn string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.pending = append(j.pending, types.HistoryEntry{
		Timestamp: j.now(),
		Session:   j.session,
		Kind:      kind,
		Detail:    detail,
		Conn:      conn,
	})
}

// Pending returns the number of entries waiting for Flush
func (j *Journal) Pending() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.pending)
}

// Flush writes all queued entries in a single transaction.
// On failure the entries stay queued.
func (j *Journal) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(j.pending) == 0 {
		return nil
	}

	tx, err := j.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin history flush: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO journal (timestamp, session, kind, detail, conn) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare history insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range j.pending {
		var conn sql.NullString
		if e.Conn != "" {
			conn = sql.NullString{String: e.Conn, Valid: true}
		}
		if _, err := stmt.Exec(e.Timestamp.Format(timestampLayout), e.Session, string(e.Kind), e.Detail, conn); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to save history entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history flush: %w", err)
	}

	j.pending = j.pending[:0]
	return nil
}

// Load returns up to limit entries, newest first. limit <= 0 returns all.
func (j *Journal) Load(limit int) ([]types.HistoryEntry, error) {
	query := `
		SELECT id, timestamp, session, kind, detail, conn
		FROM journal
		ORDER BY id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]types.HistoryEntry, error) {
	var entries []types.HistoryEntry

	for rows.Next() {
		var (
			e         types.HistoryEntry
			timestamp string
			kind      string
			conn      sql.NullString
		)
		if err := rows.Scan(&e.ID, &timestamp, &e.Session, &kind, &e.Detail, &conn); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}

		parsed, err := time.Parse(timestampLayout, timestamp)
		if err != nil {
			parsed, err = time.ParseInLocation("2006-01-02 15:04:05", timestamp, time.Local)
			if err != nil {
				parsed = time.Time{}
			}
		}
		e.Timestamp = parsed
		e.Kind = types.EntryKind(kind)
		e.Conn = conn.String

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Count returns the number of persisted entries
func (j *Journal) Count() (int, error) {
	var count int
	if err := j.db.QueryRow("SELECT COUNT(*) FROM journal").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get history count: %w", err)
	}
	return count, nil
}

// Clear deletes every persisted entry and session
func (j *Journal) Clear() error {
	if _, err := j.db.Exec("DELETE FROM journal"); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	if _, err := j.db.Exec("DELETE FROM sessions"); err != nil {
		return fmt.Errorf("failed to clear sessions: %w", err)
	}
	return nil
}

// Close flushes queued entries, ends the session and closes the database
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}

	flushErr := j.Flush()
	_, endErr := j.db.Exec("UPDATE sessions SET ended_at = ? WHERE id = ?", j.now().Format(timestampLayout), j.session)
	closeErr := j.db.Close()
	j.db = nil

	switch {
	case flushErr != nil:
		return flushErr
	case endErr != nil:
		return fmt.Errorf("failed to end history session: %w", endErr)
	default:
		return closeErr
	}
}
