// Package history persists interactive command lines in a SQLite
// database so they survive across sessions.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session    TEXT NOT NULL,
	line       TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS history_session ON history(session);
`

// Store is an append-only history log backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open creates the database file (and its parent directory) if needed
// and prepares the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Append records one command line for the given session.
func (s *Store) Append(session, line string) error {
	if line == "" {
		return nil
	}
	_, err := s.db.Exec(
		"INSERT INTO history (session, line) VALUES (?, ?)", session, line)
	if err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

// Recent returns up to limit of the most recent lines, oldest first, so
// they can be replayed into a line editor in order.
func (s *Store) Recent(limit int) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT line FROM (
			SELECT id, line FROM history ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return lines, nil
}

// Prune deletes all but the newest keep lines.
func (s *Store) Prune(keep int) error {
	_, err := s.db.Exec(`
		DELETE FROM history WHERE id NOT IN (
			SELECT id FROM history ORDER BY id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
