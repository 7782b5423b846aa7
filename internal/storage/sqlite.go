package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const schema = `
CREATE TABLE IF NOT EXISTS msg (
	id     INTEGER PRIMARY KEY,
	node   TEXT NOT NULL,
	domain TEXT NOT NULL,
	nick   TEXT NOT NULL,
	msg    TEXT NOT NULL
);`

// SQLite stores the log in a single table. Each append is its own
// transaction, so a crash leaves a record either complete or absent.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database at path.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Append(ctx context.Context, m Message) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO msg (node, domain, nick, msg) VALUES (?, ?, ?, ?)",
		m.LocalPart, m.Domain, m.Nick, m.Body)
	if err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

func (s *SQLite) Scan(ctx context.Context, fn func(Message) error) error {
	rows, err := s.db.QueryContext(ctx, "SELECT node, domain, nick, msg FROM msg ORDER BY id")
	if err != nil {
		return fmt.Errorf("failed to scan log: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.LocalPart, &m.Domain, &m.Nick, &m.Body); err != nil {
			return fmt.Errorf("failed to read row: %w", err)
		}
		if err := fn(m); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
