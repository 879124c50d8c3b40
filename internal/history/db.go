// Package history keeps a local log of completed conversions.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS conversions (
    id           TEXT PRIMARY KEY,
    created_at   TEXT NOT NULL,
    input_name   TEXT NOT NULL DEFAULT '',
    source       TEXT NOT NULL,
    format       TEXT NOT NULL,
    timestamps   INTEGER NOT NULL DEFAULT 0,
    replays      INTEGER NOT NULL DEFAULT 0,
    input_bytes  INTEGER NOT NULL DEFAULT 0,
    output_bytes INTEGER NOT NULL DEFAULT 0,
    messages     INTEGER NOT NULL DEFAULT 0
);
`

type DB struct {
	db *sql.DB
}

func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

type Entry struct {
	ID          string
	CreatedAt   string
	InputName   string
	Source      string
	Format      string
	Timestamps  bool
	Replays     bool
	InputBytes  int
	OutputBytes int
	Messages    int
}

// Append records one completed conversion. ID and CreatedAt are filled
// in when empty.
func (d *DB) Append(e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt == "" {
		e.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := d.db.Exec(
		`INSERT INTO conversions
		 (id, created_at, input_name, source, format, timestamps, replays, input_bytes, output_bytes, messages)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CreatedAt, e.InputName, e.Source, e.Format,
		boolInt(e.Timestamps), boolInt(e.Replays),
		e.InputBytes, e.OutputBytes, e.Messages,
	)
	if err != nil {
		return fmt.Errorf("append: %w", err)
	}
	return nil
}

// Recent returns the newest entries, most recent first.
func (d *DB) Recent(limit int) ([]Entry, error) {
	rows, err := d.db.Query(
		`SELECT id, created_at, input_name, source, format, timestamps, replays, input_bytes, output_bytes, messages
		 FROM conversions ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var ts, rep int
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.InputName, &e.Source, &e.Format,
			&ts, &rep, &e.InputBytes, &e.OutputBytes, &e.Messages); err != nil {
			return nil, err
		}
		e.Timestamps = ts != 0
		e.Replays = rep != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (d *DB) Count() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM conversions").Scan(&n)
	return n, err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
