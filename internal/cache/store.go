package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one cached metadata row. At most one record exists per video id.
type Record struct {
	ID        string
	Payload   []byte
	UpdatedAt time.Time
}

// Store is the persistence collaborator behind the metadata cache. Put must
// be an atomic upsert: a concurrent insert of the same key is absorbed, never
// surfaced as an error.
type Store interface {
	Get(ctx context.Context, id string) (*Record, error)
	Put(ctx context.Context, rec *Record) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}

// ErrNotFound is returned by Get when no record exists for the id.
var ErrNotFound = errors.New("metadata record not found")

const schema = `
CREATE TABLE IF NOT EXISTS video_info (
	id         TEXT PRIMARY KEY,
	info       TEXT NOT NULL,
	updated_on TIMESTAMP NOT NULL
);`

// sqliteStore persists metadata records in a SQLite database file.
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the metadata database at path.
func OpenSQLite(path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening metadata db: %w", err)
	}
	// A single writer avoids SQLITE_BUSY under concurrent upserts.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating metadata table: %w", err)
	}
	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, info, updated_on FROM video_info WHERE id = ?`, id)

	var rec Record
	var payload string
	if err := row.Scan(&rec.ID, &payload, &rec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading metadata record: %w", err)
	}
	rec.Payload = []byte(payload)
	return &rec, nil
}

func (s *sqliteStore) Put(ctx context.Context, rec *Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO video_info (id, info, updated_on) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET info = excluded.info, updated_on = excluded.updated_on`,
		rec.ID, string(rec.Payload), rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting metadata record: %w", err)
	}
	return nil
}

func (s *sqliteStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM video_info WHERE updated_on < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("sweeping stale metadata: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
