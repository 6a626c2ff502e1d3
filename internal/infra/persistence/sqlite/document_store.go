// Package sqlite stores owner documents in an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"lessonradar/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS documents (
	owner_id   TEXT NOT NULL,
	doc_key    TEXT NOT NULL,
	value      BLOB,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (owner_id, doc_key)
)`

// DocumentStore is a repository.DocumentStore over database/sql and the modernc driver.
type DocumentStore struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*DocumentStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite %s", path)
	}
	// One writer at a time keeps SQLITE_BUSY out of concurrent upserts.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()

		return nil, errors.Wrap(err, "create documents table")
	}

	return &DocumentStore{db: db, now: time.Now}, nil
}

// Get returns the stored value or repository.ErrDocumentNotFound.
func (s *DocumentStore) Get(ctx context.Context, ownerID uuid.UUID, key repository.DocumentKey) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM documents WHERE owner_id = ? AND doc_key = ?`,
		ownerID.String(), string(key),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrDocumentNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select document %s", key)
	}

	return value, nil
}

// Set upserts the value.
func (s *DocumentStore) Set(ctx context.Context, ownerID uuid.UUID, key repository.DocumentKey, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (owner_id, doc_key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (owner_id, doc_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		ownerID.String(), string(key), value, s.now().UnixMilli(),
	)
	if err != nil {
		return errors.Wrapf(err, "upsert document %s", key)
	}

	return nil
}

// Ping checks the database handle.
func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle.
func (s *DocumentStore) Close() error {
	return s.db.Close()
}
