package storage

// Bucket-style keyed store on SQLite.
//
// One table holds every bucket: records are JSON payloads keyed by
// (bucket, key). The agent never queries inside payloads, so a generic
// items table keeps the storage contract identical for listings,
// transactions and inventory.

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS items (
    bucket    TEXT NOT NULL,
    key       TEXT NOT NULL,
    payload   TEXT NOT NULL,
    stored_at DATETIME NOT NULL,
    PRIMARY KEY (bucket, key)
);

CREATE INDEX IF NOT EXISTS idx_items_bucket ON items(bucket);
`

// SQLiteStore implements ports.BucketStore on SQLite (pure Go, no CGo).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at the given path and
// applies the schema. Use ":memory:" for tests.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStore: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStore: apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Put stores record as JSON under bucket/key, overwriting previous values.
func (s *SQLiteStore) Put(ctx context.Context, bucket, key string, record any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("storage.Put: marshal %s/%s: %w", bucket, key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO items (bucket, key, payload, stored_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(bucket, key) DO UPDATE SET
			payload   = excluded.payload,
			stored_at = excluded.stored_at
	`, bucket, key, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("storage.Put: upsert %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Get decodes the record at bucket/key into out. Returns (false, nil) when
// the key is absent.
func (s *SQLiteStore) Get(ctx context.Context, bucket, key string, out any) (bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM items WHERE bucket = ? AND key = ?`,
		bucket, key,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage.Get: %s/%s: %w", bucket, key, err)
	}

	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return false, fmt.Errorf("storage.Get: decode %s/%s: %w", bucket, key, err)
	}
	return true, nil
}

// ListKeys returns all keys in the bucket in sorted order.
func (s *SQLiteStore) ListKeys(ctx context.Context, bucket string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM items WHERE bucket = ? ORDER BY key`, bucket)
	if err != nil {
		return nil, fmt.Errorf("storage.ListKeys: %s: %w", bucket, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("storage.ListKeys: scan: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Delete removes bucket/key. Missing keys are a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, bucket, key string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM items WHERE bucket = ? AND key = ?`, bucket, key); err != nil {
		return fmt.Errorf("storage.Delete: %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
