package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS control_state (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteCache keeps values as JSON blobs in a single SQLite table, so a
// session survives process restarts without an external service.
type SQLiteCache[S any] struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database file and prepares the schema.
func OpenSQLite[S any](path string) (*SQLiteCache[S], error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	cache, err := NewSQLiteCache[S](db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return cache, nil
}

// NewSQLiteCache wraps an existing handle and prepares the schema.
func NewSQLiteCache[S any](db *sql.DB) (*SQLiteCache[S], error) {
	if _, err := db.Exec(sqliteSchema); err != nil {
		return nil, fmt.Errorf("prepare schema: %w", err)
	}
	return &SQLiteCache[S]{db: db}, nil
}

func (c *SQLiteCache[S]) Close() error {
	return c.db.Close()
}

func (c *SQLiteCache[S]) Set(ctx context.Context, key string, val S) error {
	data, err := sonic.Marshal(val)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO control_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, data, time.Now().Unix())
	return err
}

func (c *SQLiteCache[S]) Get(ctx context.Context, key string) (S, bool, error) {
	var zero S
	var data []byte
	err := c.db.QueryRowContext(ctx, `SELECT value FROM control_state WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	var val S
	if err := sonic.Unmarshal(data, &val); err != nil {
		return zero, false, err
	}
	return val, true, nil
}

func (c *SQLiteCache[S]) Del(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM control_state WHERE key = ?`, key)
	return err
}

func (c *SQLiteCache[S]) Exists(ctx context.Context, key string) (bool, error) {
	var one int
	err := c.db.QueryRowContext(ctx, `SELECT 1 FROM control_state WHERE key = ?`, key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
