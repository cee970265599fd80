package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite. Expired keys are purged lazily
// when they are next touched.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection for every DSN: in-memory databases are per connection,
	// and file databases return SQLITE_LOCKED/BUSY to concurrent writers.
	// database/sql queues callers on the single connection instead.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &SQLiteStore{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS kv_lists (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			key TEXT NOT NULL,
			value TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_kv_lists_key ON kv_lists(key, id)`,
		`CREATE TABLE IF NOT EXISTS kv_strings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			expires_at INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS kv_list_expiry (
			key TEXT PRIMARY KEY,
			expires_at INTEGER NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

func (s *SQLiteStore) Append(ctx context.Context, key, value string) error {
	if err := s.purgeExpiredList(ctx, key); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO kv_lists (key, value) VALUES (?, ?)`, key, value); err != nil {
		return unavailable("append", err)
	}
	return nil
}

func (s *SQLiteStore) Range(ctx context.Context, key string) ([]string, error) {
	if err := s.purgeExpiredList(ctx, key); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT value FROM kv_lists WHERE key = ? ORDER BY id ASC`, key)
	if err != nil {
		return nil, unavailable("range", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, unavailable("range", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("range", err)
	}
	return values, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("delete", err)
	}
	defer tx.Rollback()

	for _, q := range []string{
		`DELETE FROM kv_lists WHERE key = ?`,
		`DELETE FROM kv_list_expiry WHERE key = ?`,
		`DELETE FROM kv_strings WHERE key = ?`,
	} {
		if _, err := tx.ExecContext(ctx, q, key); err != nil {
			return unavailable("delete", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return unavailable("delete", err)
	}
	return nil
}

// Expire sets the expiry of a list or string key. Missing keys are ignored.
func (s *SQLiteStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	expiresAt := s.now().Add(ttl).UnixMilli()

	if _, err := s.db.ExecContext(ctx,
		`UPDATE kv_strings SET expires_at = ? WHERE key = ?`, expiresAt, key); err != nil {
		return unavailable("expire", err)
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_list_expiry (key, expires_at)
		SELECT ?, ? WHERE EXISTS (SELECT 1 FROM kv_lists WHERE key = ?)
		ON CONFLICT(key) DO UPDATE SET expires_at = excluded.expires_at`,
		key, expiresAt, key); err != nil {
		return unavailable("expire", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	var expiresAt sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM kv_strings WHERE key = ?`, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable("get", err)
	}

	if expiresAt.Valid && expiresAt.Int64 <= s.now().UnixMilli() {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_strings WHERE key = ?`, key); err != nil {
			return "", false, unavailable("get", err)
		}
		return "", false, nil
	}
	return value, true, nil
}

// Set stores value at key. A non-positive ttl stores the key without expiry.
func (s *SQLiteStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	var expiresAt sql.NullInt64
	if ttl > 0 {
		expiresAt = sql.NullInt64{Int64: s.now().Add(ttl).UnixMilli(), Valid: true}
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO kv_strings (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expiresAt); err != nil {
		return unavailable("set", err)
	}
	return nil
}

func (s *SQLiteStore) Available() bool { return true }

func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// purgeExpiredList drops a list whose expiry has passed.
func (s *SQLiteStore) purgeExpiredList(ctx context.Context, key string) error {
	var expiresAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT expires_at FROM kv_list_expiry WHERE key = ?`, key).Scan(&expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return unavailable("expiry", err)
	}
	if expiresAt > s.now().UnixMilli() {
		return nil
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_lists WHERE key = ?`, key); err != nil {
		return unavailable("expiry", err)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_list_expiry WHERE key = ?`, key); err != nil {
		return unavailable("expiry", err)
	}
	return nil
}
