package helpers

import (
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/xiaot623/gogo/chatmem/internal/adapter/kv"
)

// NewTestSQLiteStore returns an in-memory SQLite key-value store.
func NewTestSQLiteStore(t *testing.T) *kv.SQLiteStore {
	t.Helper()

	s, err := kv.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s
}

// NewTestRedisStore returns a Redis key-value store backed by miniredis.
func NewTestRedisStore(t *testing.T) (*kv.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	s, err := kv.NewRedisStore("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}

	t.Cleanup(func() {
		_ = s.Close()
	})

	return s, mr
}
