package kv

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreListOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	for _, v := range []string{"one", "two", "three"} {
		require.NoError(t, store.Append(ctx, "chat:s1", v))
	}
	require.NoError(t, store.Append(ctx, "chat:s2", "other"))

	values, err := store.Range(ctx, "chat:s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three"}, values)

	values, err = store.Range(ctx, "chat:missing")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestSQLiteStoreListExpiry(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)
	now := time.Unix(1_700_000_000, 0)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Append(ctx, "chat:s1", "old"))
	require.NoError(t, store.Expire(ctx, "chat:s1", time.Minute))

	now = now.Add(2 * time.Minute)
	values, err := store.Range(ctx, "chat:s1")
	require.NoError(t, err)
	assert.Empty(t, values)

	require.NoError(t, store.Append(ctx, "chat:s1", "new"))
	values, err = store.Range(ctx, "chat:s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, values)
}

func TestSQLiteStoreExpireRefresh(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)
	now := time.Unix(1_700_000_000, 0)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Append(ctx, "chat:s1", "a"))
	require.NoError(t, store.Expire(ctx, "chat:s1", time.Minute))

	now = now.Add(50 * time.Second)
	require.NoError(t, store.Append(ctx, "chat:s1", "b"))
	require.NoError(t, store.Expire(ctx, "chat:s1", time.Minute))

	now = now.Add(50 * time.Second)
	values, err := store.Range(ctx, "chat:s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, values)
}

func TestSQLiteStoreStrings(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)
	now := time.Unix(1_700_000_000, 0)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "k", "v1", time.Minute))
	require.NoError(t, store.Set(ctx, "k", "v2", time.Minute))

	got, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v2", got)

	now = now.Add(time.Minute)
	_, found, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "forever", "x", 0))
	now = now.Add(24 * time.Hour)
	_, found, err = store.Get(ctx, "forever")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestSQLiteStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestSQLiteStore(t)

	require.NoError(t, store.Append(ctx, "k", "a"))
	require.NoError(t, store.Set(ctx, "k", "s", time.Minute))
	require.NoError(t, store.Delete(ctx, "k"))

	values, err := store.Range(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, values)
	_, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteStoreFileConcurrentSessions(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "chat.db") + "?mode=rwc&_busy_timeout=5000&_journal_mode=WAL"
	store, err := NewSQLiteStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	const sessions, turns = 16, 50
	errs := make(chan error, sessions*turns*2)
	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("chat:s%d", i)
			for j := 0; j < turns; j++ {
				errs <- store.Append(ctx, key, fmt.Sprintf("turn-%d", j))
				errs <- store.Expire(ctx, key, time.Hour)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	for i := 0; i < sessions; i++ {
		values, err := store.Range(ctx, fmt.Sprintf("chat:s%d", i))
		require.NoError(t, err)
		require.Len(t, values, turns)
		assert.Equal(t, "turn-0", values[0])
		assert.Equal(t, fmt.Sprintf("turn-%d", turns-1), values[turns-1])
	}
}
