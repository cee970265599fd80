package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/chatmem/tests/helpers"
)

func TestFingerprint(t *testing.T) {
	// sha256("hello")
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", Fingerprint("hello"))
	assert.Equal(t, Fingerprint("hello"), Fingerprint("hello"))

	for _, other := range []string{"Hello", "hello ", " hello", "Conversation summary:\nx\n\nUser: hello"} {
		assert.NotEqual(t, Fingerprint("hello"), Fingerprint(other), other)
	}
}

func TestCacheStoreLookup(t *testing.T) {
	ctx := context.Background()
	cache := NewResponseCache(helpers.NewTestSQLiteStore(t), time.Hour)

	prompts := []string{"hello", "", "Conversation summary:\ns\n\nUser: hi", "ünïcode ✓"}
	for i, p := range prompts {
		require.NoError(t, cache.Store(ctx, p, "reply-"+string(rune('a'+i))))
	}
	for i, p := range prompts {
		got, found, err := cache.Lookup(ctx, p)
		require.NoError(t, err)
		assert.True(t, found, p)
		assert.Equal(t, "reply-"+string(rune('a'+i)), got)
	}

	_, found, err := cache.Lookup(ctx, "never stored")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheOverwriteAndTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := helpers.NewTestRedisStore(t)
	cache := NewResponseCache(store, time.Hour)

	require.NoError(t, cache.Store(ctx, "p", "old"))
	require.NoError(t, cache.Store(ctx, "p", "new"))

	got, found, err := cache.Lookup(ctx, "p")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "new", got)

	raw, err := mr.Get("llm:cache:" + Fingerprint("p"))
	require.NoError(t, err)
	assert.Equal(t, `"new"`, raw)
	assert.Equal(t, time.Hour, mr.TTL("llm:cache:"+Fingerprint("p")))

	mr.FastForward(time.Hour + time.Second)
	_, found, err = cache.Lookup(ctx, "p")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheEmptyCompletionIsMiss(t *testing.T) {
	ctx := context.Background()
	cache := NewResponseCache(helpers.NewTestSQLiteStore(t), time.Hour)

	require.NoError(t, cache.Store(ctx, "p", ""))
	_, found, err := cache.Lookup(ctx, "p")
	require.NoError(t, err)
	assert.False(t, found)
}
