package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xiaot623/gogo/chatmem/internal/adapter/kv"
)

// ResponseCache maps exact prompt text to a previously generated completion.
// Entries are shared by every session that produces the same prompt.
type ResponseCache struct {
	store kv.Store
	ttl   time.Duration
}

// NewResponseCache creates a cache whose entries live for ttl.
func NewResponseCache(store kv.Store, ttl time.Duration) *ResponseCache {
	return &ResponseCache{store: store, ttl: ttl}
}

// Fingerprint returns the hex SHA-256 of prompt.
func Fingerprint(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

func cacheKey(prompt string) string {
	return "llm:cache:" + Fingerprint(prompt)
}

// Lookup returns the cached completion for prompt. Empty or undecodable
// entries are misses.
func (c *ResponseCache) Lookup(ctx context.Context, prompt string) (string, bool, error) {
	raw, found, err := c.store.Get(ctx, cacheKey(prompt))
	if err != nil || !found {
		return "", false, err
	}

	var completion string
	if err := json.Unmarshal([]byte(raw), &completion); err != nil || completion == "" {
		return "", false, nil
	}
	return completion, true, nil
}

// Store writes completion for prompt, replacing any previous entry.
func (c *ResponseCache) Store(ctx context.Context, prompt, completion string) error {
	data, err := json.Marshal(completion)
	if err != nil {
		return fmt.Errorf("failed to marshal completion: %w", err)
	}
	return c.store.Set(ctx, cacheKey(prompt), string(data), c.ttl)
}
