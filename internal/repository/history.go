// Package repository holds the per-session history and summary stores and
// the content-addressed response cache, all built on a kv.Store.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/xiaot623/gogo/chatmem/internal/adapter/kv"
	"github.com/xiaot623/gogo/chatmem/internal/domain"
)

// ErrCorruptTurn is returned when a stored history element is not a turn.
var ErrCorruptTurn = errors.New("repository: corrupt history entry")

// HistoryStore is the per-session ordered log of turns.
type HistoryStore struct {
	store kv.Store
	ttl   time.Duration
}

// NewHistoryStore creates a history store whose logs expire ttl after the
// last append.
func NewHistoryStore(store kv.Store, ttl time.Duration) *HistoryStore {
	return &HistoryStore{store: store, ttl: ttl}
}

func historyKey(sessionID string) string {
	return "chat:" + sessionID
}

// Append adds turn to the tail of the session log and resets its expiry.
func (h *HistoryStore) Append(ctx context.Context, sessionID string, turn domain.Turn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("failed to marshal turn: %w", err)
	}

	key := historyKey(sessionID)
	if err := h.store.Append(ctx, key, string(data)); err != nil {
		return err
	}
	return h.store.Expire(ctx, key, h.ttl)
}

// ReadAll returns the session's turns, oldest first.
func (h *HistoryStore) ReadAll(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	values, err := h.store.Range(ctx, historyKey(sessionID))
	if err != nil {
		return nil, err
	}

	turns := make([]domain.Turn, 0, len(values))
	for i, v := range values {
		var turn domain.Turn
		if err := json.Unmarshal([]byte(v), &turn); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrCorruptTurn, i, err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// Clear deletes the session log.
func (h *HistoryStore) Clear(ctx context.Context, sessionID string) error {
	return h.store.Delete(ctx, historyKey(sessionID))
}
