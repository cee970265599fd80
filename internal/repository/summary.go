package repository

import (
	"context"
	"time"

	"github.com/xiaot623/gogo/chatmem/internal/adapter/kv"
)

// SummaryStore keeps one summary string per session.
type SummaryStore struct {
	store kv.Store
	ttl   time.Duration
}

// NewSummaryStore creates a summary store with its own expiry.
func NewSummaryStore(store kv.Store, ttl time.Duration) *SummaryStore {
	return &SummaryStore{store: store, ttl: ttl}
}

func summaryKey(sessionID string) string {
	return "chat:summary:" + sessionID
}

// Get returns the session summary. An empty stored summary reports not found.
func (s *SummaryStore) Get(ctx context.Context, sessionID string) (string, bool, error) {
	summary, found, err := s.store.Get(ctx, summaryKey(sessionID))
	if err != nil || !found || summary == "" {
		return "", false, err
	}
	return summary, true, nil
}

// Set replaces the session summary and resets its expiry.
func (s *SummaryStore) Set(ctx context.Context, sessionID, summary string) error {
	return s.store.Set(ctx, summaryKey(sessionID), summary, s.ttl)
}
