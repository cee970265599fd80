package service

import (
	"context"
	"fmt"

	"github.com/xiaot623/gogo/chatmem/internal/domain"
)

// FetchHistory returns the session's stored turns, oldest first.
func (s *Service) FetchHistory(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	turns, err := s.history.ReadAll(ctx, sessionID)
	if err != nil {
		if degraded("fetch history", sessionID, err) {
			return []domain.Turn{}, nil
		}
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}
	return turns, nil
}

// DeleteHistory clears the session's history log. The summary is left to
// expire on its own.
func (s *Service) DeleteHistory(ctx context.Context, sessionID string) error {
	unlock := s.lockSession(sessionID)
	defer unlock()

	if err := s.history.Clear(ctx, sessionID); err != nil && !degraded("delete history", sessionID, err) {
		return fmt.Errorf("failed to delete history: %w", err)
	}
	return nil
}
