package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/xiaot623/gogo/chatmem/internal/adapter/kv"
	"github.com/xiaot623/gogo/chatmem/internal/domain"
)

// Chat handles one inbound message for a session and returns the answer.
//
// The user turn is recorded first so it counts toward the compaction
// threshold. Store outages degrade to an empty memory; only corrupt stored
// history is reported as an error.
func (s *Service) Chat(ctx context.Context, sessionID, message string) (string, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	s.appendTurn(ctx, sessionID, domain.UserTurn(message))

	history, err := s.history.ReadAll(ctx, sessionID)
	if err != nil && !degraded("read history", sessionID, err) {
		return "", fmt.Errorf("failed to read history: %w", err)
	}

	if len(history) > s.config.SummaryThreshold {
		s.compact(ctx, sessionID, history)
	}

	prompt := s.buildPrompt(ctx, sessionID, message)

	reply, hit, err := s.cache.Lookup(ctx, prompt)
	if err != nil {
		degraded("cache lookup", sessionID, err)
	}
	if hit {
		log.Printf("LLM cache HIT session=%s", sessionID)
		s.appendTurn(ctx, sessionID, domain.BotTurn(reply))
		return reply, nil
	}

	log.Printf("LLM cache MISS session=%s", sessionID)
	completion := s.provider.Complete(ctx, prompt)

	if !completion.Degraded || s.config.CacheDegraded {
		if err := s.cache.Store(ctx, prompt, completion.Text); err != nil {
			degraded("cache store", sessionID, err)
		}
	}
	s.appendTurn(ctx, sessionID, domain.BotTurn(completion.Text))

	return completion.Text, nil
}

// buildPrompt prefixes the message with the session summary, if any.
func (s *Service) buildPrompt(ctx context.Context, sessionID, message string) string {
	summary, found, err := s.summaries.Get(ctx, sessionID)
	if err != nil {
		degraded("read summary", sessionID, err)
	}
	if !found {
		return message
	}
	return "Conversation summary:\n" + summary + "\n\nUser: " + message
}

func (s *Service) appendTurn(ctx context.Context, sessionID string, turn domain.Turn) {
	if err := s.history.Append(ctx, sessionID, turn); err != nil {
		degraded("append history", sessionID, err)
	}
}

// degraded logs a store outage and reports whether err was one. Any other
// error is left to the caller.
func degraded(op, sessionID string, err error) bool {
	if !errors.Is(err, kv.ErrUnavailable) {
		return false
	}
	log.Printf("WARN: %s skipped for session %s: %v", op, sessionID, err)
	return true
}
