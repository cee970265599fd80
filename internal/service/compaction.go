package service

import (
	"context"
	"log"
	"strings"

	"github.com/xiaot623/gogo/chatmem/internal/domain"
)

const summaryInstruction = "Summarize the following conversation briefly so it can be used as context later:"

// splitHistory partitions history into the turns to summarize and the most
// recent retain turns.
func splitHistory(history []domain.Turn, retain int) (older, recent []domain.Turn) {
	if retain <= 0 {
		return history, nil
	}
	if retain >= len(history) {
		return nil, history
	}
	cut := len(history) - retain
	return history[:cut], history[cut:]
}

// summaryPrompt renders turns as "<role>: <text>" lines under the instruction.
func summaryPrompt(turns []domain.Turn) string {
	var b strings.Builder
	b.WriteString(summaryInstruction)
	b.WriteString("\n\n")
	for i, t := range turns {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(t.Role))
		b.WriteString(": ")
		b.WriteString(t.Text)
	}
	return b.String()
}

// compact replaces the older part of history with a generated summary and
// rewrites the log to the retained suffix. The summary is stored even when
// the provider degraded.
func (s *Service) compact(ctx context.Context, sessionID string, history []domain.Turn) {
	older, recent := splitHistory(history, s.config.RetainTurns)
	log.Printf("Summarizing session=%s turns=%d keep=%d", sessionID, len(older), len(recent))

	summary := s.provider.Complete(ctx, summaryPrompt(older))

	if err := s.summaries.Set(ctx, sessionID, summary.Text); err != nil {
		degraded("store summary", sessionID, err)
	}

	if err := s.history.Clear(ctx, sessionID); err != nil {
		degraded("clear history", sessionID, err)
	}
	for _, t := range recent {
		s.appendTurn(ctx, sessionID, t)
	}
}
