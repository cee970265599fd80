package service

import (
	"context"
	"fmt"

	"github.com/xiaot623/gogo/chatmem/policy"
)

// RejectedError is returned by Admit when the policy refuses a message.
// Reason is meant to be shown to the user.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return "message rejected: " + e.Reason
}

// Admit evaluates the admission policy for an inbound message.
func (s *Service) Admit(ctx context.Context, sessionID, message string) error {
	res, err := s.policyEngine.Evaluate(ctx, policy.Input{
		SessionID: sessionID,
		Message:   message,
		MaxLength: s.config.MaxMessageLength,
	})
	if err != nil {
		return fmt.Errorf("failed to evaluate admission policy: %w", err)
	}
	if !res.Allowed() {
		reason := res.Reason
		if reason == "" {
			reason = "Error: message rejected."
		}
		return &RejectedError{Reason: reason}
	}
	return nil
}
