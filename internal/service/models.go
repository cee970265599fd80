package service

import (
	"context"
	"fmt"

	"github.com/xiaot623/gogo/chatmem/internal/adapter/llm"
)

// ListModels retrieves the models offered by the completion upstream.
func (s *Service) ListModels(ctx context.Context) ([]llm.Model, error) {
	models, err := s.llmClient.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	return models, nil
}
