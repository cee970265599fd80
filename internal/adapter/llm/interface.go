// Package llm provides the completion provider used by the chat service.
package llm

import "context"

// LLMClient defines the interface for LLM API operations.
type LLMClient interface {
	// CreateChatCompletion sends a chat completion request.
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)

	// ListModels retrieves the list of available models.
	ListModels(ctx context.Context) ([]Model, error)
}

// Ensure Client implements LLMClient interface.
var _ LLMClient = (*Client)(nil)

// Completion is the text produced for a prompt. Degraded is set when Text is
// a placeholder standing in for a failed generation.
type Completion struct {
	Text     string
	Degraded bool
}

// Provider turns a prompt into a completion. It never fails; failures are
// reported as degraded completions.
type Provider interface {
	Complete(ctx context.Context, prompt string) Completion
}
