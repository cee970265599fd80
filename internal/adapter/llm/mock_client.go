package llm

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	defaultMockModel = "mock-chat"
	mockReplyPrefix  = "[mock] "
	mockReplyLimit   = 200
)

// MockClient answers locally. Its reply is a pure function of the last user
// message, so repeated prompts hit the response cache just like a real model
// at low temperature would.
type MockClient struct {
	model string
}

// Ensure MockClient implements LLMClient interface.
var _ LLMClient = (*MockClient)(nil)

// NewMockClient creates a mock client that reports model as its only model.
// An empty model falls back to "mock-chat".
func NewMockClient(model string) *MockClient {
	if model == "" {
		model = defaultMockModel
	}
	return &MockClient{model: model}
}

// CreateChatCompletion echoes the last user message behind a "[mock] " marker.
func (m *MockClient) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var prompt string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			prompt = req.Messages[i].Content
			break
		}
	}
	reply := mockReplyPrefix + clip(prompt, mockReplyLimit)

	model := req.Model
	if model == "" {
		model = m.model
	}

	return &ChatCompletionResponse{
		ID:      "mock-" + uuid.New().String(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []Choice{{
			Message:      &ChatMessage{Role: "assistant", Content: reply},
			FinishReason: "stop",
		}},
	}, nil
}

// ListModels reports the configured model.
func (m *MockClient) ListModels(ctx context.Context) ([]Model, error) {
	return []Model{{ID: m.model, Object: "model", OwnedBy: "chatmem"}}, nil
}

// clip shortens s to at most n runes.
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
