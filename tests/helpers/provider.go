package helpers

import (
	"context"
	"sync"
	"time"

	"github.com/xiaot623/gogo/chatmem/internal/adapter/llm"
)

// EchoProvider answers "echo:" + prompt and records every prompt it sees.
type EchoProvider struct {
	// Delay is slept before answering.
	Delay time.Duration
	// Degrade makes every completion a degraded placeholder.
	Degrade bool

	mu      sync.Mutex
	prompts []string
}

// Ensure EchoProvider implements llm.Provider.
var _ llm.Provider = (*EchoProvider)(nil)

func (p *EchoProvider) Complete(ctx context.Context, prompt string) llm.Completion {
	if p.Delay > 0 {
		time.Sleep(p.Delay)
	}

	p.mu.Lock()
	p.prompts = append(p.prompts, prompt)
	p.mu.Unlock()

	if p.Degrade {
		return llm.Completion{Text: llm.FailureText, Degraded: true}
	}
	return llm.Completion{Text: "echo:" + prompt}
}

// Calls returns how many completions were requested.
func (p *EchoProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.prompts)
}

// Prompts returns a copy of the prompts seen so far.
func (p *EchoProvider) Prompts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.prompts...)
}
