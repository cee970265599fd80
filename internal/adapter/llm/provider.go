package llm

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
)

// Placeholder texts returned in place of a generated answer.
const (
	EmptyPromptText = "Error: prompt is empty."
	FailureText     = "⚠️ Error generating response from the language model."
)

// ProviderOptions configures a ChatProvider.
type ProviderOptions struct {
	Model       string
	Temperature float64
	// Timeout bounds a single upstream attempt.
	Timeout time.Duration
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// ChatProvider sends each prompt as a single user message and degrades every
// failure into a placeholder completion.
type ChatProvider struct {
	client LLMClient
	opts   ProviderOptions
}

// Ensure ChatProvider implements Provider.
var _ Provider = (*ChatProvider)(nil)

// NewChatProvider creates a provider on top of client.
func NewChatProvider(client LLMClient, opts ProviderOptions) *ChatProvider {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = 500 * time.Millisecond
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = 5 * time.Second
	}
	return &ChatProvider{client: client, opts: opts}
}

// Complete generates a completion for prompt.
func (p *ChatProvider) Complete(ctx context.Context, prompt string) Completion {
	if strings.TrimSpace(prompt) == "" {
		return Completion{Text: EmptyPromptText, Degraded: true}
	}
	if p.opts.Model == "" {
		log.Println("WARN: no LLM model configured")
		return Completion{Text: FailureText, Degraded: true}
	}

	temperature := p.opts.Temperature
	req := &ChatCompletionRequest{
		Model:       p.opts.Model,
		Messages:    []ChatMessage{{Role: "user", Content: prompt}},
		Temperature: &temperature,
	}

	var text string
	err := p.retry(ctx, func() error {
		attemptCtx, cancel := p.attemptContext(ctx)
		defer cancel()

		resp, err := p.client.CreateChatCompletion(attemptCtx, req)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
			return errMalformed
		}
		text = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		log.Printf("WARN: completion failed: %v", err)
		return Completion{Text: FailureText, Degraded: true}
	}

	return Completion{Text: text}
}

var errMalformed = errors.New("llm: response has no choices")

func (p *ChatProvider) attemptContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.opts.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.opts.Timeout)
}

// retry calls fn up to MaxAttempts times with exponential backoff. Client
// errors other than rate limiting are not retried.
func (p *ChatProvider) retry(ctx context.Context, fn func() error) error {
	delay := p.opts.InitialDelay
	var lastErr error

	for attempt := 1; attempt <= p.opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return errors.Join(lastErr, err)
		}

		lastErr = fn()
		if lastErr == nil || !retryable(lastErr) {
			return lastErr
		}

		if attempt < p.opts.MaxAttempts {
			select {
			case <-ctx.Done():
				return errors.Join(lastErr, ctx.Err())
			case <-time.After(delay):
			}
			delay = min(delay*2, p.opts.MaxDelay)
		}
	}

	return fmt.Errorf("after %d attempts: %w", p.opts.MaxAttempts, lastErr)
}

func retryable(err error) bool {
	if errors.Is(err, errMalformed) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	return true
}
