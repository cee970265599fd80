package llm

import (
	"log"

	"github.com/xiaot623/gogo/chatmem/internal/config"
)

// NewLLMClient returns the completion client selected by cfg: the local mock
// when cfg.LLMMock is set, otherwise the OpenAI-compatible upstream client.
func NewLLMClient(cfg *config.Config) LLMClient {
	if cfg.LLMMock {
		log.Println("GOGO_MODE=MOCK detected, answering with the local mock client")
		return NewMockClient(cfg.LLMModel)
	}
	if cfg.LLMAPIKey == "" {
		log.Println("WARN: LLM_API_KEY is not set, upstream calls will likely be rejected")
	}
	return NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMTimeout)
}
