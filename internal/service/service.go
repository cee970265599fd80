package service

import (
	"github.com/xiaot623/gogo/chatmem/internal/adapter/kv"
	"github.com/xiaot623/gogo/chatmem/internal/adapter/llm"
	"github.com/xiaot623/gogo/chatmem/internal/config"
	"github.com/xiaot623/gogo/chatmem/internal/repository"
	"github.com/xiaot623/gogo/chatmem/policy"
)

// Service coordinates the history, summary and cache stores around the
// completion provider.
type Service struct {
	store        kv.Store
	history      *repository.HistoryStore
	summaries    *repository.SummaryStore
	cache        *repository.ResponseCache
	provider     llm.Provider
	llmClient    llm.LLMClient
	config       *config.Config
	policyEngine *policy.Engine
	locks        *sessionLocks
}

func New(store kv.Store, provider llm.Provider, llmClient llm.LLMClient, cfg *config.Config, policyEngine *policy.Engine) *Service {
	s := &Service{
		store:        store,
		history:      repository.NewHistoryStore(store, cfg.SessionTTL),
		summaries:    repository.NewSummaryStore(store, cfg.SessionTTL),
		cache:        repository.NewResponseCache(store, cfg.CacheTTL),
		provider:     provider,
		llmClient:    llmClient,
		config:       cfg,
		policyEngine: policyEngine,
	}
	if cfg.SessionLock {
		s.locks = newSessionLocks()
	}
	return s
}

// StoreAvailable reports whether chat memory is backed by a live store.
func (s *Service) StoreAvailable() bool {
	return s.store.Available()
}
