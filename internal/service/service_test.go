package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xiaot623/gogo/chatmem/internal/adapter/kv"
	"github.com/xiaot623/gogo/chatmem/internal/adapter/llm"
	"github.com/xiaot623/gogo/chatmem/internal/config"
	"github.com/xiaot623/gogo/chatmem/policy"
)

func testConfig() *config.Config {
	return &config.Config{
		SessionTTL:       time.Hour,
		CacheTTL:         time.Hour,
		SummaryThreshold: 6,
		RetainTurns:      2,
		CacheDegraded:    true,
	}
}

func newTestService(t *testing.T, store kv.Store, provider llm.Provider, cfg *config.Config) *Service {
	t.Helper()
	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)
	return New(store, provider, llm.NewMockClient(""), cfg, engine)
}
