// Package config provides configuration for the chat backend.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends.
const (
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
	StoreNone   = "none"
)

// Config holds the chat backend configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Key-value store
	StoreBackend string
	RedisURL     string
	SQLiteDSN    string
	StoreTimeout time.Duration

	// Completion provider
	LLMBaseURL     string
	LLMAPIKey      string
	LLMModel       string
	LLMTemperature float64
	LLMTimeout     time.Duration
	LLMMaxAttempts int
	// LLMMock answers locally without calling the upstream (GOGO_MODE=MOCK).
	LLMMock        bool

	// Memory policy
	SessionTTL       time.Duration
	CacheTTL         time.Duration
	SummaryThreshold int
	RetainTurns      int
	CacheDegraded    bool
	SessionLock      bool

	// Admission policy
	MaxMessageLength int
	PolicyFile       string

	// WebSocket. The idle window restarts after each chat turn, so it only
	// has to cover the gap between client frames.
	WSIdleTimeout  time.Duration
	WSMaxFrameSize int64

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:         getEnvInt("PORT", 4000),
		RedisURL:         getEnv("REDIS_URL", ""),
		SQLiteDSN:        getEnv("SQLITE_DSN", "file:chatmem.db?mode=rwc&_busy_timeout=5000&_journal_mode=WAL"),
		StoreTimeout:     time.Duration(getEnvInt("STORE_TIMEOUT_MS", 2000)) * time.Millisecond,
		LLMBaseURL:       getEnv("LLM_BASE_URL", "https://api.groq.com/openai"),
		LLMAPIKey:        getEnv("LLM_API_KEY", getEnv("GROQ_API_KEY", "")),
		LLMModel:         getEnv("LLM_MODEL", getEnv("GROQ_MODEL", "")),
		LLMTemperature:   getEnvFloat("LLM_TEMPERATURE", 0.7),
		LLMTimeout:       time.Duration(getEnvInt("LLM_TIMEOUT_MS", 30000)) * time.Millisecond,
		LLMMaxAttempts:   getEnvInt("LLM_MAX_ATTEMPTS", 2),
		LLMMock:          strings.EqualFold(getEnv("GOGO_MODE", ""), "mock"),
		SessionTTL:       time.Duration(getEnvInt("SESSION_TTL_SECONDS", 86400)) * time.Second,
		CacheTTL:         time.Duration(getEnvInt("LLM_CACHE_TTL_SECONDS", 3600)) * time.Second,
		SummaryThreshold: getEnvInt("HISTORY_SUMMARY_THRESHOLD", 6),
		RetainTurns:      getEnvInt("HISTORY_RETAIN", 2),
		CacheDegraded:    getEnvBool("CACHE_DEGRADED", true),
		SessionLock:      getEnvBool("SESSION_LOCK", false),
		MaxMessageLength: getEnvInt("MAX_MESSAGE_LENGTH", 0),
		PolicyFile:       getEnv("CHAT_POLICY_FILE", ""),
		WSIdleTimeout:    time.Duration(getEnvInt("WS_IDLE_TIMEOUT_MS", 300000)) * time.Millisecond,
		WSMaxFrameSize:   int64(getEnvInt("WS_MAX_FRAME_BYTES", 65536)),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}

	// REDIS_URL alone selects redis, matching deployments that only set the URL.
	backend := getEnv("STORE_BACKEND", "")
	if backend == "" {
		if cfg.RedisURL != "" {
			backend = StoreRedis
		} else {
			backend = StoreNone
		}
	}
	cfg.StoreBackend = strings.ToLower(backend)

	return cfg
}

// Validate checks the memory policy settings.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreRedis, StoreSQLite, StoreNone:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.SummaryThreshold < 1 {
		return fmt.Errorf("HISTORY_SUMMARY_THRESHOLD must be positive, got %d", c.SummaryThreshold)
	}
	if c.RetainTurns < 0 || c.RetainTurns >= c.SummaryThreshold {
		return fmt.Errorf("HISTORY_RETAIN must be in [0, %d), got %d", c.SummaryThreshold, c.RetainTurns)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
