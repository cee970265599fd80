package kv

import (
	"context"
	"log"

	"github.com/xiaot623/gogo/chatmem/internal/config"
)

// Open builds the store selected by cfg.StoreBackend. A backend that cannot
// be reached yields Unavailable so the service keeps answering without memory.
func Open(ctx context.Context, cfg *config.Config) Store {
	var store Store

	switch cfg.StoreBackend {
	case config.StoreRedis:
		rs, err := NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Printf("WARN: %v, continuing without store", err)
			return Unavailable{}
		}
		store = rs
	case config.StoreSQLite:
		ss, err := NewSQLiteStore(cfg.SQLiteDSN)
		if err != nil {
			log.Printf("WARN: sqlite unavailable, continuing without store: %v", err)
			return Unavailable{}
		}
		store = ss
	default:
		log.Println("WARN: no store configured, chat memory disabled")
		return Unavailable{}
	}

	bounded := NewBounded(store, cfg.StoreTimeout)
	if err := bounded.Ping(ctx); err != nil {
		log.Printf("WARN: %s store unavailable, continuing without store: %v", cfg.StoreBackend, err)
		store.Close()
		return Unavailable{}
	}

	log.Printf("Connected to %s store", cfg.StoreBackend)
	return bounded
}
