// Package kv provides the TTL-capable key-value store used for chat memory.
//
// Every backend reports failures (connection loss, timeouts, driver errors)
// as ErrUnavailable. Callers decide whether to degrade or to surface them.
package kv

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable is returned by every operation of a store that cannot serve it.
var ErrUnavailable = errors.New("kv: store unavailable")

// Store is a string/list key-value store with per-key expiry.
type Store interface {
	// Append pushes value onto the tail of the list at key.
	Append(ctx context.Context, key, value string) error
	// Range returns every element of the list at key, head first.
	Range(ctx context.Context, key string) ([]string, error)
	// Delete removes key, whatever its type.
	Delete(ctx context.Context, key string) error
	// Expire sets the time-to-live of an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error
	// Get returns the string at key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores a string at key with the given time-to-live.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Available reports whether the store was constructed with a live backend.
	Available() bool
	// Ping checks the backend.
	Ping(ctx context.Context) error
	Close() error
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}
