package kv

import (
	"context"
	"time"
)

// Bounded wraps a Store so every operation runs under its own deadline.
type Bounded struct {
	store   Store
	timeout time.Duration
}

// Ensure Bounded implements Store.
var _ Store = (*Bounded)(nil)

// NewBounded returns store with each call limited to timeout. A non-positive
// timeout leaves calls bounded only by the caller's context.
func NewBounded(store Store, timeout time.Duration) *Bounded {
	return &Bounded{store: store, timeout: timeout}
}

func (b *Bounded) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.timeout)
}

func (b *Bounded) Append(ctx context.Context, key, value string) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	return b.store.Append(ctx, key, value)
}

func (b *Bounded) Range(ctx context.Context, key string) ([]string, error) {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	return b.store.Range(ctx, key)
}

func (b *Bounded) Delete(ctx context.Context, key string) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	return b.store.Delete(ctx, key)
}

func (b *Bounded) Expire(ctx context.Context, key string, ttl time.Duration) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	return b.store.Expire(ctx, key, ttl)
}

func (b *Bounded) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	return b.store.Get(ctx, key)
}

func (b *Bounded) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	return b.store.Set(ctx, key, value, ttl)
}

func (b *Bounded) Available() bool { return b.store.Available() }

func (b *Bounded) Ping(ctx context.Context) error {
	ctx, cancel := b.withTimeout(ctx)
	defer cancel()
	return b.store.Ping(ctx)
}

func (b *Bounded) Close() error { return b.store.Close() }
