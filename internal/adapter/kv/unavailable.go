package kv

import (
	"context"
	"time"
)

// Unavailable is a Store with no backend. Every operation fails with
// ErrUnavailable.
type Unavailable struct{}

// Ensure Unavailable implements Store.
var _ Store = Unavailable{}

func (Unavailable) Append(context.Context, string, string) error { return ErrUnavailable }

func (Unavailable) Range(context.Context, string) ([]string, error) { return nil, ErrUnavailable }

func (Unavailable) Delete(context.Context, string) error { return ErrUnavailable }

func (Unavailable) Expire(context.Context, string, time.Duration) error { return ErrUnavailable }

func (Unavailable) Get(context.Context, string) (string, bool, error) {
	return "", false, ErrUnavailable
}

func (Unavailable) Set(context.Context, string, string, time.Duration) error {
	return ErrUnavailable
}

func (Unavailable) Available() bool { return false }

func (Unavailable) Ping(context.Context) error { return ErrUnavailable }

func (Unavailable) Close() error { return nil }
