package kv

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("key not found")

// Store is the string key-value port all durable state goes through.
// A zero TTL means no expiry.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// List returns the keys matching the prefix, in no particular order.
	List(ctx context.Context, prefix string) ([]string, error)
}
