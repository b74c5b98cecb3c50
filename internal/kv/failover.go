package kv

import (
	"context"
	"errors"
	"time"

	"github.com/raakeshmj/vaultbox/internal/circuitbreaker"
	"github.com/raakeshmj/vaultbox/internal/logger"
)

// FailoverStore routes operations through the primary store behind a
// circuit breaker. While the circuit is open (primary down) it serves
// the in-memory fallback instead, so requests degrade rather than
// fail. Every successful write is mirrored into the fallback to keep
// it warm for that case.
type FailoverStore struct {
	primary  Store
	fallback *MemoryStore
	breaker  *circuitbreaker.Breaker
	log      *logger.Logger
}

func NewFailoverStore(primary Store, fallback *MemoryStore, breaker *circuitbreaker.Breaker, log *logger.Logger) *FailoverStore {
	return &FailoverStore{
		primary:  primary,
		fallback: fallback,
		breaker:  breaker,
		log:      log,
	}
}

func (s *FailoverStore) Get(ctx context.Context, key string) (string, error) {
	var val string
	var opErr error
	err := s.breaker.Execute(func() error {
		val, opErr = s.primary.Get(ctx, key)
		if errors.Is(opErr, ErrNotFound) {
			// A miss is an answer, not an infrastructure failure.
			return nil
		}
		return opErr
	})
	if err == nil {
		return val, opErr
	}
	s.warn("get", key, err)
	return s.fallback.Get(ctx, key)
}

func (s *FailoverStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	err := s.breaker.Execute(func() error {
		return s.primary.Put(ctx, key, value, ttl)
	})
	if err != nil {
		s.warn("put", key, err)
	}
	// Mirror regardless: the fallback must hold the latest writes by
	// the time the primary disappears.
	return s.fallback.Put(ctx, key, value, ttl)
}

func (s *FailoverStore) Delete(ctx context.Context, key string) error {
	err := s.breaker.Execute(func() error {
		return s.primary.Delete(ctx, key)
	})
	if err != nil {
		s.warn("delete", key, err)
	}
	return s.fallback.Delete(ctx, key)
}

func (s *FailoverStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.breaker.Execute(func() error {
		var opErr error
		keys, opErr = s.primary.List(ctx, prefix)
		return opErr
	})
	if err == nil {
		return keys, nil
	}
	s.warn("list", prefix, err)
	return s.fallback.List(ctx, prefix)
}

// Degraded reports whether the primary is currently considered down.
func (s *FailoverStore) Degraded() bool {
	return s.breaker.State() == circuitbreaker.StateOpen
}

// Snapshot exports the given keys from the fallback for the signed
// cookie carried by clients while the primary is down.
func (s *FailoverStore) Snapshot(keys []string) map[string]string {
	return s.fallback.Export(keys)
}

// Restore seeds the fallback from a cookie snapshot.
func (s *FailoverStore) Restore(snap map[string]string) {
	s.fallback.Import(snap)
}

func (s *FailoverStore) warn(op, key string, err error) {
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return // already logged when the breaker tripped
	}
	s.log.Warn("primary store error, using fallback", "op", op, "key", key, "error", err)
}

var _ Store = (*FailoverStore)(nil)
