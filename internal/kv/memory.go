package kv

import (
	"context"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value      string
	expiration int64 // unix nanos, 0 = no expiry
}

// MemoryStore is a process-local Store. It backs tests and serves as
// the degraded-mode fallback when Redis is unreachable. Expiry is
// lazy: stale entries are dropped when touched.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]entry
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]entry),
		now:   time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()
	if !ok || s.expired(e) {
		return "", ErrNotFound
	}
	return e.value, nil
}

func (s *MemoryStore) Put(ctx context.Context, key, value string, ttl time.Duration) error {
	var exp int64
	if ttl > 0 {
		exp = s.now().Add(ttl).UnixNano()
	}
	s.mu.Lock()
	s.items[key] = entry{value: value, expiration: exp}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) List(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k, e := range s.items {
		if strings.HasPrefix(k, prefix) && !s.expired(e) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// Export returns the current values for the given keys, skipping
// absent ones. Used to build the fallback cookie snapshot.
func (s *MemoryStore) Export(keys []string) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(map[string]string)
	for _, k := range keys {
		if e, ok := s.items[k]; ok && !s.expired(e) {
			snap[k] = e.value
		}
	}
	return snap
}

// Import seeds values that are not already present. Existing entries
// win so a stale cookie cannot clobber fresher in-process state.
func (s *MemoryStore) Import(snap map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range snap {
		if e, ok := s.items[k]; ok && !s.expired(e) {
			continue
		} else if ok {
			delete(s.items, k)
		}
		s.items[k] = entry{value: v}
	}
}

func (s *MemoryStore) expired(e entry) bool {
	return e.expiration > 0 && s.now().UnixNano() > e.expiration
}

var _ Store = (*MemoryStore)(nil)
