// Package session tracks logged-in identities server-side, keyed by an
// opaque token that travels in a signed cookie. Payloads carry id and
// email only, never the password hash.
package session

import (
	"context"
	"sync"
	"time"
)

// Store is the persistence boundary for session payloads. Expiry is
// enforced lazily at read time; there is no background sweep.
type Store interface {
	Set(ctx context.Context, token string, payload []byte, ttl time.Duration) error
	Get(ctx context.Context, token string) ([]byte, bool, error)
	Delete(ctx context.Context, token string) error
}

type memoryStore struct {
	mu sync.RWMutex
	m  map[string]entry
}

type entry struct {
	payload []byte
	exp     time.Time
}

func NewMemoryStore() Store {
	return &memoryStore{
		m: make(map[string]entry),
	}
}

func (s *memoryStore) Set(ctx context.Context, token string, payload []byte, ttl time.Duration) error {
	s.mu.Lock()
	s.m[token] = entry{payload: payload, exp: time.Now().Add(ttl)}
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Get(ctx context.Context, token string) ([]byte, bool, error) {
	now := time.Now()
	s.mu.RLock()
	e, ok := s.m[token]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	if now.After(e.exp) {
		// expired entries read as absent
		s.mu.Lock()
		delete(s.m, token)
		s.mu.Unlock()
		return nil, false, nil
	}

	return e.payload, true, nil
}

func (s *memoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.m, token)
	s.mu.Unlock()
	return nil
}
