// Package revocation keeps the set of access tokens that were logged out
// before their natural expiry. Entries are keyed by token id (jti) and
// disappear on their own once the token would have expired anyway.
package revocation

import (
	"context"
	"sync"
	"time"
)

// Store is consulted by the auth gate after a token's signature checks out.
type Store interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// MemoryStore is a process-local Store for dev and tests. It is not shared
// between replicas; use RedisStore for that.
type MemoryStore struct {
	mu  sync.RWMutex
	m   map[string]time.Time
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m:   make(map[string]time.Time),
		now: time.Now,
	}
}

func (s *MemoryStore) Revoke(_ context.Context, tokenID string, until time.Time) error {
	if tokenID == "" || !until.After(s.now()) {
		// already expired tokens are rejected by verification
		return nil
	}

	s.mu.Lock()
	s.m[tokenID] = until
	s.sweepLocked()
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	now := s.now()

	s.mu.RLock()
	exp, ok := s.m[tokenID]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}

	if now.After(exp) {
		s.mu.Lock()
		delete(s.m, tokenID)
		s.mu.Unlock()
		return false, nil
	}

	return true, nil
}

// Len reports live entries; expired ones are dropped first.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked()
	return len(s.m)
}

func (s *MemoryStore) sweepLocked() {
	now := s.now()
	for k, exp := range s.m {
		if now.After(exp) {
			delete(s.m, k)
		}
	}
}
