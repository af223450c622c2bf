package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryRevocationStore keeps revoked token ids in process memory.
type MemoryRevocationStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{entries: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, tokenID string, until time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[tokenID] = until
	s.purge()
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.entries[tokenID]
	if !ok {
		return false, nil
	}
	if s.now().After(until) {
		delete(s.entries, tokenID)
		return false, nil
	}
	return true, nil
}

// purge drops expired entries. Callers hold mu.
func (s *MemoryRevocationStore) purge() {
	now := s.now()
	for id, until := range s.entries {
		if now.After(until) {
			delete(s.entries, id)
		}
	}
}
