package session

import (
	"context"
	"fmt"
	"sync"
)

// InMemoryStore keeps credentials in process memory for tests and for callers
// that do not want persistence across restarts.
type InMemoryStore struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewInMemoryStore constructs an empty in-memory credential store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{slots: make(map[string]string)}
}

func (s *InMemoryStore) Save(_ context.Context, creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for slot, value := range creds.slots() {
		s.slots[slot] = value
	}
	return nil
}

func (s *InMemoryStore) AccessToken(ctx context.Context) (string, error) {
	return s.lookup(slotAccessToken)
}

func (s *InMemoryStore) RefreshToken(ctx context.Context) (string, error) {
	return s.lookup(slotRefreshToken)
}

func (s *InMemoryStore) IdentityToken(ctx context.Context) (string, error) {
	return s.lookup(slotIdentityToken)
}

func (s *InMemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = make(map[string]string)
	return nil
}

func (s *InMemoryStore) Bootstrap(ctx context.Context) (string, error) {
	return s.AccessToken(ctx)
}

func (s *InMemoryStore) lookup(slot string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if value, ok := s.slots[slot]; ok {
		return value, nil
	}
	return "", fmt.Errorf("%s: %w", slot, ErrNotFound)
}
