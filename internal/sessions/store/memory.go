package store

import (
	"context"
	"sync"

	"github.com/kdrivas1989/tunnel-sessions/pkg/model"
)

// MemoryStore keeps the collection in process memory. It is the fallback
// when no backend is configured, and the store of choice in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions []*model.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) ([]*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return CloneAll(s.sessions), nil
}

func (s *MemoryStore) SaveAll(_ context.Context, sessions []*model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = CloneAll(sessions)
	return nil
}

// Subscribe is a no-op: nothing external writes to a memory store.
func (s *MemoryStore) Subscribe(func()) {}
