package store

import (
	"context"
	"sync"

	"github.com/kdrivas1989/tunnel-sessions/pkg/logger"
	"github.com/kdrivas1989/tunnel-sessions/pkg/model"
)

// CachedStore serves reads from an in-memory copy of the backend and
// writes through on SaveAll. When the backend reports an external change
// the cache is dropped and reloaded on the next Load.
type CachedStore struct {
	backend Store
	log     *logger.Logger

	mu          sync.Mutex
	cached      []*model.Session
	valid       bool
	subscribers []func()
}

func NewCachedStore(backend Store, log *logger.Logger) *CachedStore {
	c := &CachedStore{backend: backend, log: log}
	backend.Subscribe(c.invalidate)
	return c
}

func (c *CachedStore) Load(ctx context.Context) ([]*model.Session, error) {
	c.mu.Lock()
	if c.valid {
		sessions := CloneAll(c.cached)
		c.mu.Unlock()
		return sessions, nil
	}
	c.mu.Unlock()

	return c.Refresh(ctx)
}

// Refresh bypasses the cache and reloads from the backend.
func (c *CachedStore) Refresh(ctx context.Context) ([]*model.Session, error) {
	sessions, err := c.backend.Load(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cached = CloneAll(sessions)
	c.valid = true
	c.mu.Unlock()

	return sessions, nil
}

func (c *CachedStore) SaveAll(ctx context.Context, sessions []*model.Session) error {
	if err := c.backend.SaveAll(ctx, sessions); err != nil {
		return err
	}

	c.mu.Lock()
	c.cached = CloneAll(sessions)
	c.valid = true
	c.mu.Unlock()

	return nil
}

func (c *CachedStore) Subscribe(onChange func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, onChange)
}

func (c *CachedStore) invalidate() {
	c.mu.Lock()
	c.valid = false
	subscribers := make([]func(), len(c.subscribers))
	copy(subscribers, c.subscribers)
	c.mu.Unlock()

	c.log.Debug("Session cache invalidated by backend change")

	for _, fn := range subscribers {
		fn()
	}
}
