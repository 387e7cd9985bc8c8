package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kdrivas1989/tunnel-sessions/pkg/logger"
	"github.com/kdrivas1989/tunnel-sessions/pkg/model"
)

const (
	sessionsKey     = "tunnelsessions:sessions"
	sessionsChannel = "tunnelsessions:changed"
)

// RedisStore keeps the whole session collection as one JSON value under a
// single key, with a pub/sub channel carrying change notifications.
type RedisStore struct {
	rdb *redis.Client
	log *logger.Logger
}

func NewRedisStore(rdb *redis.Client, log *logger.Logger) *RedisStore {
	return &RedisStore{rdb: rdb, log: log}
}

func (s *RedisStore) Load(ctx context.Context) ([]*model.Session, error) {
	data, err := s.rdb.Get(ctx, sessionsKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	var sessions []*model.Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}

	return sessions, nil
}

func (s *RedisStore) SaveAll(ctx context.Context, sessions []*model.Session) error {
	data, err := json.Marshal(sessions)
	if err != nil {
		return fmt.Errorf("failed to encode sessions: %w", err)
	}

	if err := s.rdb.Set(ctx, sessionsKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save sessions: %w", err)
	}

	if err := s.rdb.Publish(ctx, sessionsChannel, "changed").Err(); err != nil {
		s.log.Warn("Failed to publish session change notification", "error", err)
	}

	return nil
}

func (s *RedisStore) Subscribe(onChange func()) {
	sub := s.rdb.Subscribe(context.Background(), sessionsChannel)

	go func() {
		for range sub.Channel() {
			onChange()
		}
	}()
}
