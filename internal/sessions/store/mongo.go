package store

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kdrivas1989/tunnel-sessions/pkg/config"
	"github.com/kdrivas1989/tunnel-sessions/pkg/logger"
	"github.com/kdrivas1989/tunnel-sessions/pkg/model"
)

const sessionsCollection = "Sessions"

// MongoStore keeps sessions in a remote document store, one document per
// session. SaveAll reconciles the collection against the given snapshot:
// every session is upserted and documents no longer present are deleted.
type MongoStore struct {
	cfg        *config.Config
	collection *mongo.Collection
	log        *logger.Logger

	mu          sync.Mutex
	subscribers []func()
	watching    bool
}

func NewMongoStore(cfg *config.Config) *MongoStore {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &MongoStore{
		cfg:        cfg,
		collection: db.Collection(sessionsCollection),
		log:        cfg.Log,
	}
}

func (s *MongoStore) Load(ctx context.Context) ([]*model.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []*model.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}

	return sessions, nil
}

func (s *MongoStore) SaveAll(ctx context.Context, sessions []*model.Session) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.WriteTimeout)
	defer cancel()

	ids := make([]string, 0, len(sessions))
	for _, session := range sessions {
		ids = append(ids, session.ID)

		opts := options.Replace().SetUpsert(true)
		if _, err := s.collection.ReplaceOne(ctx, bson.M{"_id": session.ID}, session, opts); err != nil {
			return fmt.Errorf("failed to save session %s: %w", session.ID, err)
		}
	}

	// Sessions removed from the snapshot are removed from the backend.
	if _, err := s.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$nin": ids}}); err != nil {
		return fmt.Errorf("failed to prune removed sessions: %w", err)
	}

	return nil
}

// Subscribe starts a change stream on first use and fans every observed
// change out to registered callbacks. The stream also fires for writes
// issued through this store; subscribers must tolerate that.
func (s *MongoStore) Subscribe(onChange func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers = append(s.subscribers, onChange)
	if s.watching {
		return
	}
	s.watching = true

	go s.watch()
}

func (s *MongoStore) watch() {
	ctx := context.Background()

	stream, err := s.collection.Watch(ctx, mongo.Pipeline{})
	if err != nil {
		s.log.Error("Failed to open session change stream", "error", err)
		return
	}
	defer stream.Close(ctx)

	s.log.Info("Session change stream established")

	for stream.Next(ctx) {
		s.mu.Lock()
		subscribers := make([]func(), len(s.subscribers))
		copy(subscribers, s.subscribers)
		s.mu.Unlock()

		for _, fn := range subscribers {
			fn()
		}
	}

	if err := stream.Err(); err != nil {
		s.log.Error("Session change stream terminated", "error", err)
	}
}
