package store

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/kdrivas1989/tunnel-sessions/pkg/logger"
	"github.com/kdrivas1989/tunnel-sessions/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Output: io.Discard})
}

func sampleSessions() []*model.Session {
	return []*model.Session{
		{
			ID:       "s1",
			Date:     "2026-09-10",
			Time:     "18:30",
			Duration: 60,
			Capacity: 10,
			Bookings: []model.Booking{{FirstName: "Alice", LastName: "Vega"}},
		},
		{
			ID:       "s2",
			Date:     "2026-09-11",
			Time:     "10:00",
			Duration: 90,
			Capacity: 4,
			Waitlist: []model.WaitlistEntry{{Email: "a@example.com", FirstName: "Wait", LastName: "Listed"}},
		},
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load on empty store: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("empty store returned %d sessions", len(loaded))
	}

	if err := s.SaveAll(ctx, sampleSessions()); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	loaded, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 2 || loaded[0].ID != "s1" || len(loaded[0].Bookings) != 1 {
		t.Fatalf("unexpected load result: %+v", loaded)
	}
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.SaveAll(ctx, sampleSessions()); err != nil {
		t.Fatalf("SaveAll: %v", err)
	}

	first, _ := s.Load(ctx)
	first[0].Bookings = append(first[0].Bookings, model.Booking{FirstName: "Mallory", LastName: "Vega"})

	second, _ := s.Load(ctx)
	if len(second[0].Bookings) != 1 {
		t.Error("mutation through a loaded copy leaked into the store")
	}
}

type stubStore struct {
	mu       sync.Mutex
	sessions []*model.Session
	loads    int
	saves    int
	loadErr  error
	onChange func()
}

func (s *stubStore) Load(context.Context) ([]*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return CloneAll(s.sessions), nil
}

func (s *stubStore) SaveAll(_ context.Context, sessions []*model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.sessions = CloneAll(sessions)
	return nil
}

func (s *stubStore) Subscribe(onChange func()) {
	s.onChange = onChange
}

func TestCachedStore(t *testing.T) {
	t.Run("serves repeated loads from cache", func(t *testing.T) {
		backend := &stubStore{sessions: sampleSessions()}
		cached := NewCachedStore(backend, testLogger())
		ctx := context.Background()

		for i := 0; i < 3; i++ {
			if _, err := cached.Load(ctx); err != nil {
				t.Fatalf("Load %d: %v", i, err)
			}
		}
		if backend.loads != 1 {
			t.Errorf("backend loads = %d, want 1", backend.loads)
		}
	})

	t.Run("writes through and keeps cache warm", func(t *testing.T) {
		backend := &stubStore{}
		cached := NewCachedStore(backend, testLogger())
		ctx := context.Background()

		if err := cached.SaveAll(ctx, sampleSessions()); err != nil {
			t.Fatalf("SaveAll: %v", err)
		}
		if backend.saves != 1 {
			t.Errorf("backend saves = %d, want 1", backend.saves)
		}

		loaded, err := cached.Load(ctx)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(loaded) != 2 {
			t.Errorf("loaded %d sessions, want 2", len(loaded))
		}
		if backend.loads != 0 {
			t.Errorf("Load after SaveAll hit the backend %d times", backend.loads)
		}
	})

	t.Run("backend change drops the cache and notifies", func(t *testing.T) {
		backend := &stubStore{sessions: sampleSessions()}
		cached := NewCachedStore(backend, testLogger())
		ctx := context.Background()

		notified := false
		cached.Subscribe(func() { notified = true })

		if _, err := cached.Load(ctx); err != nil {
			t.Fatalf("Load: %v", err)
		}

		backend.onChange()
		if !notified {
			t.Error("subscriber was not notified of the backend change")
		}

		if _, err := cached.Load(ctx); err != nil {
			t.Fatalf("Load after invalidate: %v", err)
		}
		if backend.loads != 2 {
			t.Errorf("backend loads = %d, want 2 after invalidation", backend.loads)
		}
	})

	t.Run("backend load error propagates", func(t *testing.T) {
		wantErr := errors.New("backend down")
		backend := &stubStore{loadErr: wantErr}
		cached := NewCachedStore(backend, testLogger())

		if _, err := cached.Load(context.Background()); !errors.Is(err, wantErr) {
			t.Fatalf("Load error = %v, want %v", err, wantErr)
		}
	})
}
