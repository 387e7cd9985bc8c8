// Package store persists the session collection. Every mutation in the
// booking engine reads the full collection, changes it in memory, and
// writes the full collection back; backends only need to honor that
// load/save contract plus an optional change notification.
package store

import (
	"context"

	"github.com/kdrivas1989/tunnel-sessions/pkg/model"
)

// Store is the persistence collaborator for sessions.
//
// Subscribe registers a callback the backend invokes after an external
// write is observed. Backends are not required to invoke it for writes
// issued through this Store, and callers must not rely on that.
type Store interface {
	Load(ctx context.Context) ([]*model.Session, error)
	SaveAll(ctx context.Context, sessions []*model.Session) error
	Subscribe(onChange func())
}

// Clone deep-copies a session so cached copies cannot alias engine
// mutations.
func Clone(s *model.Session) *model.Session {
	c := *s
	if s.Bookings != nil {
		c.Bookings = make([]model.Booking, len(s.Bookings))
		copy(c.Bookings, s.Bookings)
	}
	if s.Waitlist != nil {
		c.Waitlist = make([]model.WaitlistEntry, len(s.Waitlist))
		copy(c.Waitlist, s.Waitlist)
	}
	return &c
}

// CloneAll deep-copies a session collection.
func CloneAll(sessions []*model.Session) []*model.Session {
	out := make([]*model.Session, len(sessions))
	for i, s := range sessions {
		out[i] = Clone(s)
	}
	return out
}
