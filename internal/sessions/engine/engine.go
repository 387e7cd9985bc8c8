// Package engine holds the booking-state logic: session lifecycle,
// capacity-gated bookings, the cancellation policy, and waitlist
// management. Every mutation loads the full session collection, changes
// it in memory, and saves it back through the injected store; there is no
// locking, so concurrent writers are last-writer-wins by design.
package engine

import (
	"context"
	"errors"
	"time"

	sessionserrors "github.com/kdrivas1989/tunnel-sessions/internal/sessions/errors"
	"github.com/kdrivas1989/tunnel-sessions/internal/sessions/store"
	"github.com/kdrivas1989/tunnel-sessions/internal/sessions/validator"
	"github.com/kdrivas1989/tunnel-sessions/pkg/clock"
	apperrors "github.com/kdrivas1989/tunnel-sessions/pkg/errors"
	"github.com/kdrivas1989/tunnel-sessions/pkg/identity"
	"github.com/kdrivas1989/tunnel-sessions/pkg/logger"
	"github.com/kdrivas1989/tunnel-sessions/pkg/model"
)

// Config collapses the feature variants of the engine into flags.
type Config struct {
	AllowGuestBookings  bool
	AllowNotes          bool
	SessionTypeRequired bool

	// CancellationWindow is the minimum lead time for self-service
	// cancellations. NotificationWindow is the lead time inside which a
	// cancellation is flagged for host attention.
	CancellationWindow time.Duration
	NotificationWindow time.Duration

	// Location resolves session date+time strings into start instants.
	Location *time.Location
}

type Engine struct {
	store     store.Store
	ids       identity.Generator
	clock     clock.Clock
	validator *validator.SessionValidator
	cfg       Config
	log       *logger.Logger
}

func New(
	st store.Store,
	ids identity.Generator,
	clk clock.Clock,
	v *validator.SessionValidator,
	cfg Config,
	log *logger.Logger,
) *Engine {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Engine{
		store:     st,
		ids:       ids,
		clock:     clk,
		validator: v,
		cfg:       cfg,
		log:       log,
	}
}

func (e *Engine) load(ctx context.Context) ([]*model.Session, error) {
	sessions, err := e.store.Load(ctx)
	if err != nil {
		e.log.Error("Failed to load sessions", "error", err)
		return nil, apperrors.Internal("Failed to load sessions", err)
	}
	return sessions, nil
}

func (e *Engine) save(ctx context.Context, sessions []*model.Session) error {
	if err := e.store.SaveAll(ctx, sessions); err != nil {
		e.log.Error("Failed to persist sessions", "error", err)
		return apperrors.Internal("Failed to persist sessions", err)
	}
	return nil
}

func findSession(sessions []*model.Session, id string) (*model.Session, error) {
	for _, s := range sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, sessionserrors.ErrSessionNotFound
}

// hoursUntil is the signed distance from now to the session start, in
// hours. Negative values mean the session has already started.
func (e *Engine) hoursUntil(session *model.Session) (float64, error) {
	start, err := session.StartsAt(e.cfg.Location)
	if err != nil {
		return 0, sessionserrors.ErrInvalidStart
	}
	return start.Sub(e.clock.Now()).Hours(), nil
}

func (e *Engine) translate(err error, sessionID string) error {
	switch {
	case errors.Is(err, sessionserrors.ErrSessionNotFound):
		return apperrors.NotFoundWithID("Session", sessionID)
	case errors.Is(err, sessionserrors.ErrBookingNotFound):
		return apperrors.NotFound("Booking")
	case errors.Is(err, sessionserrors.ErrInvalidStart):
		return apperrors.InvalidInput("Session has an invalid date or time")
	default:
		return err
	}
}
