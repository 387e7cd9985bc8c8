package engine

import (
	"context"
	"sort"

	apperrors "github.com/kdrivas1989/tunnel-sessions/pkg/errors"
	"github.com/kdrivas1989/tunnel-sessions/pkg/model"
	"github.com/kdrivas1989/tunnel-sessions/pkg/sanitizer"
)

// CreateSession allocates an id, stamps the creation time, and persists
// the session. A session with the same date, time, and type already on
// file fails the create; nothing is written.
func (e *Engine) CreateSession(ctx context.Context, session *model.Session) error {
	session.SessionType = sanitizer.NormalizeSessionType(session.SessionType)

	if err := e.validator.Validate(session); err != nil {
		e.log.Warn("Session validation failed", "date", session.Date, "time", session.Time, "error", err)
		return apperrors.Validation("Session validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	sessions, err := e.load(ctx)
	if err != nil {
		return err
	}

	for _, existing := range sessions {
		if existing.Date == session.Date && existing.Time == session.Time && existing.SessionType == session.SessionType {
			return apperrors.DuplicateSession("A session already exists for this date, time, and type")
		}
	}

	session.ID = e.ids.NewID()
	session.Bookings = []model.Booking{}
	session.Waitlist = []model.WaitlistEntry{}
	session.CreatedAt = e.clock.Now().UTC()

	sessions = append(sessions, session)
	if err := e.save(ctx, sessions); err != nil {
		return err
	}

	e.log.Info("Session created",
		"id", session.ID,
		"session_type", session.SessionType,
		"date", session.Date,
		"time", session.Time,
		"capacity", session.Capacity,
	)
	return nil
}

func (e *Engine) GetSessionByID(ctx context.Context, id string) (*model.Session, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Session ID cannot be empty")
	}

	sessions, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	session, err := findSession(sessions, id)
	if err != nil {
		return nil, e.translate(err, id)
	}
	return session, nil
}

// ListSessions returns the collection ordered by start instant; sessions
// with an unparseable date/time sort last in stored order.
func (e *Engine) ListSessions(ctx context.Context) ([]*model.Session, error) {
	sessions, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		si, erri := sessions[i].StartsAt(e.cfg.Location)
		sj, errj := sessions[j].StartsAt(e.cfg.Location)
		if erri != nil || errj != nil {
			return errj != nil && erri == nil
		}
		return si.Before(sj)
	})

	return sessions, nil
}

// UpdateSession shallow-merges the provided fields into the stored
// record. It deliberately re-checks neither date/time uniqueness nor the
// capacity invariant; callers must not use it to bypass the booking path.
func (e *Engine) UpdateSession(ctx context.Context, id string, updates *model.SessionUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Session ID cannot be empty")
	}

	if err := e.validator.ValidateUpdate(updates); err != nil {
		e.log.Warn("Session update validation failed", "id", id, "error", err)
		return apperrors.Validation("Session update validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	sessions, err := e.load(ctx)
	if err != nil {
		return err
	}

	session, err := findSession(sessions, id)
	if err != nil {
		return e.translate(err, id)
	}

	if updates.SessionType != nil {
		session.SessionType = sanitizer.NormalizeSessionType(*updates.SessionType)
	}
	if updates.Date != nil {
		session.Date = *updates.Date
	}
	if updates.Time != nil {
		session.Time = *updates.Time
	}
	if updates.Duration != nil {
		session.Duration = *updates.Duration
	}
	if updates.Capacity != nil {
		session.Capacity = *updates.Capacity
	}

	if err := e.save(ctx, sessions); err != nil {
		return err
	}

	e.log.Info("Session updated", "id", id)
	return nil
}

// DeleteSession removes the session unconditionally. Deleting an absent
// id is a no-op, not an error.
func (e *Engine) DeleteSession(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Session ID cannot be empty")
	}

	sessions, err := e.load(ctx)
	if err != nil {
		return err
	}

	kept := sessions[:0]
	removed := false
	for _, s := range sessions {
		if s.ID == id {
			removed = true
			continue
		}
		kept = append(kept, s)
	}

	if !removed {
		return nil
	}

	if err := e.save(ctx, kept); err != nil {
		return err
	}

	e.log.Info("Session deleted", "id", id)
	return nil
}

// PurgePastSessions removes every session whose start instant is strictly
// before now, and reports how many were removed. Sessions with an
// unparseable date/time are kept.
func (e *Engine) PurgePastSessions(ctx context.Context) (int, error) {
	sessions, err := e.load(ctx)
	if err != nil {
		return 0, err
	}

	now := e.clock.Now()
	kept := sessions[:0]
	for _, s := range sessions {
		start, err := s.StartsAt(e.cfg.Location)
		if err != nil {
			e.log.Warn("Keeping session with invalid date/time during purge", "id", s.ID, "error", err)
			kept = append(kept, s)
			continue
		}
		if start.Before(now) {
			continue
		}
		kept = append(kept, s)
	}

	purged := len(sessions) - len(kept)
	if purged == 0 {
		return 0, nil
	}

	if err := e.save(ctx, kept); err != nil {
		return 0, err
	}

	e.log.Info("Past sessions purged", "purged", purged, "remaining", len(kept))
	return purged, nil
}
