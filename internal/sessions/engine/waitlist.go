package engine

import (
	"context"
	"strings"

	apperrors "github.com/kdrivas1989/tunnel-sessions/pkg/errors"
	"github.com/kdrivas1989/tunnel-sessions/pkg/model"
	"github.com/kdrivas1989/tunnel-sessions/pkg/sanitizer"
)

// JoinWaitlist appends an entry and returns its 1-based position. Emails
// are unique per waitlist, and a name that already holds a booking on the
// session cannot join.
func (e *Engine) JoinWaitlist(ctx context.Context, sessionID string, entry model.WaitlistEntry) (int, error) {
	entry.Email = sanitizer.NormalizeEmail(entry.Email)
	entry.FirstName = sanitizer.NormalizeName(entry.FirstName)
	entry.LastName = sanitizer.NormalizeName(entry.LastName)
	entry.AddedAt = e.clock.Now().UTC()

	if err := e.validator.ValidateWaitlistEntry(&entry); err != nil {
		e.log.Warn("Waitlist entry validation failed", "session_id", sessionID, "error", err)
		return 0, apperrors.Validation("Waitlist entry validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	sessions, err := e.load(ctx)
	if err != nil {
		return 0, err
	}

	session, err := findSession(sessions, sessionID)
	if err != nil {
		return 0, e.translate(err, sessionID)
	}

	for _, w := range session.Waitlist {
		if strings.EqualFold(w.Email, entry.Email) {
			return 0, apperrors.DuplicateWaitlistEntry("You are already on the waitlist for this session")
		}
	}
	for _, b := range session.Bookings {
		if strings.EqualFold(b.FirstName, entry.FirstName) && strings.EqualFold(b.LastName, entry.LastName) {
			return 0, apperrors.AlreadyBooked("You already have a booking for this session")
		}
	}

	session.Waitlist = append(session.Waitlist, entry)

	if err := e.save(ctx, sessions); err != nil {
		return 0, err
	}

	position := len(session.Waitlist)
	e.log.Info("Joined waitlist",
		"session_id", sessionID,
		"email", entry.Email,
		"position", position,
	)
	return position, nil
}

// LeaveWaitlist removes every entry matching the email. Duplicates can
// arrive through an external writer, so the whole list is filtered, not
// just the first match. It reports whether anything was removed; a
// missing email is not an error.
func (e *Engine) LeaveWaitlist(ctx context.Context, sessionID, email string) (bool, error) {
	email = sanitizer.NormalizeEmail(email)

	sessions, err := e.load(ctx)
	if err != nil {
		return false, err
	}

	session, err := findSession(sessions, sessionID)
	if err != nil {
		return false, e.translate(err, sessionID)
	}

	kept := make([]model.WaitlistEntry, 0, len(session.Waitlist))
	for _, w := range session.Waitlist {
		if strings.EqualFold(w.Email, email) {
			continue
		}
		kept = append(kept, w)
	}
	if len(kept) == len(session.Waitlist) {
		return false, nil
	}

	session.Waitlist = kept

	if err := e.save(ctx, sessions); err != nil {
		return false, err
	}

	e.log.Info("Left waitlist", "session_id", sessionID, "email", email)
	return true, nil
}

// GetWaitlist returns the session's waitlist in join order.
func (e *Engine) GetWaitlist(ctx context.Context, sessionID string) ([]model.WaitlistEntry, error) {
	sessions, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	session, err := findSession(sessions, sessionID)
	if err != nil {
		return nil, e.translate(err, sessionID)
	}

	entries := make([]model.WaitlistEntry, len(session.Waitlist))
	copy(entries, session.Waitlist)
	return entries, nil
}

// NextOnWaitlist peeks at the head of the waitlist without removing it.
// It returns nil when the session does not exist or the waitlist is
// empty.
func (e *Engine) NextOnWaitlist(ctx context.Context, sessionID string) (*model.WaitlistEntry, error) {
	sessions, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	session, err := findSession(sessions, sessionID)
	if err != nil || len(session.Waitlist) == 0 {
		return nil, nil
	}

	next := session.Waitlist[0]
	return &next, nil
}
