package engine

import (
	"context"
	"strings"

	apperrors "github.com/kdrivas1989/tunnel-sessions/pkg/errors"
	"github.com/kdrivas1989/tunnel-sessions/pkg/model"
	"github.com/kdrivas1989/tunnel-sessions/pkg/sanitizer"
)

// Cancellation is the outcome of a successful cancellation. The engine
// only reports it; acting on NeedsNotification and NextOnWaitlist (host
// email, waitlist promotion) is the caller's job.
type Cancellation struct {
	Session           *model.Session       `json:"session"`
	Booking           model.Booking        `json:"booking"`
	NeedsNotification bool                 `json:"needs_notification"`
	NextOnWaitlist    *model.WaitlistEntry `json:"next_on_waitlist,omitempty"`
}

func (e *Engine) buildCancellation(session *model.Session, removed model.Booking, hours float64) *Cancellation {
	c := &Cancellation{
		Session:           session,
		Booking:           removed,
		NeedsNotification: hours <= e.cfg.NotificationWindow.Hours(),
	}
	if len(session.Waitlist) > 0 {
		next := session.Waitlist[0]
		c.NextOnWaitlist = &next
	}
	return c
}

// CancelUserBooking cancels by name match. The lead-time policy is
// checked before the booking lookup, so a too-late request is rejected
// even when the name would not have matched anything.
func (e *Engine) CancelUserBooking(ctx context.Context, sessionID, firstName, lastName string) (*Cancellation, error) {
	firstName = sanitizer.NormalizeName(firstName)
	lastName = sanitizer.NormalizeName(lastName)
	if firstName == "" || lastName == "" {
		return nil, apperrors.InvalidInput("First and last name are required")
	}

	sessions, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	session, err := findSession(sessions, sessionID)
	if err != nil {
		return nil, e.translate(err, sessionID)
	}

	hours, err := e.hoursUntil(session)
	if err != nil {
		return nil, e.translate(err, sessionID)
	}
	if hours < e.cfg.CancellationWindow.Hours() {
		return nil, apperrors.PolicyViolation("Cancellations are closed for this session")
	}

	index := -1
	for i, b := range session.Bookings {
		if strings.EqualFold(b.FirstName, firstName) && strings.EqualFold(b.LastName, lastName) {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, apperrors.NotFound("Booking")
	}

	removed := session.Bookings[index]
	session.Bookings = append(session.Bookings[:index], session.Bookings[index+1:]...)

	if err := e.save(ctx, sessions); err != nil {
		return nil, err
	}

	cancellation := e.buildCancellation(session, removed, hours)
	e.log.Info("Booking cancelled",
		"session_id", sessionID,
		"first_name", removed.FirstName,
		"last_name", removed.LastName,
		"hours_until_start", hours,
		"needs_notification", cancellation.NeedsNotification,
	)
	return cancellation, nil
}

// CancelBookingByToken cancels the booking holding the given token,
// searching every session. A token pointing at a session that already
// started is rejected before the lead-time policy applies.
func (e *Engine) CancelBookingByToken(ctx context.Context, token string) (*Cancellation, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.InvalidInput("Cancellation token is required")
	}

	sessions, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	var (
		session *model.Session
		index   = -1
	)
	for _, s := range sessions {
		for i, b := range s.Bookings {
			if b.CancellationToken != "" && b.CancellationToken == token {
				session = s
				index = i
				break
			}
		}
		if session != nil {
			break
		}
	}
	if session == nil {
		return nil, apperrors.NotFound("Booking")
	}

	hours, err := e.hoursUntil(session)
	if err != nil {
		return nil, e.translate(err, session.ID)
	}
	if hours < 0 {
		return nil, apperrors.PastSession("This session has already taken place")
	}
	if hours < e.cfg.CancellationWindow.Hours() {
		return nil, apperrors.PolicyViolation("Cancellations are closed for this session")
	}

	removed := session.Bookings[index]
	session.Bookings = append(session.Bookings[:index], session.Bookings[index+1:]...)

	if err := e.save(ctx, sessions); err != nil {
		return nil, err
	}

	cancellation := e.buildCancellation(session, removed, hours)
	e.log.Info("Booking cancelled by token",
		"session_id", session.ID,
		"first_name", removed.FirstName,
		"last_name", removed.LastName,
		"hours_until_start", hours,
		"needs_notification", cancellation.NeedsNotification,
	)
	return cancellation, nil
}
