package engine

import (
	"context"

	sessionserrors "github.com/kdrivas1989/tunnel-sessions/internal/sessions/errors"
	"github.com/kdrivas1989/tunnel-sessions/pkg/calendar"
	"github.com/kdrivas1989/tunnel-sessions/pkg/sanitizer"
)

// CalendarInvite renders an iCalendar invite for the session.
func (e *Engine) CalendarInvite(ctx context.Context, sessionID, participantName string) (string, error) {
	session, err := e.GetSessionByID(ctx, sessionID)
	if err != nil {
		return "", err
	}

	ics, err := calendar.ICS(session, sanitizer.NormalizeName(participantName), e.cfg.Location, e.clock.Now())
	if err != nil {
		return "", e.translate(sessionserrors.ErrInvalidStart, sessionID)
	}
	return ics, nil
}

// GoogleCalendarLink builds the prefilled Google Calendar event URL for
// the session.
func (e *Engine) GoogleCalendarLink(ctx context.Context, sessionID, participantName string) (string, error) {
	session, err := e.GetSessionByID(ctx, sessionID)
	if err != nil {
		return "", err
	}

	link, err := calendar.GoogleLink(session, sanitizer.NormalizeName(participantName), e.cfg.Location)
	if err != nil {
		return "", e.translate(sessionserrors.ErrInvalidStart, sessionID)
	}
	return link, nil
}
