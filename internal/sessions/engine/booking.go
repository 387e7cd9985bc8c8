package engine

import (
	"context"
	"fmt"

	apperrors "github.com/kdrivas1989/tunnel-sessions/pkg/errors"
	"github.com/kdrivas1989/tunnel-sessions/pkg/model"
	"github.com/kdrivas1989/tunnel-sessions/pkg/sanitizer"
)

// BookingRequest is the caller's input for one seat.
type BookingRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Notes     string `json:"notes,omitempty"`
	Email     string `json:"email,omitempty"`
	IsGuest   bool   `json:"is_guest,omitempty"`
}

// newBooking builds the stored booking from a request, minting a
// cancellation token when the guest path applies.
func (e *Engine) newBooking(req BookingRequest, email string) model.Booking {
	booking := model.Booking{
		FirstName: sanitizer.NormalizeName(req.FirstName),
		LastName:  sanitizer.NormalizeName(req.LastName),
		BookedAt:  e.clock.Now().UTC(),
	}

	if e.cfg.AllowNotes {
		booking.Notes = sanitizer.NormalizeNotes(req.Notes)
	}

	if e.cfg.AllowGuestBookings && email != "" {
		booking.Email = sanitizer.NormalizeEmail(email)
		booking.CancellationToken = e.ids.NewCancellationToken()
		booking.IsGuest = true
	}

	return booking
}

// AddBooking reserves one seat. The capacity gate is checked at call
// time; there is no hold or reservation concept.
func (e *Engine) AddBooking(ctx context.Context, sessionID string, req BookingRequest) (*model.Booking, error) {
	guestEmail := ""
	if req.IsGuest {
		guestEmail = req.Email
	}
	booking := e.newBooking(req, guestEmail)

	if err := e.validator.ValidateBooking(&booking); err != nil {
		e.log.Warn("Booking validation failed", "session_id", sessionID, "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	sessions, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	session, err := findSession(sessions, sessionID)
	if err != nil {
		return nil, e.translate(err, sessionID)
	}

	if len(session.Bookings) >= session.Capacity {
		return nil, apperrors.CapacityExceeded("This session is fully booked")
	}

	session.Bookings = append(session.Bookings, booking)

	if err := e.save(ctx, sessions); err != nil {
		return nil, err
	}

	e.log.Info("Booking added",
		"session_id", sessionID,
		"first_name", booking.FirstName,
		"last_name", booking.LastName,
		"is_guest", booking.IsGuest,
		"booked", len(session.Bookings),
		"capacity", session.Capacity,
	)
	return &booking, nil
}

// AddMultipleBookings reserves a batch of seats atomically: the remaining
// capacity is computed once and the whole batch fails when it does not
// fit. All bookings share the submitter's email, and each one receives
// its own cancellation token when that email is non-empty.
func (e *Engine) AddMultipleBookings(ctx context.Context, sessionID string, reqs []BookingRequest, email string) ([]model.Booking, error) {
	if len(reqs) == 0 {
		return nil, apperrors.InvalidInput("At least one booking is required")
	}

	bookings := make([]model.Booking, 0, len(reqs))
	for _, req := range reqs {
		booking := e.newBooking(req, email)
		if err := e.validator.ValidateBooking(&booking); err != nil {
			e.log.Warn("Batch booking validation failed", "session_id", sessionID, "error", err)
			return nil, apperrors.Validation("Booking validation failed", map[string]any{
				"error": err.Error(),
			})
		}
		bookings = append(bookings, booking)
	}

	sessions, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	session, err := findSession(sessions, sessionID)
	if err != nil {
		return nil, e.translate(err, sessionID)
	}

	spotsLeft := session.SpotsLeft()
	if len(bookings) > spotsLeft {
		return nil, apperrors.CapacityExceeded(fmt.Sprintf("Only %d spot(s) available", spotsLeft))
	}

	session.Bookings = append(session.Bookings, bookings...)

	if err := e.save(ctx, sessions); err != nil {
		return nil, err
	}

	e.log.Info("Batch booking added",
		"session_id", sessionID,
		"added", len(bookings),
		"booked", len(session.Bookings),
		"capacity", session.Capacity,
	)
	return bookings, nil
}

// RemoveBooking removes the booking at the given position. The caller is
// responsible for resolving the index and for any authorization; the
// engine performs neither.
func (e *Engine) RemoveBooking(ctx context.Context, sessionID string, index int) error {
	sessions, err := e.load(ctx)
	if err != nil {
		return err
	}

	session, err := findSession(sessions, sessionID)
	if err != nil {
		return e.translate(err, sessionID)
	}

	if index < 0 || index >= len(session.Bookings) {
		return apperrors.NotFound("Booking")
	}

	removed := session.Bookings[index]
	session.Bookings = append(session.Bookings[:index], session.Bookings[index+1:]...)

	if err := e.save(ctx, sessions); err != nil {
		return err
	}

	e.log.Info("Booking removed",
		"session_id", sessionID,
		"index", index,
		"first_name", removed.FirstName,
		"last_name", removed.LastName,
	)
	return nil
}
