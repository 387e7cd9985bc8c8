package errors

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")

	ErrBookingNotFound = errors.New("booking not found")

	ErrInvalidStart = errors.New("session has an invalid date/time")
)
