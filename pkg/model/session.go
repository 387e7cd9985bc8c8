package model

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the calendar-date form sessions are stored with.
	DateLayout = "2006-01-02"
	// TimeLayout is the local time-of-day form sessions are stored with.
	TimeLayout = "15:04"
)

type Session struct {
	ID          string          `json:"id,omitempty" bson:"_id,omitempty"`
	SessionType string          `json:"session_type,omitempty" bson:"session_type,omitempty" validate:"omitempty,max=100"`
	Date        string          `json:"date" bson:"date" validate:"required,session_date"`
	Time        string          `json:"time" bson:"time" validate:"required,session_time"`
	Duration    int             `json:"duration" bson:"duration" validate:"required,min=5,max=480"`
	Capacity    int             `json:"capacity" bson:"capacity" validate:"required,min=1,max=200"`
	Bookings    []Booking       `json:"bookings" bson:"bookings"`
	Waitlist    []WaitlistEntry `json:"waitlist,omitempty" bson:"waitlist,omitempty"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
}

// StartsAt combines the session's date and time into its start instant
// in the given location.
func (s *Session) StartsAt(loc *time.Location) (time.Time, error) {
	start, err := time.ParseInLocation(DateLayout+"T"+TimeLayout, s.Date+"T"+s.Time, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid session date/time %q %q: %w", s.Date, s.Time, err)
	}
	return start, nil
}

// SpotsLeft is the remaining bookable capacity.
func (s *Session) SpotsLeft() int {
	return s.Capacity - len(s.Bookings)
}

type SessionUpdate struct {
	SessionType *string `json:"session_type,omitempty" validate:"omitempty,max=100"`
	Date        *string `json:"date,omitempty" validate:"omitempty,session_date"`
	Time        *string `json:"time,omitempty" validate:"omitempty,session_time"`
	Duration    *int    `json:"duration,omitempty" validate:"omitempty,min=5,max=480"`
	Capacity    *int    `json:"capacity,omitempty" validate:"omitempty,min=1,max=200"`
}

type Booking struct {
	FirstName         string    `json:"first_name" bson:"first_name" validate:"required,min=1,max=80"`
	LastName          string    `json:"last_name" bson:"last_name" validate:"required,min=1,max=80"`
	Notes             string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	Email             string    `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	CancellationToken string    `json:"cancellation_token,omitempty" bson:"cancellation_token,omitempty"`
	IsGuest           bool      `json:"is_guest,omitempty" bson:"is_guest,omitempty"`
	BookedAt          time.Time `json:"booked_at" bson:"booked_at"`
}

type WaitlistEntry struct {
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	FirstName string    `json:"first_name" bson:"first_name" validate:"required,min=1,max=80"`
	LastName  string    `json:"last_name" bson:"last_name" validate:"required,min=1,max=80"`
	AddedAt   time.Time `json:"added_at" bson:"added_at"`
}
