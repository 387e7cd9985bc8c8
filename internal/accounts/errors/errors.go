// Package errors holds the sentinel errors for the accounts domain.
// They are translated to AppError at the service boundary.
package errors

import "errors"

var (
	ErrAdminNotFound      = errors.New("admin account not found")
	ErrHostNotFound       = errors.New("host account not found")
	ErrUserNotFound       = errors.New("user account not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAdminAlreadyExists = errors.New("admin account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
