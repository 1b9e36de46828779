// Package app holds the application services. Services resolve
// configuration and stored state into plain engine inputs.
package app

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a request rejected before reaching storage or
	// the engines.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates that the addressed record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials indicates that the provided username or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsersExist is returned when initial setup runs twice.
	ErrUsersExist = errors.New("users already exist")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
