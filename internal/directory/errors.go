package directory

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound indicates the directory has no user for an email, or the
	// lookup itself failed.
	ErrUserNotFound = errors.New("user not found")

	// ErrProfileUnavailable indicates a resolved user's profile could not be read.
	ErrProfileUnavailable = errors.New("profile unavailable")
)

// UserNotFoundError is returned by ResolveUserByEmail.
type UserNotFoundError struct {
	Email string
	Err   error
}

func (e *UserNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("user not found for email: %s: %v", e.Email, e.Err)
	}
	return fmt.Sprintf("user not found for email: %s", e.Email)
}

func (e *UserNotFoundError) Unwrap() error { return e.Err }

func (e *UserNotFoundError) Is(target error) bool { return target == ErrUserNotFound }

// ProfileUnavailableError is returned by FetchProfileStatus.
type ProfileUnavailableError struct {
	UserID string
	Err    error
}

func (e *ProfileUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to get profile for user: %s: %v", e.UserID, e.Err)
	}
	return fmt.Sprintf("failed to get profile for user: %s", e.UserID)
}

func (e *ProfileUnavailableError) Unwrap() error { return e.Err }

func (e *ProfileUnavailableError) Is(target error) bool { return target == ErrProfileUnavailable }
