package admins

import (
	"errors"
	"fmt"
)

// ErrUsernameTaken reports a signup attempt against an existing username.
var ErrUsernameTaken = errors.New("admins: username already taken")

// ErrInvalidCredentials reports a failed login without exposing which check failed.
var ErrInvalidCredentials = errors.New("admins: invalid credentials")

// ErrAccountDisabled reports a login or token check against a deactivated account.
var ErrAccountDisabled = errors.New("admins: account disabled")

// NotFoundError captures a missing admin lookup.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("admins: admin %s not found", e.Key)
}
