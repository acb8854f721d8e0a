package auth

import "errors"

var (
	// ErrInvalidCredentials is the only login failure reported to callers:
	// an unknown email and a wrong password look the same.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateEmail     = errors.New("user with that email already exists")
	ErrUnauthenticated    = errors.New("not authenticated")
)
