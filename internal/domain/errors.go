package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates the session could not be authenticated even
	// after a token refresh; the caller must send the user back to login.
	ErrUnauthorized = errors.New("unauthorized")
)
