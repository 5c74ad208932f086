package domain

import "errors"

var (
	// ErrInvalidOrigin marks an origin missing its type or id where both
	// are required.
	ErrInvalidOrigin = errors.New("invalid origin")

	// ErrMalformedKey marks a combined key with no separator in it.
	ErrMalformedKey = errors.New("malformed combined key")

	// ErrRequestNotFound means no pending request the caller is allowed to
	// review matches the decision target.
	ErrRequestNotFound = errors.New("approval request does not exist")

	// ErrDuplicateRequest means a request with the same action and origin
	// already exists.
	ErrDuplicateRequest = errors.New("approval request already exists")
)
