package engine

import "errors"

// Sentinel error kinds for the engines. The API boundary converts these
// to structured failure payloads; nothing below it should branch on
// message text.
var (
	// ErrInvalidInput marks a value outside a closed enum or other bad input
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks an absent or inaccessible subject
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks an action on another user's resource
	ErrForbidden = errors.New("forbidden")
)
