package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/resenahub/resenahub/internal/engine"
	"github.com/resenahub/resenahub/internal/models"
)

// Error represents an API error
type Error struct {
	Status  int
	Message string
}

// NewError creates a new API error
func NewError(status int, message string) *Error {
	return &Error{
		Status:  status,
		Message: message,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Message)
}

// Common boundary errors
var (
	ErrUnauthenticated = NewError(http.StatusUnauthorized, "authentication required")
	ErrBadPayload      = NewError(http.StatusBadRequest, "invalid request payload")
)

// classify converts any error to an API error. Engine sentinels map to
// their status; everything unexpected becomes an opaque 500 so no
// internal detail leaks and no request takes the process down.
func classify(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		return NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, engine.ErrNotFound):
		return NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrForbidden):
		return NewError(http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrSubscriptionTarget):
		return NewError(http.StatusBadRequest, err.Error())
	}
	return NewError(http.StatusInternalServerError, "internal error")
}
