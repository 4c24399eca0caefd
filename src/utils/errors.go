package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel error kinds. Handlers map these to distinct HTTP statuses so
// callers can tell a retryable failure from one that requires re-reading
// state first.
var (
	// ErrValidation is returned for missing or contradictory input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when an entity is absent or not owned by the
	// caller; ownership failures are indistinguishable from absence.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when an operation is not legal in the
	// entity's current lifecycle state (approving twice, deleting a pending
	// request, rescheduling a cancelled booking).
	ErrInvalidState = errors.New("invalid state")

	// ErrConflict is returned when a concurrent or duplicate active request
	// blocks the operation.
	ErrConflict = errors.New("conflict")

	// ErrUpstream is returned when the payment gateway call failed or
	// returned an unexpected shape.
	ErrUpstream = errors.New("upstream gateway error")
)

// PendingDeleteError reports which ids blocked a bulk delete.
type PendingDeleteError struct {
	PendingIDs []uint
}

func (e *PendingDeleteError) Error() string {
	return fmt.Sprintf("cannot delete pending requests: %v", e.PendingIDs)
}

func (e *PendingDeleteError) Unwrap() error {
	return ErrInvalidState
}

// IsRetryable reports whether a failed call might succeed if simply retried.
// Invalid-state and conflict outcomes require the caller to re-read first.
func IsRetryable(err error) bool {
	return !errors.Is(err, ErrInvalidState) && !errors.Is(err, ErrConflict)
}

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidState):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
