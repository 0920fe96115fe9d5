package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")
	ErrEmptyWords  = fmt.Errorf("no words have been found")

	// Core taxonomy
	ErrUnauthorized            = fmt.Errorf("unauthorized")
	ErrNotFound                = fmt.Errorf("not found")
	ErrUnknownParticipant      = fmt.Errorf("unknown participant")
	ErrInvalidParticipantCount = fmt.Errorf("invalid participant count")
	ErrDeliveryFailure         = fmt.Errorf("delivery failure")

	// Message validation
	ErrEmptyContent       = fmt.Errorf("message content is required")
	ErrInvalidMessageKind = fmt.Errorf("invalid message kind")
	ErrUnexpectedFile     = fmt.Errorf("text messages cannot carry an attachment")

	// Accounts
	ErrInvalidRequest     = fmt.Errorf("invalid request")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrUserAlreadyExists  = fmt.Errorf("username or email already registered")
	ErrInvalidCredentials = fmt.Errorf("incorrect username or password")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")

	// Transport
	ErrConnectionClosed = fmt.Errorf("connection closed")
	ErrSendBufferFull   = fmt.Errorf("connection buffer exceeded")
	ErrFileTooLarge     = fmt.Errorf("file too large")
)

// MapToHTTPStatus translates a service error into the status code returned to API clients.
// Unknown errors are internal errors.
func MapToHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUserAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrUnknownParticipant),
		errors.Is(err, ErrInvalidParticipantCount),
		errors.Is(err, ErrEmptyContent),
		errors.Is(err, ErrInvalidMessageKind),
		errors.Is(err, ErrUnexpectedFile),
		errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrInvalidPassword):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
