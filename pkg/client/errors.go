package client

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrUnauthenticated is returned when the server rejects the session token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden is returned when the session lacks permission for the route.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrSubmissionInFlight is returned when a booking submission is triggered
	// while a previous one has not finished.
	ErrSubmissionInFlight = errors.New("submission already in flight")
)

// ValidationError is a field-scoped input error. It is produced locally for
// client-side checks and from HTTP 400 responses.
type ValidationError struct {
	// Field names the offending input field, when known.
	Field string
	// Message explains what is wrong with the input.
	Message string
}

// Error returns a human-readable description of the validation failure.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// AuthError is returned for HTTP 401 responses: missing, expired, or revoked
// credentials.
type AuthError struct {
	// Code is the stable machine-readable code from the server.
	Code string
	// Message is the server's description.
	Message string
}

// Error returns a human-readable description of the authentication failure.
func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// Is reports whether this error matches the target error.
// It supports errors.Is(err, ErrUnauthenticated).
func (e *AuthError) Is(target error) bool {
	return target == ErrUnauthenticated
}

// ForbiddenError is returned for HTTP 403 responses. Code distinguishes a
// deactivated account (ACCOUNT_INACTIVE) from a role mismatch (FORBIDDEN).
type ForbiddenError struct {
	Code    string
	Message string
}

// Error returns a human-readable description of the authorization failure.
func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Message)
}

// AccountInactive reports whether the denial is due to a deactivated account.
func (e *ForbiddenError) AccountInactive() bool {
	return e.Code == "ACCOUNT_INACTIVE"
}

// Is reports whether this error matches the target error.
func (e *ForbiddenError) Is(target error) bool {
	return target == ErrForbidden
}

// NotFoundError is returned for HTTP 404 responses.
type NotFoundError struct {
	Code    string
	Message string
}

// Error returns a human-readable description of the missing resource.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Message)
}

// Is reports whether this error matches the target error.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConflictError is returned for HTTP 409 responses, such as a duplicate email
// or a room already booked for the requested dates.
type ConflictError struct {
	Code    string
	Message string
}

// Error returns a human-readable description of the conflict.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Message)
}

// ServerError is returned for HTTP 5xx responses.
type ServerError struct {
	// StatusCode is the HTTP status the server returned.
	StatusCode int
	Message    string
}

// Error returns a human-readable description of the server failure.
func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// NetworkError is returned when the request never produced an HTTP response:
// DNS failure, connection refused, or timeout.
type NetworkError struct {
	// Cause is the underlying transport error.
	Cause error
}

// Error returns a human-readable description of the transport failure.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Cause)
}

// Unwrap returns the underlying error cause.
func (e *NetworkError) Unwrap() error {
	return e.Cause
}
