package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountInactive is returned when the account exists but is deactivated.
	// Kept distinct from ErrInvalidCredentials so clients can show a dedicated
	// message instead of bouncing the user back to the login form.
	ErrAccountInactive = errors.New("account is deactivated")
	// ErrTokenInvalid is returned for expired, malformed, or revoked tokens.
	ErrTokenInvalid = errors.New("invalid or expired token")
	// ErrForbidden is returned when a valid session lacks the required role.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrDuplicateEmail is returned when registering an email that already exists.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrUserNotFound is returned when a user lookup misses.
	ErrUserNotFound = errors.New("user not found")
	// ErrRoomNotFound is returned when a room lookup misses.
	ErrRoomNotFound = errors.New("room not found")
	// ErrBookingNotFound is returned when a booking lookup misses.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrServiceNotFound is returned when an add-on service lookup misses.
	ErrServiceNotFound = errors.New("service not found")
	// ErrRoomUnavailable is returned when the room is inactive or already booked
	// for the requested dates.
	ErrRoomUnavailable = errors.New("room not available for the requested dates")
	// ErrBookingInFlight is returned when the same user triggers a second booking
	// submission while a prior one has not finished.
	ErrBookingInFlight = errors.New("a booking submission is already in progress")
	// ErrResetTokenInvalid is returned for an invalid, expired, or replayed
	// password reset token. Distinct from ErrWeakPassword.
	ErrResetTokenInvalid = errors.New("invalid or expired reset token")
	// ErrWeakPassword is returned when a new password fails the policy check.
	ErrWeakPassword = errors.New("password does not meet requirements")
	// ErrInvalidDates is returned when check-out is not after check-in.
	ErrInvalidDates = errors.New("check-out must be after check-in")
)

// ValidationError is a field-scoped input error. It is resolved at the edge
// and never reaches repositories or the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a field-scoped validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Field      string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
		Field: e.Field,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		he := NewHTTPError(http.StatusBadRequest, ve.Message, "VALIDATION_ERROR")
		he.Field = ve.Field
		return he
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrTokenInvalid):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "TOKEN_INVALID")
	case errors.Is(err, ErrResetTokenInvalid):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "RESET_TOKEN_INVALID")
	case errors.Is(err, ErrAccountInactive):
		return NewHTTPError(http.StatusForbidden, err.Error(), "ACCOUNT_INACTIVE")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrRoomNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ROOM_NOT_FOUND")
	case errors.Is(err, ErrBookingNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "BOOKING_NOT_FOUND")
	case errors.Is(err, ErrServiceNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "SERVICE_NOT_FOUND")
	case errors.Is(err, ErrDuplicateEmail):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_EXISTS")
	case errors.Is(err, ErrRoomUnavailable):
		return NewHTTPError(http.StatusConflict, err.Error(), "ROOM_UNAVAILABLE")
	case errors.Is(err, ErrBookingInFlight):
		return NewHTTPError(http.StatusConflict, err.Error(), "BOOKING_IN_FLIGHT")
	case errors.Is(err, ErrWeakPassword):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "WEAK_PASSWORD")
	case errors.Is(err, ErrInvalidDates):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_DATES")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
