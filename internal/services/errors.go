package services

import "errors"

// Domain error taxonomy. Handlers translate these into HTTP statuses:
// ValidationError and ConflictError map to 400, ErrNotFound to 404,
// ErrNotVerified to 403, ErrBadCredentials to 400 and anything
// unrecognized degrades to a generic 500.
var (
	ErrNotFound       = errors.New("not found")
	ErrNotVerified    = errors.New("account not verified")
	ErrBadCredentials = errors.New("incorrect email or password")

	// Three-way token verification outcome: a token is either valid
	// (nil error), expired, or invalid/tampered. Callers must treat
	// expiry as a recoverable state, not a hard rejection.
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")

	// ErrLinkExpired signals that an email-verification link expired
	// and a replacement mail has already been dispatched.
	ErrLinkExpired = errors.New("verification link expired")
)

// ValidationError carries a field-specific message for malformed or
// missing input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ConflictError signals a uniqueness violation or duplicate request.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NewConflictError creates a ConflictError with the given message.
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}
