package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrAccountExists      = errors.New("username or email already registered")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrItemNotFound       = errors.New("item not found")
	ErrIdempotencyPending = errors.New("a request with this idempotency key is still in progress")
)

// Token failures. Both surface to clients as ErrUnauthenticated; the split is
// kept for logs and metrics.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ValidationError carries a client-safe message about a malformed request.
type ValidationError struct {
	Message string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }
