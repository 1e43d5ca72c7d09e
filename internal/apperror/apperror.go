package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for the four failure kinds the API distinguishes.
// The HTTP layer maps these to status codes with errors.Is; everything
// in between just wraps with %w.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrService      = errors.New("service error")

	// ErrConflict marks a uniqueness-constraint violation from the
	// storage layer. It never reaches the HTTP boundary directly: the
	// service layer translates it (duplicate email → validation failure,
	// token collision → retry).
	ErrConflict = errors.New("conflict")
)

// AppError carries a human-readable message alongside the sentinel kind.
type AppError struct {
	Err     error  // one of the sentinels above
	Message string // human-readable error message
	Field   string // optional: field causing a validation error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports an absent resource. Ownership denials use the same
// constructor on purpose: a caller must not be able to tell "not yours"
// from "does not exist".
func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("The %s does not exist.", resource),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Unauthorized reports a failed authentication. At login the message
// distinguishes unknown user from bad password; after login it is always
// the generic invalid-token message.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Conflict reports a uniqueness violation on the named resource.
func Conflict(resource string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s already exists", resource),
	}
}

// Service reports an unexpected persistence or business-rule failure
// during create/delete. Handlers surface it as 400 with the message.
func Service(message string) *AppError {
	return &AppError{
		Err:     ErrService,
		Message: message,
	}
}
