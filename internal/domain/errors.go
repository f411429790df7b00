package domain

import "errors"

// Sentinel error kinds. Every error returned by services and repositories
// wraps exactly one of these, so callers classify with errors.Is.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation error")
	ErrConflict    = errors.New("already exists")
	ErrPersistence = errors.New("persistence error")
)

// Error is a classified error with a message that is safe to show to end users.
// The optional Cause keeps the underlying fault for logging.
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// NewValidationError returns an error of kind ErrValidation.
func NewValidationError(message string) error {
	return &Error{Kind: ErrValidation, Message: message}
}

// NewConflictError returns an error of kind ErrConflict.
func NewConflictError(message string) error {
	return &Error{Kind: ErrConflict, Message: message}
}

// NewPersistenceError returns an error of kind ErrPersistence that hides cause
// behind message.
func NewPersistenceError(message string, cause error) error {
	return &Error{Kind: ErrPersistence, Message: message, Cause: cause}
}

// PublicMessage returns the user-facing message of err, or fallback when err
// carries none.
func PublicMessage(err error, fallback string) string {
	var de *Error
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return fallback
}
