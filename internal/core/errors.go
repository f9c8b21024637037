package core

import (
	"errors"
	"fmt"
)

// Errors returned by the core services. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrAuthorizationDenied    = errors.New("principal does not own this resource")
	ErrNotFound               = errors.New("resource not found")
	ErrDuplicate              = errors.New("an item for this place already exists")
	ErrValidation             = errors.New("validation failed")

	// ErrInvalidTransition is a validation error: the item's lifecycle status does not allow the move.
	ErrInvalidTransition = fmt.Errorf("%w: lifecycle transition not allowed", ErrValidation)
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
