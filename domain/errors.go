package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by services and handlers. Wrap with %w and test with
// errors.Is; empty result sets are never errors.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrAuthRequired = errors.New("authentication required")
)

// ValidationErrorf builds a validation error with a specific reason.
func ValidationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
