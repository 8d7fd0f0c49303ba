package readiness

import (
	"errors"
	"strings"
)

// Sentinel kinds for readiness errors.
var (
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError aggregates every violated required field for one call.
// Required-field violations fail fast with no partial computation.
type ValidationError struct {
	Violations []string
}

// Error lists all violations in one message.
func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// Is allows errors.Is(err, ErrInvalidInput) on validation failures.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
