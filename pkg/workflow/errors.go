package workflow

import (
	"errors"
	"strings"
)

var (
	// ErrWorkflowNotFound indicates the referenced workflow id does not
	// resolve.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrWorkflowInactive indicates execute was called on a workflow
	// with is_active = false. No execution record is created.
	ErrWorkflowInactive = errors.New("workflow is not active")
)

// ValidationError aggregates every violated rule of a workflow
// definition so callers can show a complete report instead of the first
// failure.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "workflow validation failed: " + strings.Join(e.Errors, "; ")
}

// IsValidationError checks whether an error is a definition validation
// failure.
func IsValidationError(err error) bool {
	var ve *ValidationError

	return errors.As(err, &ve)
}
