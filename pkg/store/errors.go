package store

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a record was not found by the given identifier.
// All backends return it (possibly wrapped) so callers can errors.Is
// against a single sentinel.
var ErrNotFound = errors.New("record not found")

// EntityError wraps a store failure with the operation and target that
// produced it.
type EntityError struct {
	Op     string // operation being performed ("Create", "Get", ...)
	Entity string // entity name ("Workflow", "Task", ...)
	ID     string // record id if applicable
	Err    error
}

func (e *EntityError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s %s: %v", e.Op, e.Entity, e.ID, e.Err)
	}

	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

func (e *EntityError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewEntityError creates a store error with operation context.
func NewEntityError(op, entity, id string, err error) *EntityError {
	return &EntityError{Op: op, Entity: entity, ID: id, Err: err}
}

// IsNotFound checks whether an error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
