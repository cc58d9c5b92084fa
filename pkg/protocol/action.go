// Package protocol defines the contracts between the workflow engine and
// pluggable action implementations.
package protocol

import (
	"context"
	"log/slog"

	"github.com/crmflow/crmflow/pkg/models"
	"github.com/crmflow/crmflow/pkg/store"
)

// Action executes one configured workflow action against the execution
// context. Expected failures (missing context ids, store errors, delegate
// errors) are reported through the result with Success=false; the error
// return is reserved for unexpected programming errors and is converted
// to a failure result by the pipeline.
type Action interface {
	Execute(ctx context.Context, execCtx models.ExecutionContext, logger *slog.Logger) (*models.ActionResult, error)
}

// ActionFactory creates action instances and describes the action type.
type ActionFactory interface {
	// Create builds a new action bound to the given configuration.
	Create(config map[string]any) (Action, error)

	// ID returns the action type identifier used in workflow definitions.
	ID() string

	// Name returns the human-readable name for this action type.
	Name() string

	// Description returns what this action does.
	Description() string

	// Schema returns the JSON schema for the action configuration.
	Schema() map[string]any
}

// Dependencies carries the collaborators action factories need. Entity
// mutating actions use the store; delegated actions use the outbound
// collaborator interfaces.
type Dependencies struct {
	Store     store.EntityStore
	Mailer    Mailer
	Calendar  Calendar
	Directory Directory
	Segments  Segments
}
