// Package assignuser implements the assign_to_user action. Ownership
// changes are delegated to the Directory collaborator.
package assignuser

import (
	"context"
	"log/slog"

	"github.com/crmflow/crmflow/pkg/models"
	"github.com/crmflow/crmflow/pkg/protocol"
)

const actionType = "assign_to_user"

type ActionFactory struct {
	directory protocol.Directory
}

func NewActionFactory(deps protocol.Dependencies) *ActionFactory {
	return &ActionFactory{directory: deps.Directory}
}

func (*ActionFactory) ID() string {
	return actionType
}

func (*ActionFactory) Name() string {
	return "Assign To User"
}

func (*ActionFactory) Description() string {
	return "Assigns the triggering record to a user."
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	if config == nil {
		config = map[string]any{}
	}

	userID, _ := config["userId"].(string)

	return &Action{directory: f.directory, userID: userID}, nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"userId": map[string]any{
				"type":        "string",
				"description": "Assignee; defaults to the userId from the execution context",
			},
		},
	}
}

type Action struct {
	directory protocol.Directory
	userID    string
}

func (a *Action) Execute(ctx context.Context, execCtx models.ExecutionContext, logger *slog.Logger) (*models.ActionResult, error) {
	userID := a.userID
	if userID == "" {
		userID = execCtx.String("userId")
	}

	if userID == "" {
		return &models.ActionResult{
			Type:    actionType,
			Success: false,
			Error:   "Assignee not provided",
		}, nil
	}

	entityType := execCtx.String("entityType")
	entityID := execCtx.String("entityId")

	err := a.directory.AssignToUser(ctx, entityType, entityID, userID)
	if err != nil {
		logger.Warn("Failed to assign record", "user_id", userID, "error", err)

		return &models.ActionResult{Type: actionType, Success: false, Error: err.Error()}, nil
	}

	logger.Info("Requested record assignment", "user_id", userID, "entity_id", entityID)

	return &models.ActionResult{
		Type:    actionType,
		Success: true,
		Data:    map[string]any{"userId": userID, "entityId": entityID},
	}, nil
}
