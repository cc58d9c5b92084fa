// Package addtolist implements the add_to_list action. Segment
// membership is delegated to the Segments collaborator.
package addtolist

import (
	"context"
	"log/slog"

	"github.com/crmflow/crmflow/pkg/models"
	"github.com/crmflow/crmflow/pkg/protocol"
)

const actionType = "add_to_list"

type ActionFactory struct {
	segments protocol.Segments
}

func NewActionFactory(deps protocol.Dependencies) *ActionFactory {
	return &ActionFactory{segments: deps.Segments}
}

func (*ActionFactory) ID() string {
	return actionType
}

func (*ActionFactory) Name() string {
	return "Add To List"
}

func (*ActionFactory) Description() string {
	return "Adds the triggering record to a list or segment."
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	if config == nil {
		config = map[string]any{}
	}

	listID, _ := config["listId"].(string)

	return &Action{segments: f.segments, listID: listID}, nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"listId": map[string]any{
				"type": "string",
			},
		},
		"required": []string{"listId"},
	}
}

type Action struct {
	segments protocol.Segments
	listID   string
}

func (a *Action) Execute(ctx context.Context, execCtx models.ExecutionContext, logger *slog.Logger) (*models.ActionResult, error) {
	if a.listID == "" {
		return &models.ActionResult{
			Type:    actionType,
			Success: false,
			Error:   "List ID not provided",
		}, nil
	}

	entityType := execCtx.String("entityType")
	entityID := execCtx.String("entityId")

	err := a.segments.AddToList(ctx, a.listID, entityType, entityID)
	if err != nil {
		logger.Warn("Failed to add record to list", "list_id", a.listID, "error", err)

		return &models.ActionResult{Type: actionType, Success: false, Error: err.Error()}, nil
	}

	logger.Info("Requested list membership", "list_id", a.listID, "entity_id", entityID)

	return &models.ActionResult{
		Type:    actionType,
		Success: true,
		Data:    map[string]any{"listId": a.listID, "entityId": entityID},
	}, nil
}
