// Package addnote implements the add_note action: it attaches a note to
// the record that triggered the workflow.
package addnote

import (
	"context"
	"log/slog"

	"github.com/crmflow/crmflow/pkg/models"
	"github.com/crmflow/crmflow/pkg/protocol"
	"github.com/crmflow/crmflow/pkg/store"
)

const actionType = "add_note"

type ActionFactory struct {
	store store.EntityStore
}

func NewActionFactory(deps protocol.Dependencies) *ActionFactory {
	return &ActionFactory{store: deps.Store}
}

func (*ActionFactory) ID() string {
	return actionType
}

func (*ActionFactory) Name() string {
	return "Add Note"
}

func (*ActionFactory) Description() string {
	return "Creates a note attached to the entity from the execution context."
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	if config == nil {
		config = map[string]any{}
	}

	content, _ := config["content"].(string)

	return &Action{store: f.store, content: content}, nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content": map[string]any{
				"type":        "string",
				"description": "Note body",
			},
		},
		"required": []string{"content"},
	}
}

type Action struct {
	store   store.EntityStore
	content string
}

func (a *Action) Execute(ctx context.Context, execCtx models.ExecutionContext, logger *slog.Logger) (*models.ActionResult, error) {
	fields := store.Record{
		"content":       a.content,
		"relatedToType": execCtx.String("entityType"),
		"relatedToId":   execCtx.String("entityId"),
		"createdBy":     execCtx.String("userId"),
	}

	rec, err := a.store.Create(ctx, store.EntityNote, fields)
	if err != nil {
		logger.Warn("Failed to add note", "error", err)

		return &models.ActionResult{Type: actionType, Success: false, Error: err.Error()}, nil
	}

	logger.Info("Added note", "note_id", rec["id"])

	return &models.ActionResult{
		Type:    actionType,
		Success: true,
		Data:    map[string]any{"noteId": rec["id"]},
	}, nil
}
