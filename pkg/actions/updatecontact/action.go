// Package updatecontact implements the update_contact action: it applies
// the configured field updates to the contact from the execution context.
package updatecontact

import (
	"context"
	"log/slog"

	"github.com/crmflow/crmflow/pkg/models"
	"github.com/crmflow/crmflow/pkg/protocol"
	"github.com/crmflow/crmflow/pkg/store"
)

const actionType = "update_contact"

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
	return "Update Contact"
}

func (*ActionFactory) Description() string {
	return "Applies the configured field updates to the contact identified by the execution context."
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	if config == nil {
		config = map[string]any{}
	}

	updates, _ := config["updates"].(map[string]any)

	return &Action{store: f.store, updates: updates}, nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"updates": map[string]any{
				"type":        "object",
				"description": "Field name to value mapping applied to the contact record",
			},
		},
		"required": []string{"updates"},
	}
}

type Action struct {
	store   store.EntityStore
	updates map[string]any
}

func (a *Action) Execute(ctx context.Context, execCtx models.ExecutionContext, logger *slog.Logger) (*models.ActionResult, error) {
	contactID := execCtx.String("contactId")
	if contactID == "" {
		return &models.ActionResult{
			Type:    actionType,
			Success: false,
			Error:   "Contact ID not provided in context",
		}, nil
	}

	rec, err := a.store.Update(ctx, store.EntityContact, contactID, a.updates)
	if err != nil {
		logger.Warn("Failed to update contact", "contact_id", contactID, "error", err)

		return &models.ActionResult{Type: actionType, Success: false, Error: err.Error()}, nil
	}

	logger.Info("Updated contact", "contact_id", contactID)

	return &models.ActionResult{
		Type:    actionType,
		Success: true,
		Data:    map[string]any{"contactId": rec["id"]},
	}, nil
}
