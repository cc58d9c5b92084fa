// Package updatedealstage implements the update_deal_stage action.
package updatedealstage

import (
	"context"
	"log/slog"

	"github.com/crmflow/crmflow/pkg/models"
	"github.com/crmflow/crmflow/pkg/protocol"
	"github.com/crmflow/crmflow/pkg/store"
)

const actionType = "update_deal_stage"

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
	return "Update Deal Stage"
}

func (*ActionFactory) Description() string {
	return "Moves the deal from the execution context to a new pipeline stage."
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	if config == nil {
		config = map[string]any{}
	}

	var probability *int

	if p, ok := config["probability"].(float64); ok {
		v := int(p)
		probability = &v
	}

	stage, _ := config["stage"].(string)

	return &Action{store: f.store, stage: stage, probability: probability}, nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"stage": map[string]any{
				"type": "string",
			},
			"probability": map[string]any{
				"type":    "number",
				"minimum": 0,
				"maximum": 100,
			},
		},
		"required": []string{"stage"},
	}
}

type Action struct {
	store       store.EntityStore
	stage       string
	probability *int
}

func (a *Action) Execute(ctx context.Context, execCtx models.ExecutionContext, logger *slog.Logger) (*models.ActionResult, error) {
	dealID := execCtx.String("dealId")
	if dealID == "" {
		return &models.ActionResult{
			Type:    actionType,
			Success: false,
			Error:   "Deal ID not provided in context",
		}, nil
	}

	updates := store.Record{"stage": a.stage}
	if a.probability != nil {
		updates["probability"] = *a.probability
	}

	rec, err := a.store.Update(ctx, store.EntityDeal, dealID, updates)
	if err != nil {
		logger.Warn("Failed to update deal stage", "deal_id", dealID, "error", err)

		return &models.ActionResult{Type: actionType, Success: false, Error: err.Error()}, nil
	}

	logger.Info("Updated deal stage", "deal_id", dealID, "stage", a.stage)

	return &models.ActionResult{
		Type:    actionType,
		Success: true,
		Data:    map[string]any{"dealId": rec["id"], "stage": a.stage},
	}, nil
}
