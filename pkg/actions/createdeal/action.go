// Package createdeal implements the create_deal action.
package createdeal

import (
	"context"
	"log/slog"

	"github.com/crmflow/crmflow/pkg/models"
	"github.com/crmflow/crmflow/pkg/protocol"
	"github.com/crmflow/crmflow/pkg/store"
)

const actionType = "create_deal"

const (
	defaultName        = "New Deal"
	defaultCurrency    = "USD"
	defaultStage       = "Prospecting"
	defaultProbability = 50
)

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
	return "Create Deal"
}

func (*ActionFactory) Description() string {
	return "Creates a deal linked to the account and contact from the execution context."
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	if config == nil {
		config = map[string]any{}
	}

	probability := defaultProbability
	if p, ok := config["probability"].(float64); ok {
		probability = int(p)
	}

	var amount float64
	if v, ok := config["amount"].(float64); ok {
		amount = v
	}

	return &Action{
		store:       f.store,
		name:        configString(config, "name"),
		amount:      amount,
		currency:    configString(config, "currency"),
		stage:       configString(config, "stage"),
		probability: probability,
		ownerEmail:  configString(config, "ownerEmail"),
	}, nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{
				"type": "string",
			},
			"amount": map[string]any{
				"type": "number",
			},
			"currency": map[string]any{
				"type":    "string",
				"default": defaultCurrency,
			},
			"stage": map[string]any{
				"type":    "string",
				"default": defaultStage,
			},
			"probability": map[string]any{
				"type":    "number",
				"default": defaultProbability,
				"minimum": 0,
				"maximum": 100,
			},
			"ownerEmail": map[string]any{
				"type":        "string",
				"description": "Deal owner; defaults to the userEmail from the execution context",
			},
		},
	}
}

type Action struct {
	store       store.EntityStore
	name        string
	amount      float64
	currency    string
	stage       string
	probability int
	ownerEmail  string
}

func (a *Action) Execute(ctx context.Context, execCtx models.ExecutionContext, logger *slog.Logger) (*models.ActionResult, error) {
	name := a.name
	if name == "" {
		name = defaultName
	}

	currency := a.currency
	if currency == "" {
		currency = defaultCurrency
	}

	stage := a.stage
	if stage == "" {
		stage = defaultStage
	}

	owner := a.ownerEmail
	if owner == "" {
		owner = execCtx.String("userEmail")
	}

	fields := store.Record{
		"name":        name,
		"amount":      a.amount,
		"currency":    currency,
		"stage":       stage,
		"probability": a.probability,
		"ownerEmail":  owner,
		"accountId":   execCtx.String("accountId"),
		"contactId":   execCtx.String("contactId"),
	}

	rec, err := a.store.Create(ctx, store.EntityDeal, fields)
	if err != nil {
		logger.Warn("Failed to create deal", "error", err)

		return &models.ActionResult{Type: actionType, Success: false, Error: err.Error()}, nil
	}

	logger.Info("Created deal", "deal_id", rec["id"], "stage", stage)

	return &models.ActionResult{
		Type:    actionType,
		Success: true,
		Data:    map[string]any{"dealId": rec["id"], "stage": stage},
	}, nil
}

func configString(config map[string]any, key string) string {
	s, _ := config[key].(string)

	return s
}
