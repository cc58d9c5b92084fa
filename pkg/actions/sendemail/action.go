// Package sendemail implements the send_email action. Delivery is
// delegated to the Mailer collaborator; the engine never speaks SMTP.
package sendemail

import (
	"context"
	"log/slog"

	"github.com/crmflow/crmflow/pkg/models"
	"github.com/crmflow/crmflow/pkg/protocol"
)

const actionType = "send_email"

type ActionFactory struct {
	mailer protocol.Mailer
}

func NewActionFactory(deps protocol.Dependencies) *ActionFactory {
	return &ActionFactory{mailer: deps.Mailer}
}

func (*ActionFactory) ID() string {
	return actionType
}

func (*ActionFactory) Name() string {
	return "Send Email"
}

func (*ActionFactory) Description() string {
	return "Sends an email through the configured mail collaborator."
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	if config == nil {
		config = map[string]any{}
	}

	to, _ := config["to"].(string)
	subject, _ := config["subject"].(string)
	body, _ := config["body"].(string)

	return &Action{mailer: f.mailer, to: to, subject: subject, body: body}, nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"to": map[string]any{
				"type":        "string",
				"description": "Recipient; defaults to the userEmail from the execution context",
			},
			"subject": map[string]any{
				"type": "string",
			},
			"body": map[string]any{
				"type": "string",
			},
		},
		"required": []string{"subject"},
	}
}

type Action struct {
	mailer  protocol.Mailer
	to      string
	subject string
	body    string
}

func (a *Action) Execute(ctx context.Context, execCtx models.ExecutionContext, logger *slog.Logger) (*models.ActionResult, error) {
	to := a.to
	if to == "" {
		to = execCtx.String("userEmail")
	}

	if to == "" {
		return &models.ActionResult{
			Type:    actionType,
			Success: false,
			Error:   "Email recipient not provided",
		}, nil
	}

	err := a.mailer.SendEmail(ctx, to, a.subject, a.body)
	if err != nil {
		logger.Warn("Failed to send email", "to", to, "error", err)

		return &models.ActionResult{Type: actionType, Success: false, Error: err.Error()}, nil
	}

	logger.Info("Requested email delivery", "to", to, "subject", a.subject)

	return &models.ActionResult{
		Type:    actionType,
		Success: true,
		Data:    map[string]any{"to": to, "subject": a.subject},
	}, nil
}
