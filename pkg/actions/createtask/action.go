// Package createtask implements the create_task action: it creates a
// Task entity related to the record that triggered the workflow.
package createtask

import (
	"context"
	"log/slog"
	"time"

	"github.com/crmflow/crmflow/pkg/models"
	"github.com/crmflow/crmflow/pkg/protocol"
	"github.com/crmflow/crmflow/pkg/store"
)

const actionType = "create_task"

// Defaults applied when the configuration leaves them out.
const (
	defaultTitle    = "New Task"
	defaultStatus   = "Open"
	defaultPriority = "Medium"
	defaultDueIn    = 24 * time.Hour
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
	return "Create Task"
}

func (*ActionFactory) Description() string {
	return "Creates a task assigned to the acting user, related to the triggering record."
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	if config == nil {
		config = map[string]any{}
	}

	return &Action{
		store:       f.store,
		title:       configString(config, "title"),
		description: configString(config, "description"),
		status:      configString(config, "status"),
		priority:    configString(config, "priority"),
		dueDate:     configString(config, "dueDate"),
		assigneeID:  configString(config, "assigneeId"),
	}, nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Task title",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "Task body",
			},
			"status": map[string]any{
				"type":    "string",
				"default": defaultStatus,
			},
			"priority": map[string]any{
				"type":    "string",
				"default": defaultPriority,
				"enum":    []string{"Low", "Medium", "High"},
			},
			"dueDate": map[string]any{
				"type":        "string",
				"description": "RFC 3339 due date; defaults to 24 hours from execution",
			},
			"assigneeId": map[string]any{
				"type":        "string",
				"description": "Assignee; defaults to the userId from the execution context",
			},
		},
	}
}

type Action struct {
	store       store.EntityStore
	title       string
	description string
	status      string
	priority    string
	dueDate     string
	assigneeID  string
}

func (a *Action) Execute(ctx context.Context, execCtx models.ExecutionContext, logger *slog.Logger) (*models.ActionResult, error) {
	title := a.title
	if title == "" {
		title = defaultTitle
	}

	status := a.status
	if status == "" {
		status = defaultStatus
	}

	priority := a.priority
	if priority == "" {
		priority = defaultPriority
	}

	dueDate := a.dueDate
	if dueDate == "" {
		dueDate = time.Now().Add(defaultDueIn).UTC().Format(time.RFC3339)
	}

	assignee := a.assigneeID
	if assignee == "" {
		assignee = execCtx.String("userId")
	}

	fields := store.Record{
		"title":         title,
		"description":   a.description,
		"status":        status,
		"priority":      priority,
		"dueDate":       dueDate,
		"assignedTo":    assignee,
		"relatedToType": execCtx.String("entityType"),
		"relatedToId":   execCtx.String("entityId"),
	}

	rec, err := a.store.Create(ctx, store.EntityTask, fields)
	if err != nil {
		logger.Warn("Failed to create task", "error", err)

		return &models.ActionResult{Type: actionType, Success: false, Error: err.Error()}, nil
	}

	logger.Info("Created task", "task_id", rec["id"], "due_date", dueDate)

	return &models.ActionResult{
		Type:    actionType,
		Success: true,
		Data:    map[string]any{"taskId": rec["id"], "title": title, "dueDate": dueDate},
	}, nil
}

func configString(config map[string]any, key string) string {
	s, _ := config[key].(string)

	return s
}
