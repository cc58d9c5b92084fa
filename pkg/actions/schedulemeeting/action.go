// Package schedulemeeting implements the schedule_meeting action.
// Scheduling is delegated to the Calendar collaborator.
package schedulemeeting

import (
	"context"
	"log/slog"

	"github.com/crmflow/crmflow/pkg/models"
	"github.com/crmflow/crmflow/pkg/protocol"
)

const actionType = "schedule_meeting"

const defaultTitle = "Meeting"

type ActionFactory struct {
	calendar protocol.Calendar
}

func NewActionFactory(deps protocol.Dependencies) *ActionFactory {
	return &ActionFactory{calendar: deps.Calendar}
}

func (*ActionFactory) ID() string {
	return actionType
}

func (*ActionFactory) Name() string {
	return "Schedule Meeting"
}

func (*ActionFactory) Description() string {
	return "Schedules a meeting through the configured calendar collaborator."
}

func (f *ActionFactory) Create(config map[string]any) (protocol.Action, error) {
	if config == nil {
		config = map[string]any{}
	}

	title, _ := config["title"].(string)
	startsAt, _ := config["startsAt"].(string)

	var attendees []string

	if raw, ok := config["attendees"].([]any); ok {
		for _, v := range raw {
			if s, ok := v.(string); ok {
				attendees = append(attendees, s)
			}
		}
	}

	return &Action{calendar: f.calendar, title: title, startsAt: startsAt, attendees: attendees}, nil
}

func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":    "string",
				"default": defaultTitle,
			},
			"startsAt": map[string]any{
				"type":        "string",
				"description": "RFC 3339 start time",
			},
			"attendees": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
	}
}

type Action struct {
	calendar  protocol.Calendar
	title     string
	startsAt  string
	attendees []string
}

func (a *Action) Execute(ctx context.Context, execCtx models.ExecutionContext, logger *slog.Logger) (*models.ActionResult, error) {
	title := a.title
	if title == "" {
		title = defaultTitle
	}

	attendees := a.attendees
	if len(attendees) == 0 {
		if email := execCtx.String("userEmail"); email != "" {
			attendees = []string{email}
		}
	}

	err := a.calendar.ScheduleMeeting(ctx, title, a.startsAt, attendees)
	if err != nil {
		logger.Warn("Failed to schedule meeting", "title", title, "error", err)

		return &models.ActionResult{Type: actionType, Success: false, Error: err.Error()}, nil
	}

	logger.Info("Requested meeting", "title", title, "starts_at", a.startsAt)

	return &models.ActionResult{
		Type:    actionType,
		Success: true,
		Data:    map[string]any{"title": title, "startsAt": a.startsAt},
	}, nil
}
