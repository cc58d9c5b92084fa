// Package web provides HTTP handlers and request/response types for the
// workflow engine API.
package web

import "github.com/crmflow/crmflow/pkg/models"

// WorkflowRequest is the request body for creating or replacing a
// workflow definition. The engine's own Validate is the source of truth
// for definition rules; the struct tags reject malformed payloads before
// they reach it.
type WorkflowRequest struct {
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	TriggerType       string           `json:"trigger_type"`
	TriggerConditions map[string]any   `json:"trigger_conditions"`
	Actions           []ActionRequest  `json:"actions"`
	Nodes             []map[string]any `json:"nodes"`
	Connections       []map[string]any `json:"connections"`
	IsActive          bool             `json:"is_active"`
	Category          string           `json:"category"`
	CreatedBy         string           `json:"created_by"`
}

// ActionRequest is one action definition inside a workflow payload.
type ActionRequest struct {
	Type     string         `json:"type"     validate:"required"`
	Config   map[string]any `json:"config"`
	Critical bool           `json:"critical"`
}

// ExecuteRequest is the request body for running a workflow.
type ExecuteRequest struct {
	Context map[string]any `json:"context"`
}

// ValidateResponse reports definition validity plus per-action
// configuration schema problems.
type ValidateResponse struct {
	IsValid      bool                `json:"is_valid"`
	Errors       []string            `json:"errors"`
	ActionIssues map[string][]string `json:"action_issues,omitempty"`
}

// ActionTypeResponse describes one registered action type.
type ActionTypeResponse struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Schema      map[string]any `json:"schema"`
}

// ToModel converts the request payload into the engine's workflow model.
func (r *WorkflowRequest) ToModel() *models.Workflow {
	actions := make([]models.Action, 0, len(r.Actions))
	for _, a := range r.Actions {
		actions = append(actions, models.Action{
			Type:     a.Type,
			Config:   a.Config,
			Critical: a.Critical,
		})
	}

	return &models.Workflow{
		Name:              r.Name,
		Description:       r.Description,
		TriggerType:       r.TriggerType,
		TriggerConditions: r.TriggerConditions,
		Actions:           actions,
		Nodes:             r.Nodes,
		Connections:       r.Connections,
		IsActive:          r.IsActive,
		Category:          r.Category,
		CreatedBy:         r.CreatedBy,
	}
}
