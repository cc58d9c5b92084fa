// Package models defines the core domain models for the CRM workflow engine.
package models

import "time"

// TriggerType identifies what starts a workflow.
type TriggerType = string

const (
	TriggerManual        TriggerType = "manual"
	TriggerRecordCreated TriggerType = "record_created"
	TriggerRecordUpdated TriggerType = "record_updated"
	TriggerFormSubmitted TriggerType = "form_submitted"
	TriggerSchedule      TriggerType = "schedule"
)

// DefaultCategory is applied when a workflow is created without one.
const DefaultCategory = "General"

// Workflow is a persisted definition of a trigger and an ordered list of
// actions. Nodes and Connections carry the visual graph for builder UIs;
// the execution path never interprets them.
type Workflow struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"               validate:"required"`
	Description       string           `json:"description"`
	TriggerType       string           `json:"trigger_type"       validate:"required"`
	TriggerConditions map[string]any   `json:"trigger_conditions"`
	Actions           []Action         `json:"actions"            validate:"required,min=1"`
	Nodes             []map[string]any `json:"nodes"`
	Connections       []map[string]any `json:"connections"`
	IsActive          bool             `json:"is_active"`
	Category          string           `json:"category"`
	CreatedBy         string           `json:"created_by"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// Action is a single typed operation with configuration, executed as part
// of a workflow run. A critical action that fails halts the remainder of
// the pipeline.
type Action struct {
	Type     string         `json:"type"   validate:"required"`
	Config   map[string]any `json:"config"`
	Critical bool           `json:"critical"`
}
