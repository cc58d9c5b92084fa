// Package events defines event types published over the event bus for
// workflow execution lifecycle notifications and delegated action
// intents.
package events

import (
	"time"

	"github.com/crmflow/crmflow/pkg/models"
)

type EventType string

// Topic is the bus topic every engine event is published on.
const Topic = "crmflow.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Execution lifecycle events.
	ExecutionStartedEvent   EventType = "workflow.execution.started"
	ExecutionCompletedEvent EventType = "workflow.execution.completed"
	ExecutionFailedEvent    EventType = "workflow.execution.failed"

	// Delegated action intents, consumed by outbound integrations.
	EmailRequestedEvent      EventType = "crm.email.requested"
	MeetingRequestedEvent    EventType = "crm.meeting.requested"
	AssignmentRequestedEvent EventType = "crm.assignment.requested"
	ListAddRequestedEvent    EventType = "crm.list_add.requested"
)

type BaseEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	WorkflowID string    `json:"workflow_id,omitempty"`
}

type ExecutionStarted struct {
	BaseEvent

	ExecutionID string         `json:"execution_id"`
	Context     map[string]any `json:"context,omitempty"`
}

func (e ExecutionStarted) GetType() EventType {
	return ExecutionStartedEvent
}

type ExecutionCompleted struct {
	BaseEvent

	ExecutionID string                 `json:"execution_id"`
	Result      *models.PipelineResult `json:"result,omitempty"`
	Duration    time.Duration          `json:"duration"`
}

func (e ExecutionCompleted) GetType() EventType {
	return ExecutionCompletedEvent
}

type ExecutionFailed struct {
	BaseEvent

	ExecutionID string                 `json:"execution_id"`
	Result      *models.PipelineResult `json:"result,omitempty"`
	Error       string                 `json:"error"`
	Duration    time.Duration          `json:"duration"`
}

func (e ExecutionFailed) GetType() EventType {
	return ExecutionFailedEvent
}

type EmailRequested struct {
	BaseEvent

	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body,omitempty"`
}

func (e EmailRequested) GetType() EventType {
	return EmailRequestedEvent
}

type MeetingRequested struct {
	BaseEvent

	Title     string   `json:"title"`
	StartsAt  string   `json:"starts_at,omitempty"`
	Attendees []string `json:"attendees,omitempty"`
}

func (e MeetingRequested) GetType() EventType {
	return MeetingRequestedEvent
}

type AssignmentRequested struct {
	BaseEvent

	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	UserID     string `json:"user_id"`
}

func (e AssignmentRequested) GetType() EventType {
	return AssignmentRequestedEvent
}

type ListAddRequested struct {
	BaseEvent

	ListID     string `json:"list_id"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
}

func (e ListAddRequested) GetType() EventType {
	return ListAddRequestedEvent
}
