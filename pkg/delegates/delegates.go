// Package delegates provides the default outbound collaborator
// implementations. Delegated actions (send_email, schedule_meeting,
// assign_to_user, add_to_list) do not talk to mail or calendar systems
// directly; they publish intent events that downstream integrations
// consume off the bus.
package delegates

import (
	"context"
	"time"

	"github.com/crmflow/crmflow/pkg/eventbus"
	"github.com/crmflow/crmflow/pkg/events"
)

// EventBridge implements every protocol collaborator by publishing the
// matching intent event.
type EventBridge struct {
	bus eventbus.EventBus
}

func NewEventBridge(bus eventbus.EventBus) *EventBridge {
	return &EventBridge{bus: bus}
}

func (b *EventBridge) SendEmail(ctx context.Context, to, subject, body string) error {
	event := events.EmailRequested{
		BaseEvent: b.base(events.EmailRequestedEvent),
		To:        to,
		Subject:   subject,
		Body:      body,
	}

	return b.bus.Publish(ctx, to, event)
}

func (b *EventBridge) ScheduleMeeting(ctx context.Context, title string, startsAt string, attendees []string) error {
	event := events.MeetingRequested{
		BaseEvent: b.base(events.MeetingRequestedEvent),
		Title:     title,
		StartsAt:  startsAt,
		Attendees: attendees,
	}

	return b.bus.Publish(ctx, title, event)
}

func (b *EventBridge) AssignToUser(ctx context.Context, entityType, entityID, userID string) error {
	event := events.AssignmentRequested{
		BaseEvent:  b.base(events.AssignmentRequestedEvent),
		EntityType: entityType,
		EntityID:   entityID,
		UserID:     userID,
	}

	return b.bus.Publish(ctx, entityID, event)
}

func (b *EventBridge) AddToList(ctx context.Context, listID, entityType, entityID string) error {
	event := events.ListAddRequested{
		BaseEvent:  b.base(events.ListAddRequestedEvent),
		ListID:     listID,
		EntityType: entityType,
		EntityID:   entityID,
	}

	return b.bus.Publish(ctx, listID, event)
}

func (b *EventBridge) base(eventType events.EventType) events.BaseEvent {
	return events.BaseEvent{
		ID:        b.bus.GenerateID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
	}
}
