package protocol

import "context"

// Outbound collaborator contracts for actions that delegate their effect
// to external systems. The engine does not own mail, calendar, assignment
// or segmentation transports; the default implementations publish intent
// events for downstream consumers.

// Mailer sends email on behalf of a workflow action.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// Calendar schedules meetings on behalf of a workflow action.
type Calendar interface {
	ScheduleMeeting(ctx context.Context, title string, startsAt string, attendees []string) error
}

// Directory assigns a CRM record to a user.
type Directory interface {
	AssignToUser(ctx context.Context, entityType, entityID, userID string) error
}

// Segments adds a CRM record to a list or segment.
type Segments interface {
	AddToList(ctx context.Context, listID, entityType, entityID string) error
}
