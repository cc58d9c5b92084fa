package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockMailer is a mock implementation of protocol.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)

	return args.Error(0)
}

// MockCalendar is a mock implementation of protocol.Calendar.
type MockCalendar struct {
	mock.Mock
}

func (m *MockCalendar) ScheduleMeeting(ctx context.Context, title string, startsAt string, attendees []string) error {
	args := m.Called(ctx, title, startsAt, attendees)

	return args.Error(0)
}

// MockDirectory is a mock implementation of protocol.Directory.
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) AssignToUser(ctx context.Context, entityType, entityID, userID string) error {
	args := m.Called(ctx, entityType, entityID, userID)

	return args.Error(0)
}

// MockSegments is a mock implementation of protocol.Segments.
type MockSegments struct {
	mock.Mock
}

func (m *MockSegments) AddToList(ctx context.Context, listID, entityType, entityID string) error {
	args := m.Called(ctx, listID, entityType, entityID)

	return args.Error(0)
}
