// Package mocks provides testify mock implementations of the engine's
// collaborator interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/crmflow/crmflow/pkg/store"
)

// MockEntityStore is a mock implementation of store.EntityStore.
type MockEntityStore struct {
	mock.Mock
}

func (m *MockEntityStore) Create(ctx context.Context, entity string, fields store.Record) (store.Record, error) {
	args := m.Called(ctx, entity, fields)

	rec, _ := args.Get(0).(store.Record)

	return rec, args.Error(1)
}

func (m *MockEntityStore) Update(ctx context.Context, entity, id string, fields store.Record) (store.Record, error) {
	args := m.Called(ctx, entity, id, fields)

	rec, _ := args.Get(0).(store.Record)

	return rec, args.Error(1)
}

func (m *MockEntityStore) Get(ctx context.Context, entity, id string) (store.Record, error) {
	args := m.Called(ctx, entity, id)

	rec, _ := args.Get(0).(store.Record)

	return rec, args.Error(1)
}

func (m *MockEntityStore) Delete(ctx context.Context, entity, id string) (bool, error) {
	args := m.Called(ctx, entity, id)

	return args.Bool(0), args.Error(1)
}

func (m *MockEntityStore) List(ctx context.Context, entity string, opts store.ListOptions) ([]store.Record, error) {
	args := m.Called(ctx, entity, opts)

	recs, _ := args.Get(0).([]store.Record)

	return recs, args.Error(1)
}

func (m *MockEntityStore) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockEntityStore) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
