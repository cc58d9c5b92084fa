// Package workflow implements the CRM workflow engine: definition CRUD
// and validation, the sequential action pipeline with its critical-halt
// policy, and the execution history and analytics surface.
package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crmflow/crmflow/pkg/models"
	"github.com/crmflow/crmflow/pkg/store"
)

// Service persists and retrieves workflow definitions through the entity
// store, owning the serialization of structured fields.
type Service struct {
	store  store.EntityStore
	logger *slog.Logger
}

func NewService(entityStore store.EntityStore, logger *slog.Logger) *Service {
	return &Service{
		store:  entityStore,
		logger: logger,
	}
}

// HealthCheck reports the health of the underlying entity store.
func (s *Service) HealthCheck(ctx context.Context) (string, bool) {
	if s.store == nil {
		return "Entity store not initialized", false
	}

	err := s.store.HealthCheck(ctx)
	if err != nil {
		return "Entity store is unhealthy: " + err.Error(), false
	}

	return "Entity store is healthy", true
}

// Create validates the definition and persists it. The stored record
// carries the structured fields as serialized strings; the returned
// workflow is deserialized back for caller convenience.
func (s *Service) Create(ctx context.Context, w *models.Workflow) (*models.Workflow, error) {
	result := Validate(w)
	if !result.IsValid {
		return nil, &ValidationError{Errors: result.Errors}
	}

	applyDefaults(w)

	rec, err := s.store.Create(ctx, store.EntityWorkflow, workflowToRecord(w))
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	created := workflowFromRecord(rec, s.logger)
	s.logger.Info("Created workflow", "workflow_id", created.ID, "workflow_name", created.Name)

	return created, nil
}

// Update revalidates and reserializes the definition, stamping
// updatedAt. It fails with ErrWorkflowNotFound when the id does not
// resolve.
func (s *Service) Update(ctx context.Context, id string, w *models.Workflow) (*models.Workflow, error) {
	result := Validate(w)
	if !result.IsValid {
		return nil, &ValidationError{Errors: result.Errors}
	}

	applyDefaults(w)

	rec, err := s.store.Update(ctx, store.EntityWorkflow, id, workflowToRecord(w))
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrWorkflowNotFound
		}

		return nil, fmt.Errorf("failed to update workflow %s: %w", id, err)
	}

	return workflowFromRecord(rec, s.logger), nil
}

// Fetch loads and deserializes one workflow.
func (s *Service) Fetch(ctx context.Context, id string) (*models.Workflow, error) {
	rec, err := s.store.Get(ctx, store.EntityWorkflow, id)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrWorkflowNotFound
		}

		return nil, fmt.Errorf("failed to fetch workflow %s: %w", id, err)
	}

	return workflowFromRecord(rec, s.logger), nil
}

// List returns every workflow ordered by creation time descending.
func (s *Service) List(ctx context.Context) ([]*models.Workflow, error) {
	recs, err := s.store.List(ctx, store.EntityWorkflow, store.ListOptions{
		SortBy:   "createdAt",
		SortDesc: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	workflows := make([]*models.Workflow, 0, len(recs))
	for _, rec := range recs {
		workflows = append(workflows, workflowFromRecord(rec, s.logger))
	}

	return workflows, nil
}

// Delete removes the workflow. Deletion is idempotent on the happy path
// and does not cascade to execution history.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.store.Delete(ctx, store.EntityWorkflow, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	s.logger.Info("Deleted workflow", "workflow_id", id)

	return ok, nil
}

func applyDefaults(w *models.Workflow) {
	if w.Category == "" {
		w.Category = models.DefaultCategory
	}

	if w.TriggerConditions == nil {
		w.TriggerConditions = map[string]any{}
	}

	if w.Nodes == nil {
		w.Nodes = []map[string]any{}
	}

	if w.Connections == nil {
		w.Connections = []map[string]any{}
	}
}
