package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/crmflow/crmflow/pkg/models"
	"github.com/crmflow/crmflow/pkg/store"
)

// History queries past execution records and computes summary
// statistics.
type History struct {
	store  store.EntityStore
	logger *slog.Logger
}

func NewHistory(entityStore store.EntityStore, logger *slog.Logger) *History {
	return &History{
		store:  entityStore,
		logger: logger,
	}
}

// Executions lists a workflow's execution records, most recent first,
// with context and result payloads deserialized.
func (h *History) Executions(ctx context.Context, workflowID string) ([]*models.WorkflowExecution, error) {
	recs, err := h.store.List(ctx, store.EntityExecution, store.ListOptions{
		Filter:   map[string]any{"workflowId": workflowID},
		SortBy:   "startedAt",
		SortDesc: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list executions for workflow %s: %w", workflowID, err)
	}

	executions := make([]*models.WorkflowExecution, 0, len(recs))
	for _, rec := range recs {
		executions = append(executions, executionFromRecord(rec, h.logger))
	}

	return executions, nil
}

// Analytics summarizes a workflow's execution history, optionally
// restricted to a start-time range. Success rate is a percentage rounded
// to one decimal, and zero when there are no executions.
func (h *History) Analytics(ctx context.Context, workflowID string, from, to *time.Time) (*models.WorkflowAnalytics, error) {
	executions, err := h.Executions(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	analytics := &models.WorkflowAnalytics{
		ExecutionsByDay: map[string]int{},
	}

	var totalDuration time.Duration

	var finished int

	for _, execution := range executions {
		if from != nil && execution.StartedAt.Before(*from) {
			continue
		}

		if to != nil && execution.StartedAt.After(*to) {
			continue
		}

		analytics.TotalExecutions++
		analytics.ExecutionsByDay[execution.StartedAt.Format("2006-01-02")]++

		switch execution.Status {
		case models.ExecutionStatusCompleted:
			analytics.SuccessfulExecutions++
		case models.ExecutionStatusFailed:
			analytics.FailedExecutions++
		case models.ExecutionStatusRunning:
			// Still in flight; counted in totals only.
		}

		if execution.CompletedAt != nil {
			totalDuration += execution.CompletedAt.Sub(execution.StartedAt)
			finished++
		}
	}

	if analytics.TotalExecutions > 0 {
		rate := float64(analytics.SuccessfulExecutions) / float64(analytics.TotalExecutions) * 100
		analytics.SuccessRate = math.Round(rate*10) / 10
	}

	if finished > 0 {
		analytics.AverageExecutionTime = totalDuration.Seconds() / float64(finished)
	}

	return analytics, nil
}
