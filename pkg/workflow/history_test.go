package workflow

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmflow/crmflow/pkg/models"
	"github.com/crmflow/crmflow/pkg/store"
	"github.com/crmflow/crmflow/pkg/store/memory"
)

func seedExecution(t *testing.T, entityStore *memory.Store, workflowID string, status models.ExecutionStatus, startedAt time.Time, duration time.Duration) {
	t.Helper()

	execution := &models.WorkflowExecution{
		WorkflowID: workflowID,
		Status:     status,
		Context:    map[string]any{},
		StartedAt:  startedAt,
	}

	if status != models.ExecutionStatusRunning {
		completed := startedAt.Add(duration)
		execution.CompletedAt = &completed
		execution.Result = &models.PipelineResult{Success: status == models.ExecutionStatusCompleted}
	}

	_, err := entityStore.Create(t.Context(), store.EntityExecution, executionToRecord(execution))
	require.NoError(t, err)
}

func TestHistory_Executions_NewestFirst(t *testing.T) {
	entityStore := memory.NewStore()
	history := NewHistory(entityStore, slog.Default())

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	seedExecution(t, entityStore, "wf-1", models.ExecutionStatusCompleted, base, time.Second)
	seedExecution(t, entityStore, "wf-1", models.ExecutionStatusFailed, base.Add(time.Hour), time.Second)
	seedExecution(t, entityStore, "wf-2", models.ExecutionStatusCompleted, base, time.Second)

	executions, err := history.Executions(t.Context(), "wf-1")
	require.NoError(t, err)
	require.Len(t, executions, 2)

	// Only wf-1 records, most recent first.
	assert.Equal(t, models.ExecutionStatusFailed, executions[0].Status)
	assert.Equal(t, models.ExecutionStatusCompleted, executions[1].Status)
	assert.True(t, executions[0].StartedAt.After(executions[1].StartedAt))
}

func TestHistory_Executions_Empty(t *testing.T) {
	history := NewHistory(memory.NewStore(), slog.Default())

	executions, err := history.Executions(t.Context(), "wf-1")
	require.NoError(t, err)
	assert.Empty(t, executions)
}

func TestHistory_Analytics(t *testing.T) {
	entityStore := memory.NewStore()
	history := NewHistory(entityStore, slog.Default())

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	seedExecution(t, entityStore, "wf-1", models.ExecutionStatusCompleted, base, 2*time.Second)
	seedExecution(t, entityStore, "wf-1", models.ExecutionStatusCompleted, base.Add(time.Hour), 4*time.Second)
	seedExecution(t, entityStore, "wf-1", models.ExecutionStatusCompleted, base.Add(24*time.Hour), 2*time.Second)
	seedExecution(t, entityStore, "wf-1", models.ExecutionStatusFailed, base.Add(25*time.Hour), 4*time.Second)

	analytics, err := history.Analytics(t.Context(), "wf-1", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, analytics.TotalExecutions)
	assert.Equal(t, 3, analytics.SuccessfulExecutions)
	assert.Equal(t, 1, analytics.FailedExecutions)
	assert.InDelta(t, 75.0, analytics.SuccessRate, 0.001)
	assert.InDelta(t, 3.0, analytics.AverageExecutionTime, 0.001)
	assert.Equal(t, map[string]int{
		"2026-05-01": 2,
		"2026-05-02": 2,
	}, analytics.ExecutionsByDay)
}

func TestHistory_Analytics_NoExecutions(t *testing.T) {
	history := NewHistory(memory.NewStore(), slog.Default())

	analytics, err := history.Analytics(t.Context(), "wf-1", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, analytics.TotalExecutions)
	assert.Zero(t, analytics.SuccessRate)
	assert.Zero(t, analytics.AverageExecutionTime)
	assert.Empty(t, analytics.ExecutionsByDay)
}

func TestHistory_Analytics_SuccessRateRounding(t *testing.T) {
	entityStore := memory.NewStore()
	history := NewHistory(entityStore, slog.Default())

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	seedExecution(t, entityStore, "wf-1", models.ExecutionStatusCompleted, base, time.Second)
	seedExecution(t, entityStore, "wf-1", models.ExecutionStatusCompleted, base.Add(time.Minute), time.Second)
	seedExecution(t, entityStore, "wf-1", models.ExecutionStatusFailed, base.Add(2*time.Minute), time.Second)

	analytics, err := history.Analytics(t.Context(), "wf-1", nil, nil)
	require.NoError(t, err)

	// 2/3 rounds to one decimal.
	assert.InDelta(t, 66.7, analytics.SuccessRate, 0.001)
}

func TestHistory_Analytics_RangeFilter(t *testing.T) {
	entityStore := memory.NewStore()
	history := NewHistory(entityStore, slog.Default())

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	seedExecution(t, entityStore, "wf-1", models.ExecutionStatusCompleted, base, time.Second)
	seedExecution(t, entityStore, "wf-1", models.ExecutionStatusFailed, base.Add(48*time.Hour), time.Second)
	seedExecution(t, entityStore, "wf-1", models.ExecutionStatusCompleted, base.Add(96*time.Hour), time.Second)

	from := base.Add(24 * time.Hour)
	to := base.Add(72 * time.Hour)

	analytics, err := history.Analytics(t.Context(), "wf-1", &from, &to)
	require.NoError(t, err)

	assert.Equal(t, 1, analytics.TotalExecutions)
	assert.Equal(t, 1, analytics.FailedExecutions)
	assert.Zero(t, analytics.SuccessRate)
}

func TestHistory_Analytics_RunningExecutionsCountInTotalsOnly(t *testing.T) {
	entityStore := memory.NewStore()
	history := NewHistory(entityStore, slog.Default())

	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	seedExecution(t, entityStore, "wf-1", models.ExecutionStatusCompleted, base, time.Second)
	seedExecution(t, entityStore, "wf-1", models.ExecutionStatusRunning, base.Add(time.Minute), 0)

	analytics, err := history.Analytics(t.Context(), "wf-1", nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, analytics.TotalExecutions)
	assert.Equal(t, 1, analytics.SuccessfulExecutions)
	assert.Equal(t, 0, analytics.FailedExecutions)
	assert.InDelta(t, 50.0, analytics.SuccessRate, 0.001)
}
