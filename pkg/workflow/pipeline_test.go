package workflow

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/crmflow/crmflow/pkg/actions/createtask"
	"github.com/crmflow/crmflow/pkg/actions/updatedealstage"
	"github.com/crmflow/crmflow/pkg/models"
	"github.com/crmflow/crmflow/pkg/protocol"
	"github.com/crmflow/crmflow/pkg/registry"
	"github.com/crmflow/crmflow/pkg/store"
	"github.com/crmflow/crmflow/pkg/store/memory"
)

func newTestPipeline(entityStore *memory.Store) *Pipeline {
	reg := registry.NewRegistry(slog.Default())
	reg.RegisterAction(createtask.NewActionFactory(protocol.Dependencies{Store: entityStore}))
	reg.RegisterAction(updatedealstage.NewActionFactory(protocol.Dependencies{Store: entityStore}))

	return NewPipeline(reg, noop.NewTracerProvider().Tracer("test"))
}

func TestPipeline_Run_AllActionsSucceed(t *testing.T) {
	entityStore := memory.NewStore()
	pipeline := newTestPipeline(entityStore)

	actions := []models.Action{
		{Type: "create_task", Config: map[string]any{"title": "First"}},
		{Type: "create_task", Config: map[string]any{"title": "Second"}},
	}

	result := pipeline.Run(t.Context(), actions, models.ExecutionContext{
		Data: map[string]any{"userId": "u-1"},
	}, slog.Default())

	assert.True(t, result.Success)
	assert.Empty(t, result.Error)
	require.Len(t, result.Results, 2)

	for _, actionResult := range result.Results {
		assert.True(t, actionResult.Success)
		assert.Equal(t, "create_task", actionResult.Type)
	}
}

func TestPipeline_Run_CriticalFailureHalts(t *testing.T) {
	entityStore := memory.NewStore()
	pipeline := newTestPipeline(entityStore)

	// No dealId in context, so the first action fails; being critical it
	// halts the run before the second action executes.
	actions := []models.Action{
		{Type: "update_deal_stage", Config: map[string]any{"stage": "Won"}, Critical: true},
		{Type: "create_task"},
	}

	result := pipeline.Run(t.Context(), actions, models.ExecutionContext{}, slog.Default())

	assert.False(t, result.Success)
	assert.Equal(t, "Critical action failed: update_deal_stage", result.Error)
	require.Len(t, result.Results, 1)
	assert.False(t, result.Results[0].Success)
	assert.Equal(t, "Deal ID not provided in context", result.Results[0].Error)

	// The second action never ran.
	tasks, err := entityStore.List(t.Context(), store.EntityTask, store.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestPipeline_Run_NonCriticalFailureTolerated(t *testing.T) {
	entityStore := memory.NewStore()
	pipeline := newTestPipeline(entityStore)

	actions := []models.Action{
		{Type: "update_deal_stage", Config: map[string]any{"stage": "Won"}},
		{Type: "create_task"},
	}

	result := pipeline.Run(t.Context(), actions, models.ExecutionContext{}, slog.Default())

	assert.True(t, result.Success)
	require.Len(t, result.Results, 2)
	assert.False(t, result.Results[0].Success)
	assert.True(t, result.Results[1].Success)
}

func TestPipeline_Run_UnknownActionType(t *testing.T) {
	entityStore := memory.NewStore()
	pipeline := newTestPipeline(entityStore)

	actions := []models.Action{
		{Type: "launch_rocket"},
		{Type: "create_task"},
	}

	result := pipeline.Run(t.Context(), actions, models.ExecutionContext{}, slog.Default())

	assert.True(t, result.Success)
	require.Len(t, result.Results, 2)
	assert.False(t, result.Results[0].Success)
	assert.Equal(t, "Unknown action type: launch_rocket", result.Results[0].Error)
	assert.True(t, result.Results[1].Success)
}

func TestPipeline_Run_UnknownCriticalActionTypeHalts(t *testing.T) {
	entityStore := memory.NewStore()
	pipeline := newTestPipeline(entityStore)

	actions := []models.Action{
		{Type: "launch_rocket", Critical: true},
		{Type: "create_task"},
	}

	result := pipeline.Run(t.Context(), actions, models.ExecutionContext{}, slog.Default())

	assert.False(t, result.Success)
	assert.Equal(t, "Critical action failed: launch_rocket", result.Error)
	assert.Len(t, result.Results, 1)
}

func TestPipeline_Run_EmptyActionList(t *testing.T) {
	pipeline := newTestPipeline(memory.NewStore())

	result := pipeline.Run(t.Context(), nil, models.ExecutionContext{}, slog.Default())

	assert.True(t, result.Success)
	assert.Empty(t, result.Results)
}
