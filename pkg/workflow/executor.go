package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/crmflow/crmflow/pkg/eventbus"
	"github.com/crmflow/crmflow/pkg/events"
	"github.com/crmflow/crmflow/pkg/metrics"
	"github.com/crmflow/crmflow/pkg/models"
	"github.com/crmflow/crmflow/pkg/otelhelper"
	"github.com/crmflow/crmflow/pkg/store"
)

// Executor drives one workflow run: it loads the definition, records the
// execution, runs the pipeline and finalizes the record with the
// terminal status and result payload.
type Executor struct {
	store     store.EntityStore
	pipeline  *Pipeline
	publisher eventbus.EventPublisher
	metrics   *metrics.Metrics
	tracer    trace.Tracer
	logger    *slog.Logger
}

func NewExecutor(
	entityStore store.EntityStore,
	pipeline *Pipeline,
	publisher eventbus.EventPublisher,
	m *metrics.Metrics,
	tracer trace.Tracer,
	logger *slog.Logger,
) *Executor {
	return &Executor{
		store:     entityStore,
		pipeline:  pipeline,
		publisher: publisher,
		metrics:   m,
		tracer:    tracer,
		logger:    logger,
	}
}

// Execute runs a workflow against the caller-supplied context and
// resolves to the terminal execution record. It returns an error only
// when the workflow cannot be executed at all (missing, inactive) or the
// execution record itself cannot be created or finalized; action
// failures are part of the result, never an error.
//
// Concurrent calls for the same workflow produce independent execution
// records; the engine imposes no deduplication.
func (e *Executor) Execute(ctx context.Context, workflowID string, contextData map[string]any) (*models.WorkflowExecution, error) {
	logger := e.logger.With("workflow_id", workflowID)

	rec, err := e.store.Get(ctx, store.EntityWorkflow, workflowID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrWorkflowNotFound
		}

		return nil, fmt.Errorf("failed to fetch workflow %s: %w", workflowID, err)
	}

	wf := workflowFromRecord(rec, logger)
	if !wf.IsActive {
		return nil, ErrWorkflowInactive
	}

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.execute",
		attribute.String(otelhelper.WorkflowIDKey, wf.ID),
		attribute.String(otelhelper.WorkflowNameKey, wf.Name),
		attribute.String(otelhelper.TriggerTypeKey, wf.TriggerType),
	)
	defer span.End()

	if contextData == nil {
		contextData = map[string]any{}
	}

	execution := &models.WorkflowExecution{
		WorkflowID: wf.ID,
		Status:     models.ExecutionStatusRunning,
		Context:    contextData,
		StartedAt:  time.Now().UTC(),
	}

	execRec, err := e.store.Create(ctx, store.EntityExecution, executionToRecord(execution))
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to create execution record: %w", err)
	}

	execution.ID, _ = execRec["id"].(string)
	span.SetAttributes(attribute.String(otelhelper.ExecutionIDKey, execution.ID))

	logger = logger.With("execution_id", execution.ID)
	logger.Info("Starting workflow execution", "workflow_name", wf.Name)

	e.metrics.ExecutionsStarted.Inc()
	e.publish(ctx, execution.WorkflowID, events.ExecutionStarted{
		BaseEvent:   e.baseEvent(events.ExecutionStartedEvent, wf.ID),
		ExecutionID: execution.ID,
		Context:     contextData,
	}, logger)

	execCtx := models.ExecutionContext{
		ExecutionID: execution.ID,
		WorkflowID:  wf.ID,
		Data:        contextData,
	}

	result := e.pipeline.Run(ctx, wf.Actions, execCtx, logger)

	for _, actionResult := range result.Results {
		if !actionResult.Success {
			e.metrics.ActionFailures.WithLabelValues(actionResult.Type).Inc()
		}
	}

	completedAt := time.Now().UTC()
	execution.Result = result
	execution.CompletedAt = &completedAt

	if result.Success {
		execution.Status = models.ExecutionStatusCompleted
	} else {
		execution.Status = models.ExecutionStatusFailed
	}

	_, err = e.store.Update(ctx, store.EntityExecution, execution.ID, executionToRecord(execution))
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to finalize execution %s: %w", execution.ID, err)
	}

	duration := completedAt.Sub(execution.StartedAt)
	e.metrics.ExecutionsFinished.WithLabelValues(string(execution.Status)).Inc()
	e.metrics.ExecutionDuration.Observe(duration.Seconds())

	if result.Success {
		logger.Info("Workflow execution completed", "duration", duration)
		e.publish(ctx, wf.ID, events.ExecutionCompleted{
			BaseEvent:   e.baseEvent(events.ExecutionCompletedEvent, wf.ID),
			ExecutionID: execution.ID,
			Result:      result,
			Duration:    duration,
		}, logger)
	} else {
		logger.Warn("Workflow execution failed", "error", result.Error, "duration", duration)
		e.publish(ctx, wf.ID, events.ExecutionFailed{
			BaseEvent:   e.baseEvent(events.ExecutionFailedEvent, wf.ID),
			ExecutionID: execution.ID,
			Result:      result,
			Error:       result.Error,
			Duration:    duration,
		}, logger)
	}

	return execution, nil
}

// publish is best-effort: a bus outage must not fail a run whose record
// is already persisted.
func (e *Executor) publish(ctx context.Context, key string, event eventbus.Event, logger *slog.Logger) {
	if e.publisher == nil {
		return
	}

	err := e.publisher.Publish(ctx, key, event)
	if err != nil {
		logger.Warn("Failed to publish execution event", "event_type", event.GetType(), "error", err)
	}
}

func (e *Executor) baseEvent(eventType events.EventType, workflowID string) events.BaseEvent {
	return events.BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
	}
}
