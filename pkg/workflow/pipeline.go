package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/crmflow/crmflow/pkg/models"
	"github.com/crmflow/crmflow/pkg/otelhelper"
	"github.com/crmflow/crmflow/pkg/registry"
)

// Pipeline runs a workflow's ordered action list sequentially. Order is
// significant: this is an interpreter, not a scheduler, and no two
// actions of one run execute concurrently.
type Pipeline struct {
	registry *registry.Registry
	tracer   trace.Tracer
}

func NewPipeline(reg *registry.Registry, tracer trace.Tracer) *Pipeline {
	return &Pipeline{
		registry: reg,
		tracer:   tracer,
	}
}

// Run executes each action in definition order. A failing action whose
// critical flag is set halts the run immediately; non-critical failures
// are recorded and tolerated. Overall success means no critical halt
// occurred, not that every action succeeded.
func (p *Pipeline) Run(ctx context.Context, actions []models.Action, execCtx models.ExecutionContext, logger *slog.Logger) *models.PipelineResult {
	results := make([]models.ActionResult, 0, len(actions))

	for i, action := range actions {
		actionLogger := logger.With(
			"action_type", action.Type,
			"action_index", i,
			"action_critical", action.Critical,
		)

		result := p.runAction(ctx, action, execCtx, actionLogger)
		results = append(results, result)

		if !result.Success && action.Critical {
			actionLogger.Warn("Critical action failed, halting pipeline", "error", result.Error)

			return &models.PipelineResult{
				Success: false,
				Results: results,
				Error:   "Critical action failed: " + action.Type,
			}
		}
	}

	return &models.PipelineResult{Success: true, Results: results}
}

func (p *Pipeline) runAction(ctx context.Context, action models.Action, execCtx models.ExecutionContext, logger *slog.Logger) models.ActionResult {
	ctx, span := otelhelper.StartSpan(ctx, p.tracer, "workflow.action",
		attribute.String(otelhelper.ActionTypeKey, action.Type),
		attribute.String(otelhelper.ExecutionIDKey, execCtx.ExecutionID),
	)
	defer span.End()

	impl, err := p.registry.CreateAction(action.Type, action.Config)
	if err != nil {
		message := err.Error()
		if errors.Is(err, registry.ErrUnknownActionType) {
			message = "Unknown action type: " + action.Type
		}

		otelhelper.SetError(span, err)
		logger.Warn("Failed to create action", "error", err)

		return models.ActionResult{Type: action.Type, Success: false, Error: message}
	}

	result, err := impl.Execute(ctx, execCtx, logger)
	if err != nil {
		// Unexpected error escaping the handler; contain it at the
		// action boundary like any other failure.
		otelhelper.SetError(span, err)
		logger.Error("Action returned unexpected error", "error", err)

		return models.ActionResult{Type: action.Type, Success: false, Error: err.Error()}
	}

	if result == nil {
		return models.ActionResult{Type: action.Type, Success: true}
	}

	if result.Type == "" {
		result.Type = action.Type
	}

	if !result.Success {
		otelhelper.SetError(span, fmt.Errorf("action %s failed: %s", action.Type, result.Error))
	}

	return *result
}
