package models

import "time"

// ExecutionStatus is the lifecycle state of a workflow execution.
type ExecutionStatus string

const (
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// WorkflowExecution records one run of a workflow against a given context.
// It is created in the running state before the first action executes and
// mutated exactly once more, to a terminal state with the pipeline result.
type WorkflowExecution struct {
	ID          string          `json:"id"`
	WorkflowID  string          `json:"workflow_id"`
	Status      ExecutionStatus `json:"status"`
	Context     map[string]any  `json:"context"`
	Result      *PipelineResult `json:"result,omitempty"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// ActionResult is the uniform outcome of a single action. Handler-level
// failures (missing context ids, store errors, unknown types) are carried
// here rather than raised.
type ActionResult struct {
	Type    string         `json:"type"`
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// PipelineResult aggregates the per-action results of one run. Success
// means no critical-halting failure occurred; non-critical failures are
// tolerated and surfaced only in Results.
type PipelineResult struct {
	Success bool           `json:"success"`
	Results []ActionResult `json:"results"`
	Error   string         `json:"error,omitempty"`
}

// ExecutionContext is passed to every action in a run. Data holds the
// caller-supplied payload (ids of the record that triggered the workflow,
// the acting user, and so on).
type ExecutionContext struct {
	ExecutionID string         `json:"execution_id"`
	WorkflowID  string         `json:"workflow_id"`
	Data        map[string]any `json:"data,omitempty"`
}

// String returns the string value for key in Data, or empty when absent
// or not a string.
func (c ExecutionContext) String(key string) string {
	if c.Data == nil {
		return ""
	}

	s, _ := c.Data[key].(string)

	return s
}

// WorkflowAnalytics summarizes the execution history of one workflow.
type WorkflowAnalytics struct {
	TotalExecutions      int            `json:"total_executions"`
	SuccessfulExecutions int            `json:"successful_executions"`
	FailedExecutions     int            `json:"failed_executions"`
	SuccessRate          float64        `json:"success_rate"`
	AverageExecutionTime float64        `json:"average_execution_time"`
	ExecutionsByDay      map[string]int `json:"executions_by_day"`
}
