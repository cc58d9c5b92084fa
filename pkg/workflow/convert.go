package workflow

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/crmflow/crmflow/pkg/models"
	"github.com/crmflow/crmflow/pkg/store"
)

// This file is the serialization boundary between the engine's typed
// models and the entity store's generic records. Structured workflow
// fields (trigger conditions, actions, nodes, connections) and execution
// context/result are persisted as JSON strings. A malformed stored value
// must not make a record permanently unreadable: reads degrade to the
// empty default and log, they never fail.

func workflowToRecord(w *models.Workflow) store.Record {
	return store.Record{
		"name":              w.Name,
		"description":       w.Description,
		"triggerType":       w.TriggerType,
		"triggerConditions": marshalField(w.TriggerConditions, "{}"),
		"actions":           marshalField(w.Actions, "[]"),
		"nodes":             marshalField(w.Nodes, "[]"),
		"connections":       marshalField(w.Connections, "[]"),
		"isActive":          w.IsActive,
		"category":          w.Category,
		"createdBy":         w.CreatedBy,
	}
}

func workflowFromRecord(rec store.Record, logger *slog.Logger) *models.Workflow {
	w := &models.Workflow{
		TriggerConditions: map[string]any{},
		Actions:           []models.Action{},
		Nodes:             []map[string]any{},
		Connections:       []map[string]any{},
	}

	w.ID, _ = rec["id"].(string)
	w.Name, _ = rec["name"].(string)
	w.Description, _ = rec["description"].(string)
	w.TriggerType, _ = rec["triggerType"].(string)
	w.IsActive, _ = rec["isActive"].(bool)
	w.Category, _ = rec["category"].(string)
	w.CreatedBy, _ = rec["createdBy"].(string)
	w.CreatedAt = recordTime(rec["createdAt"])
	w.UpdatedAt = recordTime(rec["updatedAt"])

	unmarshalField(rec, "triggerConditions", &w.TriggerConditions, logger)
	unmarshalField(rec, "actions", &w.Actions, logger)
	unmarshalField(rec, "nodes", &w.Nodes, logger)
	unmarshalField(rec, "connections", &w.Connections, logger)

	return w
}

func executionToRecord(e *models.WorkflowExecution) store.Record {
	rec := store.Record{
		"workflowId":  e.WorkflowID,
		"status":      string(e.Status),
		"contextData": marshalField(e.Context, "{}"),
		"startedAt":   e.StartedAt.UTC().Format(time.RFC3339Nano),
	}

	if e.Result != nil {
		rec["resultData"] = marshalField(e.Result, "{}")
	}

	if e.CompletedAt != nil {
		rec["completedAt"] = e.CompletedAt.UTC().Format(time.RFC3339Nano)
	}

	return rec
}

func executionFromRecord(rec store.Record, logger *slog.Logger) *models.WorkflowExecution {
	e := &models.WorkflowExecution{
		Context: map[string]any{},
	}

	e.ID, _ = rec["id"].(string)
	e.WorkflowID, _ = rec["workflowId"].(string)

	status, _ := rec["status"].(string)
	e.Status = models.ExecutionStatus(status)

	e.StartedAt = recordTime(rec["startedAt"])

	if _, ok := rec["completedAt"]; ok {
		completed := recordTime(rec["completedAt"])
		if !completed.IsZero() {
			e.CompletedAt = &completed
		}
	}

	unmarshalField(rec, "contextData", &e.Context, logger)

	if _, ok := rec["resultData"]; ok {
		var result models.PipelineResult

		unmarshalField(rec, "resultData", &result, logger)
		e.Result = &result
	}

	return e
}

// marshalField serializes a structured value to its string storage form.
// Marshalling a nil map/slice yields "null"; callers get the documented
// empty default instead.
func marshalField(v any, empty string) string {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return empty
	}

	return string(data)
}

func unmarshalField(rec store.Record, key string, out any, logger *slog.Logger) {
	raw, ok := rec[key].(string)
	if !ok || raw == "" {
		return
	}

	err := json.Unmarshal([]byte(raw), out)
	if err != nil {
		logger.Warn("Failed to deserialize stored field, using empty default",
			"field", key, "error", err)
	}
}

func recordTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}
		}

		return parsed
	default:
		return time.Time{}
	}
}
