package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmflow/crmflow/pkg/cmd"
	"github.com/crmflow/crmflow/pkg/models"
	"github.com/crmflow/crmflow/pkg/store/memory"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	entityStore := memory.NewStore()
	eventBus := cmd.NewEventBus("gochannel", "crmflow-api-test", slog.Default())

	t.Cleanup(func() {
		_ = eventBus.Close()
		_ = entityStore.Close(t.Context())
	})

	api, err := NewAPI(t.Context(), slog.Default(), entityStore, eventBus)
	require.NoError(t, err)

	return api.App()
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	defer func() { _ = resp.Body.Close() }()

	err := json.NewDecoder(resp.Body).Decode(out)
	require.NoError(t, err)
}

func workflowPayload() map[string]any {
	return map[string]any{
		"name":         "Lead Nurture",
		"trigger_type": "record_created",
		"is_active":    true,
		"actions": []map[string]any{
			{"type": "create_task", "config": map[string]any{"title": "Call the lead"}},
		},
	}
}

func TestAPI_RootEndpoint(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "crmflow API", string(body))
}

func TestAPI_HealthCheck(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var health map[string]any

	decodeJSON(t, resp, &health)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", health["status"])
}

func TestAPI_CreateWorkflow(t *testing.T) {
	app := setupTestApp(t)

	resp := postJSON(t, app, "/workflows", workflowPayload())

	var created models.Workflow

	decodeJSON(t, resp, &created)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Lead Nurture", created.Name)
	assert.Equal(t, "General", created.Category)
}

func TestAPI_CreateWorkflow_InvalidDefinition(t *testing.T) {
	app := setupTestApp(t)

	resp := postJSON(t, app, "/workflows", map[string]any{"description": "no name, no actions"})

	var problem map[string]any

	decodeJSON(t, resp, &problem)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errorsField, ok := problem["errors"].([]any)
	require.True(t, ok)
	assert.Contains(t, errorsField, "workflow name is required")
	assert.Contains(t, errorsField, "trigger type is required")
	assert.Contains(t, errorsField, "workflow must have at least one action")
}

func TestAPI_GetWorkflow_NotFound(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/workflows/missing", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_WorkflowLifecycle(t *testing.T) {
	app := setupTestApp(t)

	// Create.
	resp := postJSON(t, app, "/workflows", workflowPayload())

	var created models.Workflow

	decodeJSON(t, resp, &created)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// List.
	req := httptest.NewRequest(http.MethodGet, "/workflows", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var workflows []models.Workflow

	decodeJSON(t, resp, &workflows)
	require.Len(t, workflows, 1)
	assert.Equal(t, created.ID, workflows[0].ID)

	// Update.
	payload := workflowPayload()
	payload["name"] = "Lead Nurture v2"

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPut, "/workflows/"+created.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)

	var updated models.Workflow

	decodeJSON(t, resp, &updated)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Lead Nurture v2", updated.Name)

	// Delete.
	req = httptest.NewRequest(http.MethodDelete, "/workflows/"+created.ID, nil)
	resp, err = app.Test(req)
	require.NoError(t, err)

	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Gone.
	req = httptest.NewRequest(http.MethodGet, "/workflows/"+created.ID, nil)
	resp, err = app.Test(req)
	require.NoError(t, err)

	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_ValidateWorkflow(t *testing.T) {
	app := setupTestApp(t)

	resp := postJSON(t, app, "/workflows/validate", map[string]any{
		"name":         "",
		"trigger_type": "manual",
		"actions": []map[string]any{
			{"type": "create_task"},
		},
	})

	var result map[string]any

	decodeJSON(t, resp, &result)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, result["is_valid"])
}

func TestAPI_ValidateWorkflow_ActionConfigIssues(t *testing.T) {
	app := setupTestApp(t)

	// update_contact requires an updates object; the definition itself is
	// valid, so is_valid stays true and the schema problem is advisory.
	resp := postJSON(t, app, "/workflows/validate", map[string]any{
		"name":         "Contact Cleanup",
		"trigger_type": "manual",
		"actions": []map[string]any{
			{"type": "update_contact", "config": map[string]any{}},
		},
	})

	var result map[string]any

	decodeJSON(t, resp, &result)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, result["is_valid"])

	issues, ok := result["action_issues"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, issues, "0:update_contact")
}

func TestAPI_ExecuteWorkflow(t *testing.T) {
	app := setupTestApp(t)

	resp := postJSON(t, app, "/workflows", workflowPayload())

	var created models.Workflow

	decodeJSON(t, resp, &created)

	resp = postJSON(t, app, "/workflows/"+created.ID+"/execute", map[string]any{
		"context": map[string]any{"userId": "u-1"},
	})

	var execution models.WorkflowExecution

	decodeJSON(t, resp, &execution)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, models.ExecutionStatusCompleted, execution.Status)
	require.NotNil(t, execution.Result)
	assert.True(t, execution.Result.Success)
}

func TestAPI_ExecuteWorkflow_Inactive(t *testing.T) {
	app := setupTestApp(t)

	payload := workflowPayload()
	payload["is_active"] = false

	resp := postJSON(t, app, "/workflows", payload)

	var created models.Workflow

	decodeJSON(t, resp, &created)

	resp = postJSON(t, app, "/workflows/"+created.ID+"/execute", map[string]any{})

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPI_ExecutionsAndAnalytics(t *testing.T) {
	app := setupTestApp(t)

	resp := postJSON(t, app, "/workflows", workflowPayload())

	var created models.Workflow

	decodeJSON(t, resp, &created)

	for range 2 {
		resp = postJSON(t, app, "/workflows/"+created.ID+"/execute", map[string]any{
			"context": map[string]any{"userId": "u-1"},
		})
		_ = resp.Body.Close()
	}

	req := httptest.NewRequest(http.MethodGet, "/workflows/"+created.ID+"/executions", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var executions []models.WorkflowExecution

	decodeJSON(t, resp, &executions)
	assert.Len(t, executions, 2)

	req = httptest.NewRequest(http.MethodGet, "/workflows/"+created.ID+"/analytics", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)

	var analytics models.WorkflowAnalytics

	decodeJSON(t, resp, &analytics)
	assert.Equal(t, 2, analytics.TotalExecutions)
	assert.Equal(t, 2, analytics.SuccessfulExecutions)
	assert.InDelta(t, 100.0, analytics.SuccessRate, 0.001)
}

func TestAPI_Analytics_BadTimeRange(t *testing.T) {
	app := setupTestApp(t)

	resp := postJSON(t, app, "/workflows", workflowPayload())

	var created models.Workflow

	decodeJSON(t, resp, &created)

	req := httptest.NewRequest(http.MethodGet, "/workflows/"+created.ID+"/analytics?from=notatime", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_ListActionTypes(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/actions", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var catalog []map[string]any

	decodeJSON(t, resp, &catalog)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, catalog, 9)

	types := make([]string, 0, len(catalog))
	for _, entry := range catalog {
		entryType, _ := entry["type"].(string)
		types = append(types, entryType)
	}

	assert.Contains(t, types, "create_task")
	assert.Contains(t, types, "send_email")
	assert.Contains(t, types, "update_deal_stage")
}
