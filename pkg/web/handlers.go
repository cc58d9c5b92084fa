package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/crmflow/crmflow/pkg/registry"
	"github.com/crmflow/crmflow/pkg/workflow"
)

type APIHandlers struct {
	service   *workflow.Service
	executor  *workflow.Executor
	history   *workflow.History
	registry  *registry.Registry
	validator *validator.Validate
}

func NewAPIHandlers(
	service *workflow.Service,
	executor *workflow.Executor,
	history *workflow.History,
	reg *registry.Registry,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		service:   service,
		executor:  executor,
		history:   history,
		registry:  reg,
		validator: validator,
	}
}

func (h *APIHandlers) ListWorkflows(c fiber.Ctx) error {
	workflows, err := h.service.List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(workflows)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	wf, err := h.service.Fetch(c.Context(), id)
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(wf)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	req, err := h.bindWorkflowRequest(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.service.Create(c.Context(), req.ToModel())
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	req, err := h.bindWorkflowRequest(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.service.Update(c.Context(), id, req.ToModel())
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	_, err := h.service.Delete(c.Context(), id)
	if err != nil {
		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ValidateWorkflow dry-runs definition validation without persisting,
// including per-action config schema checks. A definition with unknown
// action types or config issues is still saveable; the issues are
// advisory.
func (h *APIHandlers) ValidateWorkflow(c fiber.Ctx) error {
	req, err := h.bindWorkflowRequest(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	result := workflow.Validate(req.ToModel())
	resp := ValidateResponse{
		IsValid: result.IsValid,
		Errors:  result.Errors,
	}

	for i, action := range req.Actions {
		issues, err := h.registry.ValidateActionConfig(action.Type, action.Config)
		if err != nil || len(issues) == 0 {
			continue
		}

		if resp.ActionIssues == nil {
			resp.ActionIssues = map[string][]string{}
		}

		key := fmt.Sprintf("%d:%s", i, action.Type)
		resp.ActionIssues[key] = issues
	}

	return c.JSON(resp)
}

func (h *APIHandlers) ExecuteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req ExecuteRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	execution, err := h.executor.Execute(c.Context(), id, req.Context)
	if err != nil {
		return handleEngineError(c, err)
	}

	return c.JSON(execution)
}

func (h *APIHandlers) ListExecutions(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	executions, err := h.history.Executions(c.Context(), id)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(executions)
}

func (h *APIHandlers) GetAnalytics(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return badRequest(c, "Invalid 'from' timestamp: "+err.Error())
	}

	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return badRequest(c, "Invalid 'to' timestamp: "+err.Error())
	}

	analytics, err := h.history.Analytics(c.Context(), id, from, to)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(analytics)
}

// ListActionTypes returns the registered action catalog with config
// schemas, for builder UIs.
func (h *APIHandlers) ListActionTypes(c fiber.Ctx) error {
	types := h.registry.ActionTypes()

	catalog := make([]ActionTypeResponse, 0, len(types))

	for _, actionType := range types {
		factory, ok := h.registry.Factory(actionType)
		if !ok {
			continue
		}

		catalog = append(catalog, ActionTypeResponse{
			Type:        factory.ID(),
			Name:        factory.Name(),
			Description: factory.Description(),
			Schema:      factory.Schema(),
		})
	}

	return c.JSON(catalog)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	registryCheck, regOk := h.registry.HealthCheck()
	storeCheck, storeOk := h.service.HealthCheck(c.Context())

	status := "unhealthy"
	httpStatus := http.StatusInternalServerError

	if regOk && storeOk {
		status = "healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"checkers": fiber.Map{
			"registry": registryCheck,
			"store":    storeCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) bindWorkflowRequest(c fiber.Ctx) (*WorkflowRequest, error) {
	var req WorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return nil, errors.New("Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return nil, err
	}

	return &req, nil
}

func parseTimeQuery(c fiber.Ctx, name string) (*time.Time, error) {
	value := c.Query(name)
	if value == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
