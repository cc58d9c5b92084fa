package workflow

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/crmflow/crmflow/pkg/models"
)

// ValidationResult reports every violated rule of a workflow definition.
type ValidationResult struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// Validate checks a workflow definition against the structural rules.
// It is pure, never fails, and is the single source of truth for
// validity; Create and Update reuse it.
func Validate(w *models.Workflow) ValidationResult {
	var errs []string

	if strings.TrimSpace(w.Name) == "" {
		errs = append(errs, "workflow name is required")
	}

	if w.TriggerType == "" {
		errs = append(errs, "trigger type is required")
	}

	if len(w.Actions) == 0 {
		errs = append(errs, "workflow must have at least one action")
	}

	if w.TriggerType == models.TriggerSchedule {
		errs = append(errs, validateCronCondition(w.TriggerConditions)...)
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

func validateCronCondition(conditions map[string]any) []string {
	expr, _ := conditions["cron"].(string)
	if expr == "" {
		return []string{"schedule trigger requires a cron condition"}
	}

	_, err := cron.ParseStandard(expr)
	if err != nil {
		return []string{fmt.Sprintf("invalid cron condition %q: %v", expr, err)}
	}

	return nil
}
