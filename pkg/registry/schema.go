package registry

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateActionConfig checks an action configuration against the JSON
// schema published by its factory. Used by the dry-run validation
// endpoint so builder UIs can surface config problems before saving;
// execution itself does not reject configs here.
func (r *Registry) ValidateActionConfig(actionType string, config map[string]any) ([]string, error) {
	factory, ok := r.factories[actionType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownActionType, actionType)
	}

	schema := factory.Schema()
	if schema == nil {
		return nil, nil
	}

	if config == nil {
		config = map[string]any{}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(config),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to validate %s config: %w", actionType, err)
	}

	if result.Valid() {
		return nil, nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}

	return problems, nil
}
