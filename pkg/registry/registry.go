// Package registry maps action type identifiers to their factories.
// Adding an action type is a registration, not an edit to a central
// conditional.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/crmflow/crmflow/pkg/protocol"
)

// ErrUnknownActionType indicates an action type no factory is registered
// for. The pipeline converts it into a per-action failure result rather
// than halting with an error.
var ErrUnknownActionType = errors.New("unknown action type")

type Registry struct {
	logger    *slog.Logger
	factories map[string]protocol.ActionFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger,
		factories: make(map[string]protocol.ActionFactory),
	}
}

func (r *Registry) RegisterAction(factory protocol.ActionFactory) {
	r.factories[factory.ID()] = factory
	r.logger.Debug("Registered action type", "action_type", factory.ID())
}

// CreateAction builds an action instance for the given type, bound to the
// given configuration.
func (r *Registry) CreateAction(actionType string, config map[string]any) (protocol.Action, error) {
	factory, ok := r.factories[actionType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownActionType, actionType)
	}

	return factory.Create(config)
}

// ActionTypes returns the registered type identifiers, sorted.
func (r *Registry) ActionTypes() []string {
	types := make([]string, 0, len(r.factories))
	for actionType := range r.factories {
		types = append(types, actionType)
	}

	sort.Strings(types)

	return types
}

// Factory returns the factory for an action type.
func (r *Registry) Factory(actionType string) (protocol.ActionFactory, bool) {
	factory, ok := r.factories[actionType]

	return factory, ok
}

// HealthCheck reports whether any action types are registered.
func (r *Registry) HealthCheck() (string, bool) {
	if len(r.factories) == 0 {
		return "No action types registered", false
	}

	return fmt.Sprintf("%d action types registered", len(r.factories)), true
}
