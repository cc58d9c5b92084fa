// Package store defines the entity storage contract the workflow engine
// runs against. The engine only depends on this interface; concrete
// backends live in the subpackages.
package store

import "context"

// Entity names the engine persists and reads.
const (
	EntityWorkflow  = "Workflow"
	EntityExecution = "WorkflowExecution"
	EntityTask      = "Task"
	EntityContact   = "Contact"
	EntityDeal      = "Deal"
	EntityNote      = "Note"
)

// Record is the generic field map a store persists for one entity
// instance. Backends assign the "id" field and stamp "createdAt" /
// "updatedAt" on create.
type Record = map[string]any

// ListOptions controls filtering and ordering of List results.
type ListOptions struct {
	// Filter keeps only records whose field equals the given value.
	Filter map[string]any
	// SortBy names the record field to order by; empty means backend order.
	SortBy string
	// SortDesc orders descending when true.
	SortDesc bool
}

// EntityStore is the generic CRUD/list interface over CRM entities. It is
// shared, external, mutable state: the engine holds no cache of entity
// state across calls beyond the current pipeline run.
type EntityStore interface {
	Create(ctx context.Context, entity string, fields Record) (Record, error)
	Update(ctx context.Context, entity string, id string, fields Record) (Record, error)
	Get(ctx context.Context, entity string, id string) (Record, error)
	Delete(ctx context.Context, entity string, id string) (bool, error)
	List(ctx context.Context, entity string, opts ListOptions) ([]Record, error)

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
