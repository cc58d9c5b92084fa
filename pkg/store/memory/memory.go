// Package memory provides an in-memory EntityStore used by tests and
// local development. Records survive only for the lifetime of the
// process.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/crmflow/crmflow/pkg/store"
)

type Store struct {
	mu       sync.RWMutex
	entities map[string]map[string]store.Record
}

func NewStore() *Store {
	return &Store{
		entities: make(map[string]map[string]store.Record),
	}
}

func (s *Store) Create(_ context.Context, entity string, fields store.Record) (store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := store.CloneRecord(fields)
	if rec == nil {
		rec = store.Record{}
	}

	id, _ := rec["id"].(string)
	if id == "" {
		id = uuid.New().String()
		rec["id"] = id
	}

	now := time.Now().UTC()
	rec["createdAt"] = now
	rec["updatedAt"] = now

	if s.entities[entity] == nil {
		s.entities[entity] = make(map[string]store.Record)
	}

	s.entities[entity][id] = rec

	return store.CloneRecord(rec), nil
}

func (s *Store) Update(_ context.Context, entity, id string, fields store.Record) (store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.entities[entity][id]
	if !ok {
		return nil, store.NewEntityError("Update", entity, id, store.ErrNotFound)
	}

	for k, v := range fields {
		if k == "id" || k == "createdAt" {
			continue
		}

		existing[k] = v
	}

	existing["updatedAt"] = time.Now().UTC()

	return store.CloneRecord(existing), nil
}

func (s *Store) Get(_ context.Context, entity, id string) (store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.entities[entity][id]
	if !ok {
		return nil, store.NewEntityError("Get", entity, id, store.ErrNotFound)
	}

	return store.CloneRecord(rec), nil
}

func (s *Store) Delete(_ context.Context, entity, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entities[entity][id]; !ok {
		// Deletion is idempotent from the caller's perspective.
		return true, nil
	}

	delete(s.entities[entity], id)

	return true, nil
}

func (s *Store) List(_ context.Context, entity string, opts store.ListOptions) ([]store.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]store.Record, 0, len(s.entities[entity]))

	for _, rec := range s.entities[entity] {
		if !store.MatchesFilter(rec, opts.Filter) {
			continue
		}

		recs = append(recs, store.CloneRecord(rec))
	}

	store.SortRecords(recs, opts.SortBy, opts.SortDesc)

	return recs, nil
}

func (s *Store) HealthCheck(_ context.Context) error {
	return nil
}

func (s *Store) Close(_ context.Context) error {
	return nil
}
