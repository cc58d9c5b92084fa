// Package file provides a file-system backed EntityStore. Each record is
// one JSON document under <root>/<Entity>/<id>.json.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/crmflow/crmflow/pkg/store"
)

type Store struct {
	root string
}

// NewStore creates a file store rooted at the given directory. A
// "file://" prefix on the path is accepted and stripped.
func NewStore(root string) (*Store, error) {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	err := os.MkdirAll(cleanRoot, 0o755)
	if err != nil {
		return nil, fmt.Errorf("failed to create store root %s: %w", cleanRoot, err)
	}

	return &Store{root: cleanRoot}, nil
}

func (s *Store) Create(_ context.Context, entity string, fields store.Record) (store.Record, error) {
	rec := store.CloneRecord(fields)
	if rec == nil {
		rec = store.Record{}
	}

	id, _ := rec["id"].(string)
	if id == "" {
		id = uuid.New().String()
		rec["id"] = id
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	rec["createdAt"] = now
	rec["updatedAt"] = now

	err := s.write(entity, id, rec)
	if err != nil {
		return nil, store.NewEntityError("Create", entity, id, err)
	}

	return rec, nil
}

func (s *Store) Update(ctx context.Context, entity, id string, fields store.Record) (store.Record, error) {
	existing, err := s.Get(ctx, entity, id)
	if err != nil {
		return nil, err
	}

	for k, v := range fields {
		if k == "id" || k == "createdAt" {
			continue
		}

		existing[k] = v
	}

	existing["updatedAt"] = time.Now().UTC().Format(time.RFC3339Nano)

	err = s.write(entity, id, existing)
	if err != nil {
		return nil, store.NewEntityError("Update", entity, id, err)
	}

	return existing, nil
}

func (s *Store) Get(_ context.Context, entity, id string) (store.Record, error) {
	data, err := os.ReadFile(s.path(entity, id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, store.NewEntityError("Get", entity, id, store.ErrNotFound)
		}

		return nil, store.NewEntityError("Get", entity, id, err)
	}

	var rec store.Record

	err = json.Unmarshal(data, &rec)
	if err != nil {
		return nil, store.NewEntityError("Get", entity, id, err)
	}

	return rec, nil
}

func (s *Store) Delete(_ context.Context, entity, id string) (bool, error) {
	err := os.Remove(s.path(entity, id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, store.NewEntityError("Delete", entity, id, err)
	}

	return true, nil
}

func (s *Store) List(ctx context.Context, entity string, opts store.ListOptions) ([]store.Record, error) {
	dir := filepath.Join(s.root, entity)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []store.Record{}, nil
		}

		return nil, store.NewEntityError("List", entity, "", err)
	}

	recs := make([]store.Record, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}

		rec, err := s.Get(ctx, entity, strings.TrimSuffix(name, ".json"))
		if err != nil {
			return nil, err
		}

		if !store.MatchesFilter(rec, opts.Filter) {
			continue
		}

		recs = append(recs, rec)
	}

	store.SortRecords(recs, opts.SortBy, opts.SortDesc)

	return recs, nil
}

func (s *Store) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(s.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (s *Store) Close(_ context.Context) error {
	return nil
}

func (s *Store) path(entity, id string) string {
	return filepath.Join(s.root, entity, id+".json")
}

func (s *Store) write(entity, id string, rec store.Record) error {
	dir := filepath.Join(s.root, entity)

	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path(entity, id), data, 0o644)
}
