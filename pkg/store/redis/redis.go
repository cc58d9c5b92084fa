// Package redis provides a Redis backed EntityStore. Each record is a
// JSON document at crmflow:<entity>:<id>, with a per-entity set indexing
// the ids.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/crmflow/crmflow/pkg/store"
)

const keyPrefix = "crmflow"

type Store struct {
	client *goredis.Client
}

// NewStore connects to Redis using the given URL
// (redis://[user:pass@]host:port/db).
func NewStore(ctx context.Context, redisURL string) (*Store, error) {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := goredis.NewClient(opts)

	err = client.Ping(ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Create(ctx context.Context, entity string, fields store.Record) (store.Record, error) {
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

	err := s.write(ctx, entity, id, rec)
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

	err = s.write(ctx, entity, id, existing)
	if err != nil {
		return nil, store.NewEntityError("Update", entity, id, err)
	}

	return existing, nil
}

func (s *Store) Get(ctx context.Context, entity, id string) (store.Record, error) {
	data, err := s.client.Get(ctx, recordKey(entity, id)).Bytes()
	if err != nil {
		if err == goredis.Nil {
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

func (s *Store) Delete(ctx context.Context, entity, id string) (bool, error) {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, recordKey(entity, id))
	pipe.SRem(ctx, indexKey(entity), id)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, store.NewEntityError("Delete", entity, id, err)
	}

	return true, nil
}

func (s *Store) List(ctx context.Context, entity string, opts store.ListOptions) ([]store.Record, error) {
	ids, err := s.client.SMembers(ctx, indexKey(entity)).Result()
	if err != nil {
		return nil, store.NewEntityError("List", entity, "", err)
	}

	recs := make([]store.Record, 0, len(ids))

	for _, id := range ids {
		rec, err := s.Get(ctx, entity, id)
		if err != nil {
			if store.IsNotFound(err) {
				// Index entry outlived its record; skip it.
				continue
			}

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

func (s *Store) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close(_ context.Context) error {
	return s.client.Close()
}

func (s *Store) write(ctx context.Context, entity, id string, rec store.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, recordKey(entity, id), data, 0)
	pipe.SAdd(ctx, indexKey(entity), id)

	_, err = pipe.Exec(ctx)

	return err
}

func recordKey(entity, id string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, entity, id)
}

func indexKey(entity string) string {
	return fmt.Sprintf("%s:%s", keyPrefix, entity)
}
