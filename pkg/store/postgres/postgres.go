// Package postgres provides a PostgreSQL backed EntityStore using gorm.
// All entities share one table; the record fields live in a jsonb column.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/crmflow/crmflow/pkg/store"
)

type entityRecord struct {
	Entity    string         `gorm:"primaryKey;type:varchar(64)"`
	ID        string         `gorm:"primaryKey;type:varchar(64)"`
	Fields    datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (entityRecord) TableName() string {
	return "entity_records"
}

type Store struct {
	db *gorm.DB
}

// NewStore connects to PostgreSQL and migrates the records table.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	err = db.WithContext(ctx).AutoMigrate(&entityRecord{})
	if err != nil {
		return nil, fmt.Errorf("failed to migrate entity records table: %w", err)
	}

	return &Store{db: db}, nil
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

	now := time.Now().UTC()
	rec["createdAt"] = now.Format(time.RFC3339Nano)
	rec["updatedAt"] = rec["createdAt"]

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, store.NewEntityError("Create", entity, id, err)
	}

	row := entityRecord{
		Entity:    entity,
		ID:        id,
		Fields:    datatypes.JSON(data),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.WithContext(ctx).Create(&row).Error
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

	data, err := json.Marshal(existing)
	if err != nil {
		return nil, store.NewEntityError("Update", entity, id, err)
	}

	err = s.db.WithContext(ctx).
		Model(&entityRecord{}).
		Where("entity = ? AND id = ?", entity, id).
		Updates(map[string]any{"fields": datatypes.JSON(data), "updated_at": time.Now().UTC()}).
		Error
	if err != nil {
		return nil, store.NewEntityError("Update", entity, id, err)
	}

	return existing, nil
}

func (s *Store) Get(ctx context.Context, entity, id string) (store.Record, error) {
	var row entityRecord

	err := s.db.WithContext(ctx).
		Where("entity = ? AND id = ?", entity, id).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.NewEntityError("Get", entity, id, store.ErrNotFound)
		}

		return nil, store.NewEntityError("Get", entity, id, err)
	}

	return decodeFields(entity, id, row.Fields)
}

func (s *Store) Delete(ctx context.Context, entity, id string) (bool, error) {
	err := s.db.WithContext(ctx).
		Where("entity = ? AND id = ?", entity, id).
		Delete(&entityRecord{}).
		Error
	if err != nil {
		return false, store.NewEntityError("Delete", entity, id, err)
	}

	return true, nil
}

func (s *Store) List(ctx context.Context, entity string, opts store.ListOptions) ([]store.Record, error) {
	var rows []entityRecord

	err := s.db.WithContext(ctx).
		Where("entity = ?", entity).
		Find(&rows).
		Error
	if err != nil {
		return nil, store.NewEntityError("List", entity, "", err)
	}

	recs := make([]store.Record, 0, len(rows))

	for _, row := range rows {
		rec, err := decodeFields(entity, row.ID, row.Fields)
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

func (s *Store) HealthCheck(ctx context.Context) error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}

	return db.PingContext(ctx)
}

func (s *Store) Close(_ context.Context) error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}

	return db.Close()
}

func decodeFields(entity, id string, data datatypes.JSON) (store.Record, error) {
	var rec store.Record

	err := json.Unmarshal(data, &rec)
	if err != nil {
		return nil, store.NewEntityError("Get", entity, id, err)
	}

	return rec, nil
}
