package memory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmflow/crmflow/pkg/store"
	"github.com/crmflow/crmflow/pkg/store/memory"
)

func TestStore_CreateAndGet(t *testing.T) {
	s := memory.NewStore()

	created, err := s.Create(t.Context(), store.EntityContact, store.Record{
		"name":  "Ada Lovelace",
		"email": "ada@example.com",
	})
	require.NoError(t, err)

	id, ok := created["id"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, id)
	assert.NotNil(t, created["createdAt"])
	assert.NotNil(t, created["updatedAt"])

	fetched, err := s.Get(t.Context(), store.EntityContact, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", fetched["name"])
}

func TestStore_Create_KeepsCallerID(t *testing.T) {
	s := memory.NewStore()

	created, err := s.Create(t.Context(), store.EntityContact, store.Record{"id": "contact-1"})
	require.NoError(t, err)
	assert.Equal(t, "contact-1", created["id"])
}

func TestStore_Get_NotFound(t *testing.T) {
	s := memory.NewStore()

	_, err := s.Get(t.Context(), store.EntityContact, "missing")
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
}

func TestStore_Update(t *testing.T) {
	s := memory.NewStore()

	created, err := s.Create(t.Context(), store.EntityDeal, store.Record{"stage": "Prospecting"})
	require.NoError(t, err)

	id, _ := created["id"].(string)

	updated, err := s.Update(t.Context(), store.EntityDeal, id, store.Record{"stage": "Won"})
	require.NoError(t, err)
	assert.Equal(t, "Won", updated["stage"])

	// id and createdAt are immutable.
	assert.Equal(t, id, updated["id"])
	assert.Equal(t, created["createdAt"], updated["createdAt"])
}

func TestStore_Update_NotFound(t *testing.T) {
	s := memory.NewStore()

	_, err := s.Update(t.Context(), store.EntityDeal, "missing", store.Record{"stage": "Won"})
	require.Error(t, err)
	assert.True(t, store.IsNotFound(err))
}

func TestStore_Delete_Idempotent(t *testing.T) {
	s := memory.NewStore()

	created, err := s.Create(t.Context(), store.EntityTask, store.Record{"title": "Call"})
	require.NoError(t, err)

	id, _ := created["id"].(string)

	ok, err := s.Delete(t.Context(), store.EntityTask, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Delete(t.Context(), store.EntityTask, id)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.Get(t.Context(), store.EntityTask, id)
	assert.True(t, store.IsNotFound(err))
}

func TestStore_List_FilterAndSort(t *testing.T) {
	s := memory.NewStore()

	_, err := s.Create(t.Context(), store.EntityExecution, store.Record{
		"workflowId": "wf-1",
		"startedAt":  time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC).Format(time.RFC3339Nano),
	})
	require.NoError(t, err)

	_, err = s.Create(t.Context(), store.EntityExecution, store.Record{
		"workflowId": "wf-1",
		"startedAt":  time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC).Format(time.RFC3339Nano),
	})
	require.NoError(t, err)

	_, err = s.Create(t.Context(), store.EntityExecution, store.Record{
		"workflowId": "wf-2",
		"startedAt":  time.Date(2026, 5, 1, 11, 0, 0, 0, time.UTC).Format(time.RFC3339Nano),
	})
	require.NoError(t, err)

	recs, err := s.List(t.Context(), store.EntityExecution, store.ListOptions{
		Filter:   map[string]any{"workflowId": "wf-1"},
		SortBy:   "startedAt",
		SortDesc: true,
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)

	first, _ := recs[0]["startedAt"].(string)
	second, _ := recs[1]["startedAt"].(string)
	assert.Greater(t, first, second)
}

func TestStore_List_EmptyEntity(t *testing.T) {
	s := memory.NewStore()

	recs, err := s.List(t.Context(), store.EntityNote, store.ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestStore_RecordsAreIsolated(t *testing.T) {
	s := memory.NewStore()

	created, err := s.Create(t.Context(), store.EntityContact, store.Record{"name": "Ada"})
	require.NoError(t, err)

	// Mutating the returned record must not leak into the store.
	created["name"] = "Mutated"

	id, _ := created["id"].(string)

	fetched, err := s.Get(t.Context(), store.EntityContact, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada", fetched["name"])
}
