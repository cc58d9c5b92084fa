package addtolist_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/crmflow/crmflow/pkg/actions/addtolist"
	"github.com/crmflow/crmflow/pkg/mocks"
	"github.com/crmflow/crmflow/pkg/models"
	"github.com/crmflow/crmflow/pkg/protocol"
)

func TestAction_Execute(t *testing.T) {
	segments := &mocks.MockSegments{}
	segments.On("AddToList", mock.Anything, "list-1", "Contact", "c-1").Return(nil)

	factory := addtolist.NewActionFactory(protocol.Dependencies{Segments: segments})
	action, err := factory.Create(map[string]any{"listId": "list-1"})
	require.NoError(t, err)

	result, err := action.Execute(t.Context(), models.ExecutionContext{
		Data: map[string]any{"entityType": "Contact", "entityId": "c-1"},
	}, slog.Default())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "list-1", result.Data["listId"])

	segments.AssertExpectations(t)
}

func TestAction_Execute_MissingListID(t *testing.T) {
	segments := &mocks.MockSegments{}

	factory := addtolist.NewActionFactory(protocol.Dependencies{Segments: segments})
	action, err := factory.Create(nil)
	require.NoError(t, err)

	result, err := action.Execute(t.Context(), models.ExecutionContext{}, slog.Default())
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "List ID not provided", result.Error)

	segments.AssertNotCalled(t, "AddToList")
}
