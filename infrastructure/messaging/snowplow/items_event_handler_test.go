package snowplow

import (
	"context"
	"errors"
	"testing"

	"list-api/application/ports"
	"list-api/application/transformers"
	"list-api/domain/core/entities"
	"list-api/domain/events"
	"list-api/infrastructure/messaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockTracker struct {
	mock.Mock
}

func (m *mockTracker) Track(ctx context.Context, event ports.TrackedEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockTracker) Flush() {
	m.Called()
}

type mockTagLoader struct {
	mock.Mock
}

func (m *mockTagLoader) TagsForItem(ctx context.Context, userID, itemID string) ([]entities.Tag, error) {
	args := m.Called(ctx, userID, itemID)
	tags, _ := args.Get(0).([]entities.Tag)
	return tags, args.Error(1)
}

func archivePayload() events.ItemEventPayload {
	return events.ItemEventPayload{
		EventID:   "evt-1",
		EventType: events.ArchiveItem,
		User:      events.User{ID: "1"},
		APIUser:   events.APIUser{APIID: "1"},
		SavedItem: events.ResolvedItem(&entities.SavedItem{
			ID:         "12345",
			URL:        "https://getpocket.com/",
			Status:     entities.StatusArchived,
			IsArchived: true,
		}),
		Timestamp: 1700000000,
	}
}

func testConfig() Config {
	return Config{Events: events.AllEventTypes(), Schemas: transformers.DefaultSnowplowSchemas()}
}

func TestItemsEventHandler_Process_Archive(t *testing.T) {
	// Arrange
	tracker := new(mockTracker)
	tags := new(mockTagLoader)
	tags.On("TagsForItem", mock.Anything, "1", "12345").Return([]entities.Tag{{Name: "later"}}, nil)

	var tracked ports.TrackedEvent
	tracker.On("Track", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { tracked = args.Get(1).(ports.TrackedEvent) }).
		Return(nil)

	h := NewItemsEventHandler(tracker, tags, testConfig(), messaging.Instrumentation{Logger: zap.NewNop()})

	// Act
	h.Process(context.Background(), archivePayload())

	// Assert
	tracker.AssertExpectations(t)
	tags.AssertExpectations(t)
	assert.Equal(t, transformers.ListItemUpdate{Trigger: "archive"}, tracked.Event.Data)
	listItem := tracked.Contexts[0].Data.(transformers.ListItemEntity)
	assert.Equal(t, "https://getpocket.com/", listItem.URL)
	assert.Equal(t, int64(12345), listItem.ItemID)
	assert.Equal(t, []string{"later"}, listItem.Tags)
}

func TestItemsEventHandler_Process_FallsBackToUpdatedTags(t *testing.T) {
	tracker := new(mockTracker)
	tags := new(mockTagLoader)
	tags.On("TagsForItem", mock.Anything, "1", "12345").Return(nil, errors.New("timeout"))
	var tracked ports.TrackedEvent
	tracker.On("Track", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { tracked = args.Get(1).(ports.TrackedEvent) }).
		Return(nil)

	payload := archivePayload()
	payload.EventType = events.AddTags
	payload.TagsUpdated = []string{"go"}

	NewItemsEventHandler(tracker, tags, testConfig(), messaging.Instrumentation{Logger: zap.NewNop()}).
		Process(context.Background(), payload)

	assert.Equal(t, transformers.ListItemUpdate{Trigger: "tags_update"}, tracked.Event.Data)
	assert.Equal(t, []string{"go"}, tracked.Contexts[0].Data.(transformers.ListItemEntity).Tags)
}

func TestItemsEventHandler_Process_TrackFailureIsContained(t *testing.T) {
	tracker := new(mockTracker)
	tracker.On("Track", mock.Anything, mock.Anything).Return(errors.New("bad payload"))
	core, logs := observer.New(zapcore.ErrorLevel)

	h := NewItemsEventHandler(tracker, nil, testConfig(), messaging.Instrumentation{Logger: zap.New(core)})

	assert.NotPanics(t, func() {
		h.Process(context.Background(), archivePayload())
	})
	assert.Equal(t, 1, logs.FilterMessage("unable to track snowplow event").Len())
}

func TestItemsEventHandler_Process_UnresolvedItem(t *testing.T) {
	tracker := new(mockTracker)
	core, logs := observer.New(zapcore.ErrorLevel)
	h := NewItemsEventHandler(tracker, nil, testConfig(), messaging.Instrumentation{Logger: zap.New(core)})

	payload := archivePayload()
	payload.SavedItem = events.ResolvedItem(nil)
	h.Process(context.Background(), payload)

	tracker.AssertNotCalled(t, "Track", mock.Anything, mock.Anything)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "unable to resolve saved item for snowplow", logs.All()[0].Message)
}
