package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"list-api/domain/core/entities"
	"list-api/domain/events"
	"list-api/infrastructure/messaging"

	"github.com/aws/aws-sdk-go-v2/aws"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockEventBridge struct {
	mock.Mock
}

func (m *mockEventBridge) PutEvents(ctx context.Context, params *awseventbridge.PutEventsInput, optFns ...func(*awseventbridge.Options)) (*awseventbridge.PutEventsOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*awseventbridge.PutEventsOutput)
	return out, args.Error(1)
}

func favoritePayload() events.ItemEventPayload {
	return events.ItemEventPayload{
		EventID:   "evt-1",
		EventType: events.FavoriteItem,
		User:      events.User{ID: "1"},
		APIUser:   events.APIUser{APIID: "1"},
		SavedItem: events.ResolvedItem(&entities.SavedItem{ID: "12345", URL: "https://getpocket.com/", IsFavorite: true}),
		Timestamp: 1700000000,
		Source:    "backend_php",
		Version:   "0.0.2",
	}
}

func newHandler(client *mockEventBridge, logger *zap.Logger) *ItemEventHandler {
	return NewItemEventHandler(
		NewBase(client, logger),
		Config{EventBusName: "PocketEventBridge", Source: "list-api"},
		messaging.Instrumentation{Logger: logger},
	)
}

func TestItemEventHandler_Process_PutsEntry(t *testing.T) {
	// Arrange
	client := new(mockEventBridge)
	var sent *awseventbridge.PutEventsInput
	client.On("PutEvents", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*awseventbridge.PutEventsInput) }).
		Return(&awseventbridge.PutEventsOutput{}, nil)

	// Act
	newHandler(client, zap.NewNop()).Process(context.Background(), favoritePayload())

	// Assert
	require.NotNil(t, sent)
	require.Len(t, sent.Entries, 1)
	entry := sent.Entries[0]
	assert.Equal(t, "FAVORITE_ITEM", aws.ToString(entry.DetailType))
	assert.Equal(t, "PocketEventBridge", aws.ToString(entry.EventBusName))
	assert.Equal(t, "list-api", aws.ToString(entry.Source))
	assert.Equal(t, int64(1700000000), entry.Time.Unix())

	var detail map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail))
	assert.Equal(t, "evt-1", detail["eventId"])
	assert.NotContains(t, detail, "tagsUpdated")
	assert.Equal(t, "12345", detail["savedItem"].(map[string]interface{})["id"])
}

func TestItemEventHandler_Process_PartialFailureLogsOnce(t *testing.T) {
	client := new(mockEventBridge)
	client.On("PutEvents", mock.Anything, mock.Anything).Return(&awseventbridge.PutEventsOutput{
		FailedEntryCount: 1,
		Entries: []types.PutEventsResultEntry{
			{ErrorCode: aws.String("InternalFailure"), ErrorMessage: aws.String("try again")},
		},
	}, nil)
	core, logs := observer.New(zapcore.ErrorLevel)

	assert.NotPanics(t, func() {
		newHandler(client, zap.New(core)).Process(context.Background(), favoritePayload())
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "EventBridge rejected events", entry.Message)
	assert.Equal(t, int32(1), entry.ContextMap()["failedEntryCount"])
	assert.Equal(t, []interface{}{"FAVORITE_ITEM: InternalFailure try again"}, entry.ContextMap()["failures"])
}

func TestItemEventHandler_Process_ClientErrorLogsOnce(t *testing.T) {
	client := new(mockEventBridge)
	client.On("PutEvents", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))
	core, logs := observer.New(zapcore.ErrorLevel)

	newHandler(client, zap.New(core)).Process(context.Background(), favoritePayload())

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Failed to send events to EventBridge", logs.All()[0].Message)
}

func TestBase_PutEvents_Batches(t *testing.T) {
	client := new(mockEventBridge)
	client.On("PutEvents", mock.Anything, mock.Anything).Return(&awseventbridge.PutEventsOutput{}, nil)
	base := NewBase(client, zap.NewNop())

	entries := make([]types.PutEventsRequestEntry, 23)
	ok := base.PutEvents(context.Background(), entries)

	assert.True(t, ok)
	client.AssertNumberOfCalls(t, "PutEvents", 3)
}
