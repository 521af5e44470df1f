package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appevents "list-api/application/events"
	"list-api/domain/core/entities"
	"list-api/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type loaderFunc func(ctx context.Context, userID, itemID string) (*entities.SavedItem, error)

func (f loaderFunc) SavedItemByID(ctx context.Context, userID, itemID string) (*entities.SavedItem, error) {
	return f(ctx, userID, itemID)
}

type capturingEmitter struct {
	ref *events.SavedItemRef
}

func (c *capturingEmitter) EmitItemEvent(ctx context.Context, eventType events.EventType, savedItem *events.SavedItemRef, extra appevents.ItemEventExtra) {
	c.ref = savedItem
}

func TestItemEventHandler_FetchIsBoundedByTimeout(t *testing.T) {
	// Arrange
	hadDeadline := make(chan bool, 1)
	loader := loaderFunc(func(ctx context.Context, userID, itemID string) (*entities.SavedItem, error) {
		_, ok := ctx.Deadline()
		hadDeadline <- ok
		<-ctx.Done()
		return nil, ctx.Err()
	})
	emitter := &capturingEmitter{}
	h := NewItemEventHandler(emitter, loader, 20*time.Millisecond, zap.NewNop())
	body := `{"eventType":"ADD_ITEM","userId":"1","apiId":"7","itemId":"12345"}`

	// Act
	rec := httptest.NewRecorder()
	h.EmitItemEvent(rec, httptest.NewRequest(http.MethodPost, "/internal/item-events", strings.NewReader(body)))

	// Assert
	require.Equal(t, http.StatusAccepted, rec.Code)
	require.NotNil(t, emitter.ref)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := emitter.ref.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, <-hadDeadline)
}

func TestItemEventHandler_FetchSurvivesFinishedRequest(t *testing.T) {
	item := &entities.SavedItem{ID: "12345", URL: "https://getpocket.com/"}
	release := make(chan struct{})
	loader := loaderFunc(func(ctx context.Context, userID, itemID string) (*entities.SavedItem, error) {
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return item, nil
	})
	emitter := &capturingEmitter{}
	h := NewItemEventHandler(emitter, loader, 0, zap.NewNop())

	reqCtx, cancelReq := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/internal/item-events",
		strings.NewReader(`{"eventType":"ARCHIVE_ITEM","userId":"1","apiId":"7","itemId":"12345"}`)).WithContext(reqCtx)
	rec := httptest.NewRecorder()
	h.EmitItemEvent(rec, req)
	cancelReq()
	close(release)

	got, err := emitter.ref.Await(context.Background())
	require.NoError(t, err)
	assert.Same(t, item, got)
	assert.Equal(t, defaultFetchTimeout, h.fetchTimeout)
}
