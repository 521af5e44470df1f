package handlers

import (
	"context"
	"net/http"
	"time"

	appevents "list-api/application/events"
	"list-api/application/ports"
	"list-api/domain/core/entities"
	"list-api/domain/events"
	"list-api/pkg/common"
	apperrors "list-api/pkg/errors"
	"list-api/pkg/utils"

	"go.uber.org/zap"
)

// maxEmitBodyBytes bounds an emission request; tag lists are the only
// unbounded field
const maxEmitBodyBytes = 64 << 10

const defaultFetchTimeout = 30 * time.Second

// ItemEventEmitter is the part of the emitter the handler needs
type ItemEventEmitter interface {
	EmitItemEvent(ctx context.Context, eventType events.EventType, savedItem *events.SavedItemRef, extra appevents.ItemEventExtra)
}

// ItemEventHandler accepts mutation notifications from services that write
// the list directly and emits them through the fan-out pipeline
type ItemEventHandler struct {
	emitter      ItemEventEmitter
	items        ports.SavedItemLoader
	fetchTimeout time.Duration
	logger       *zap.Logger
}

// NewItemEventHandler creates a new item event handler. fetchTimeout bounds
// the background load of the saved item; zero selects 30s
func NewItemEventHandler(emitter ItemEventEmitter, items ports.SavedItemLoader, fetchTimeout time.Duration, logger *zap.Logger) *ItemEventHandler {
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	return &ItemEventHandler{
		emitter:      emitter,
		items:        items,
		fetchTimeout: fetchTimeout,
		logger:       logger,
	}
}

// EmitItemEventRequest represents the request body for an emission
type EmitItemEventRequest struct {
	EventType   string   `json:"eventType" validate:"required"`
	UserID      string   `json:"userId" validate:"required,numeric"`
	IsPremium   bool     `json:"isPremium"`
	APIID       string   `json:"apiId" validate:"required,numeric"`
	ItemID      string   `json:"itemId" validate:"required,numeric"`
	TagsUpdated []string `json:"tagsUpdated,omitempty" validate:"omitempty,dive,max=100"`
}

// EmitItemEventResponse acknowledges an accepted emission
type EmitItemEventResponse struct {
	EventType string `json:"eventType"`
	ItemID    string `json:"itemId"`
}

// EmitItemEvent handles POST /internal/item-events. The saved item is loaded
// in the background; the response does not wait for any sink
func (h *ItemEventHandler) EmitItemEvent(w http.ResponseWriter, r *http.Request) {
	var req EmitItemEventRequest
	if err := common.ParseJSONBody(w, r, &req, maxEmitBodyBytes); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, apperrors.HTTPStatus(err), common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	eventType, err := events.ParseEventType(req.EventType)
	if err != nil {
		common.RespondError(w, apperrors.HTTPStatus(err), apperrors.Code(err), err.Error())
		return
	}

	userID, itemID := req.UserID, req.ItemID
	ref := events.PendingItem(context.WithoutCancel(r.Context()), func(ctx context.Context) (*entities.SavedItem, error) {
		ctx, cancel := context.WithTimeout(ctx, h.fetchTimeout)
		defer cancel()
		return h.items.SavedItemByID(ctx, userID, itemID)
	})

	h.logger.Debug("Emitting item event from notification",
		zap.String("eventType", eventType.String()),
		zap.String("itemId", itemID),
	)
	h.emitter.EmitItemEvent(r.Context(), eventType, ref, appevents.ItemEventExtra{
		User:        events.User{ID: req.UserID, IsPremium: req.IsPremium},
		APIUser:     events.APIUser{APIID: req.APIID},
		TagsUpdated: req.TagsUpdated,
	})

	common.RespondJSON(w, http.StatusAccepted, EmitItemEventResponse{
		EventType: eventType.String(),
		ItemID:    req.ItemID,
	})
}
