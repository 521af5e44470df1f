package transformers

import (
	"strconv"

	"list-api/domain/events"
	apperrors "list-api/pkg/errors"
)

// UnifiedEvent is the record written to the unified event stream
type UnifiedEvent struct {
	Type      string           `json:"type"`
	Data      UnifiedEventData `json:"data"`
	Timestamp int64            `json:"timestamp"`
	Source    string           `json:"source"`
	Version   string           `json:"version"`
}

// UnifiedEventData identifies the actor and item. Tags is nil unless the
// event is a tag mutation; consumers key off the field being present
type UnifiedEventData struct {
	UserID int64     `json:"user_id"`
	ItemID int64     `json:"item_id"`
	APIID  int64     `json:"api_id"`
	Tags   *[]string `json:"tags,omitempty"`
}

// UnifiedEventType returns the stream name for t, or false when the event
// kind is not published to the stream
func UnifiedEventType(t events.EventType) (string, bool) {
	switch t {
	case events.AddItem:
		return "user-list-item-created", true
	case events.DeleteItem:
		return "user-list-item-deleted", true
	case events.FavoriteItem:
		return "user-list-item-favorited", true
	case events.UnfavoriteItem:
		return "user-list-item-unfavorited", true
	case events.ArchiveItem:
		return "user-list-item-archived", true
	case events.UnarchiveItem:
		return "user-list-item-unarchived", true
	case events.AddTags:
		return "user-item-tags-added", true
	case events.ReplaceTags:
		return "user-item-tags-replaced", true
	case events.ClearTags:
		return "user-item-tags-cleared", true
	case events.RemoveTags:
		return "user-item-tags-removed", true
	case events.RenameTag, events.DeleteTag:
		return "", false
	}
	return "", false
}

// ToUnifiedEvent maps a resolved payload to the unified stream record
func ToUnifiedEvent(e events.ResolvedItemEvent) (UnifiedEvent, error) {
	typ, ok := UnifiedEventType(e.EventType)
	if !ok {
		return UnifiedEvent{}, apperrors.NewTransformationError("no unified event for "+e.EventType.String(), nil)
	}

	userID, err := parseID("user id", e.User.ID)
	if err != nil {
		return UnifiedEvent{}, err
	}
	itemID, err := parseID("item id", e.SavedItem.ID)
	if err != nil {
		return UnifiedEvent{}, err
	}
	apiID, err := parseID("api id", e.APIUser.APIID)
	if err != nil {
		return UnifiedEvent{}, err
	}

	data := UnifiedEventData{UserID: userID, ItemID: itemID, APIID: apiID}
	if e.HasTags() {
		tags := make([]string, len(e.TagsUpdated))
		copy(tags, e.TagsUpdated)
		data.Tags = &tags
	}

	return UnifiedEvent{
		Type:      typ,
		Data:      data,
		Timestamp: e.Timestamp,
		Source:    e.Source,
		Version:   e.Version,
	}, nil
}

func parseID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.NewTransformationError("invalid "+field+": "+strconv.Quote(raw), err)
	}
	return id, nil
}

func transformationErr(message string) error {
	return apperrors.NewTransformationError(message, nil)
}
