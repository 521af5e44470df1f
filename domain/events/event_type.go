package events

import (
	apperrors "list-api/pkg/errors"
)

// EventType identifies a saved-item mutation. It is both the emitter topic
// and the DetailType forwarded to EventBridge
type EventType string

const (
	AddItem        EventType = "ADD_ITEM"
	DeleteItem     EventType = "DELETE_ITEM"
	FavoriteItem   EventType = "FAVORITE_ITEM"
	UnfavoriteItem EventType = "UNFAVORITE_ITEM"
	ArchiveItem    EventType = "ARCHIVE_ITEM"
	UnarchiveItem  EventType = "UNARCHIVE_ITEM"
	AddTags        EventType = "ADD_TAGS"
	ReplaceTags    EventType = "REPLACE_TAGS"
	ClearTags      EventType = "CLEAR_TAGS"
	RemoveTags     EventType = "REMOVE_TAGS"
	RenameTag      EventType = "RENAME_TAG"
	DeleteTag      EventType = "DELETE_TAG"
)

var allEventTypes = []EventType{
	AddItem,
	DeleteItem,
	FavoriteItem,
	UnfavoriteItem,
	ArchiveItem,
	UnarchiveItem,
	AddTags,
	ReplaceTags,
	ClearTags,
	RemoveTags,
	RenameTag,
	DeleteTag,
}

// AllEventTypes returns every event kind the bus can carry, in declaration order
func AllEventTypes() []EventType {
	out := make([]EventType, len(allEventTypes))
	copy(out, allEventTypes)
	return out
}

func (t EventType) String() string { return string(t) }

// Valid reports whether t is a member of the closed event set
func (t EventType) Valid() bool {
	switch t {
	case AddItem, DeleteItem, FavoriteItem, UnfavoriteItem, ArchiveItem, UnarchiveItem,
		AddTags, ReplaceTags, ClearTags, RemoveTags, RenameTag, DeleteTag:
		return true
	}
	return false
}

// IsTagEvent reports whether the event carries a tagsUpdated list
func (t EventType) IsTagEvent() bool {
	switch t {
	case AddTags, ReplaceTags, ClearTags, RemoveTags:
		return true
	}
	return false
}

// ParseEventType converts a configured name into an EventType
func ParseEventType(name string) (EventType, error) {
	t := EventType(name)
	if !t.Valid() {
		return "", apperrors.NewValidationError("unknown event type: " + name).WithCode("UNKNOWN_EVENT_TYPE")
	}
	return t, nil
}
