package events

import (
	"context"

	"list-api/domain/core/entities"
)

// User is the account that performed the mutation
type User struct {
	ID        string `json:"id"`
	IsPremium bool   `json:"isPremium,omitempty"`
}

// APIUser is the client application that made the request
type APIUser struct {
	APIID string `json:"apiId"`
}

// ItemEventPayload is what the emitter hands every listener.
//
// TagsUpdated is non-nil only for tag mutation kinds; see EventType.IsTagEvent
type ItemEventPayload struct {
	EventID     string
	EventType   EventType
	User        User
	APIUser     APIUser
	SavedItem   *SavedItemRef
	TagsUpdated []string
	Timestamp   int64
	Source      string
	Version     string
}

// HasTags reports whether the tag list belongs on the wire
func (p ItemEventPayload) HasTags() bool {
	return p.EventType.IsTagEvent()
}

// ResolvedItemEvent is the payload with its saved item awaited. It is the
// JSON shape forwarded to EventBridge
type ResolvedItemEvent struct {
	EventID     string              `json:"eventId"`
	EventType   EventType           `json:"eventType"`
	User        User                `json:"user"`
	APIUser     APIUser             `json:"apiUser"`
	SavedItem   *entities.SavedItem `json:"savedItem"`
	TagsUpdated []string            `json:"tagsUpdated,omitempty"`
	Timestamp   int64               `json:"timestamp"`
	Source      string              `json:"source"`
	Version     string              `json:"version"`
}

// HasTags mirrors ItemEventPayload.HasTags
func (e ResolvedItemEvent) HasTags() bool {
	return e.EventType.IsTagEvent()
}

// Resolve awaits the saved item and validates it
func (p ItemEventPayload) Resolve(ctx context.Context) (ResolvedItemEvent, error) {
	item, err := p.SavedItem.Await(ctx)
	if err != nil {
		return ResolvedItemEvent{}, err
	}
	if err := item.Validate(); err != nil {
		return ResolvedItemEvent{}, err
	}
	return ResolvedItemEvent{
		EventID:     p.EventID,
		EventType:   p.EventType,
		User:        p.User,
		APIUser:     p.APIUser,
		SavedItem:   item,
		TagsUpdated: p.TagsUpdated,
		Timestamp:   p.Timestamp,
		Source:      p.Source,
		Version:     p.Version,
	}, nil
}
