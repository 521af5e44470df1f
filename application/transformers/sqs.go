package transformers

import (
	"errors"

	"list-api/domain/events"
)

// ErrSkipMessage tells the queue sink that the event does not belong on the queue
var ErrSkipMessage = errors.New("event not routed to queue")

// SQSTransformer builds a queue message body from a resolved event
type SQSTransformer func(e events.ResolvedItemEvent) (interface{}, error)

// PublisherDataMessage feeds the publisher data pipeline
type PublisherDataMessage struct {
	UserID     string `json:"userId"`
	ItemID     string `json:"itemId"`
	ResolvedID string `json:"resolvedId,omitempty"`
	URL        string `json:"url"`
	ActionTime int64  `json:"actionTime"`
	EventType  string `json:"eventType"`
}

// PublisherDataTransformer maps every routed event onto the publisher data queue
func PublisherDataTransformer(e events.ResolvedItemEvent) (interface{}, error) {
	return PublisherDataMessage{
		UserID:     e.User.ID,
		ItemID:     e.SavedItem.ID,
		ResolvedID: e.SavedItem.ResolvedID,
		URL:        e.SavedItem.URL,
		ActionTime: e.Timestamp,
		EventType:  e.EventType.String(),
	}, nil
}

// PermanentLibraryMessage asks the archiver to capture a copy of the page
type PermanentLibraryMessage struct {
	UserID     int64  `json:"userId"`
	ItemID     int64  `json:"itemId"`
	URL        string `json:"url"`
	GivenURL   string `json:"givenUrl"`
	Timestamp  int64  `json:"timestamp"`
	IsPremium  bool   `json:"isPremium"`
	ResolvedID string `json:"resolvedId,omitempty"`
}

// PermanentLibraryTransformer only routes saves made by premium users
func PermanentLibraryTransformer(e events.ResolvedItemEvent) (interface{}, error) {
	if !e.User.IsPremium {
		return nil, ErrSkipMessage
	}
	userID, err := parseID("user id", e.User.ID)
	if err != nil {
		return nil, err
	}
	itemID, err := parseID("item id", e.SavedItem.ID)
	if err != nil {
		return nil, err
	}

	given := e.SavedItem.GivenURL
	if given == "" {
		given = e.SavedItem.URL
	}
	return PermanentLibraryMessage{
		UserID:     userID,
		ItemID:     itemID,
		URL:        e.SavedItem.URL,
		GivenURL:   given,
		Timestamp:  e.Timestamp,
		IsPremium:  true,
		ResolvedID: e.SavedItem.ResolvedID,
	}, nil
}

// SQSTransformerByName resolves the transformer named in the sink config
func SQSTransformerByName(name string) (SQSTransformer, bool) {
	switch name {
	case "publisher-data":
		return PublisherDataTransformer, true
	case "permanent-library":
		return PermanentLibraryTransformer, true
	}
	return nil, false
}

