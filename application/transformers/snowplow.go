package transformers

import (
	"strings"

	"list-api/application/ports"
	"list-api/domain/core/entities"
	"list-api/domain/events"
)

// SnowplowSchemas are the Iglu URIs of the entities in a list item update
type SnowplowSchemas struct {
	ListItemUpdate string `yaml:"listItemUpdate" validate:"required"`
	ListItem       string `yaml:"listItem" validate:"required"`
	Content        string `yaml:"content" validate:"required"`
	User           string `yaml:"user" validate:"required"`
	APIUser        string `yaml:"apiUser" validate:"required"`
}

// DefaultSnowplowSchemas returns the schemas registered with the collector
func DefaultSnowplowSchemas() SnowplowSchemas {
	return SnowplowSchemas{
		ListItemUpdate: "iglu:com.pocket/list_item_update/jsonschema/1-0-1",
		ListItem:       "iglu:com.pocket/list_item/jsonschema/1-0-1",
		Content:        "iglu:com.pocket/content/jsonschema/1-0-0",
		User:           "iglu:com.pocket/user/jsonschema/1-0-0",
		APIUser:        "iglu:com.pocket/api_user/jsonschema/1-0-0",
	}
}

// ListItemUpdate is the self-describing event data
type ListItemUpdate struct {
	Trigger string `json:"trigger"`
}

// ListItemEntity describes the saved item after the mutation
type ListItemEntity struct {
	ObjectVersion string   `json:"object_version"`
	URL           string   `json:"url"`
	ItemID        int64    `json:"item_id"`
	Status        string   `json:"status"`
	IsFavorited   bool     `json:"is_favorited"`
	Tags          []string `json:"tags"`
	CreatedAt     int64    `json:"created_at"`
}

// ContentEntity identifies the saved page
type ContentEntity struct {
	URL    string `json:"url"`
	ItemID int64  `json:"item_id"`
}

// UserEntity identifies the account
type UserEntity struct {
	UserID int64 `json:"user_id"`
}

// APIUserEntity identifies the client application
type APIUserEntity struct {
	APIID int64 `json:"api_id"`
}

// SnowplowTrigger maps an event kind to the list_item_update trigger.
// Every tag mutation is reported as tags_update
func SnowplowTrigger(t events.EventType) (string, bool) {
	switch t {
	case events.AddItem:
		return "save", true
	case events.DeleteItem:
		return "delete", true
	case events.FavoriteItem:
		return "favorite", true
	case events.UnfavoriteItem:
		return "unfavorite", true
	case events.ArchiveItem:
		return "archive", true
	case events.UnarchiveItem:
		return "unarchive", true
	case events.AddTags, events.ReplaceTags, events.ClearTags, events.RemoveTags, events.RenameTag, events.DeleteTag:
		return "tags_update", true
	}
	return "", false
}

// ToListItemUpdate builds the tracked event with its four context entities
func ToListItemUpdate(e events.ResolvedItemEvent, tags []string, schemas SnowplowSchemas) (ports.TrackedEvent, error) {
	trigger, ok := SnowplowTrigger(e.EventType)
	if !ok {
		return ports.TrackedEvent{}, transformationErr("no snowplow trigger for " + e.EventType.String())
	}

	itemID, err := parseID("item id", e.SavedItem.ID)
	if err != nil {
		return ports.TrackedEvent{}, err
	}
	userID, err := parseID("user id", e.User.ID)
	if err != nil {
		return ports.TrackedEvent{}, err
	}
	apiID, err := parseID("api id", e.APIUser.APIID)
	if err != nil {
		return ports.TrackedEvent{}, err
	}
	if tags == nil {
		tags = []string{}
	}

	item := e.SavedItem
	return ports.TrackedEvent{
		EventID: e.EventID,
		Event: ports.SelfDescribingJSON{
			Schema: schemas.ListItemUpdate,
			Data:   ListItemUpdate{Trigger: trigger},
		},
		Contexts: []ports.SelfDescribingJSON{
			{
				Schema: schemas.ListItem,
				Data: ListItemEntity{
					ObjectVersion: "new",
					URL:           item.URL,
					ItemID:        itemID,
					Status:        listItemStatus(e.EventType, item),
					IsFavorited:   item.IsFavorite,
					Tags:          tags,
					CreatedAt:     item.CreatedAt.Unix(),
				},
			},
			{Schema: schemas.Content, Data: ContentEntity{URL: item.URL, ItemID: itemID}},
			{Schema: schemas.User, Data: UserEntity{UserID: userID}},
			{Schema: schemas.APIUser, Data: APIUserEntity{APIID: apiID}},
		},
		Timestamp: e.Timestamp * 1000,
	}, nil
}

func listItemStatus(t events.EventType, item *entities.SavedItem) string {
	if t == events.DeleteItem {
		return strings.ToLower(string(entities.StatusDeleted))
	}
	return strings.ToLower(string(item.EffectiveStatus()))
}
