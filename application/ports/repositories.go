package ports

import (
	"context"

	"list-api/domain/core/entities"
)

// SavedItemLoader reads a saved item for lazily resolved event payloads
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type SavedItemLoader interface {
	// SavedItemByID returns the item or a NOT_FOUND error
	SavedItemByID(ctx context.Context, userID, itemID string) (*entities.SavedItem, error)
}

// TagLoader reads the current tags on a saved item
type TagLoader interface {
	// TagsForItem returns the tags in name order; an untagged item yields an empty slice
	TagsForItem(ctx context.Context, userID, itemID string) ([]entities.Tag, error)
}
