package entities

import (
	"time"

	apperrors "list-api/pkg/errors"
)

// ItemStatus is the list state of a saved item
type ItemStatus string

const (
	StatusUnread   ItemStatus = "UNREAD"
	StatusArchived ItemStatus = "ARCHIVED"
	StatusDeleted  ItemStatus = "DELETED"
)

// SavedItem is a URL saved to a user's list
type SavedItem struct {
	ID          string     `json:"id"`
	ResolvedID  string     `json:"resolvedId,omitempty"`
	URL         string     `json:"url"`
	GivenURL    string     `json:"givenUrl,omitempty"`
	Title       string     `json:"title,omitempty"`
	Status      ItemStatus `json:"status"`
	IsFavorite  bool       `json:"isFavorite"`
	IsArchived  bool       `json:"isArchived"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	FavoritedAt *time.Time `json:"favoritedAt,omitempty"`
	ArchivedAt  *time.Time `json:"archivedAt,omitempty"`
}

// Validate checks the fields every sink depends on
func (s *SavedItem) Validate() error {
	if s == nil {
		return apperrors.NewValidationError("saved item is required")
	}
	if s.ID == "" {
		return apperrors.NewValidationError("saved item id is required")
	}
	if s.URL == "" {
		return apperrors.NewValidationError("saved item url is required")
	}
	return nil
}

// EffectiveStatus derives the status from the flags when Status was not loaded
func (s *SavedItem) EffectiveStatus() ItemStatus {
	if s.Status != "" {
		return s.Status
	}
	if s.IsArchived {
		return StatusArchived
	}
	return StatusUnread
}

// Tag is a user-defined label on a saved item
type Tag struct {
	Name string `json:"name"`
}

// TagNames flattens tags to their names, never returning nil
func TagNames(tags []Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}
