package events

import (
	"context"
	"sync"

	"list-api/domain/core/entities"
	apperrors "list-api/pkg/errors"
)

// SavedItemRef is a future for the saved item an event refers to. A resolver
// that already has the row passes ResolvedItem; one with a fetch in flight
// passes PendingItem so that sinks share the single read
type SavedItemRef struct {
	done chan struct{}
	once sync.Once
	item *entities.SavedItem
	err  error
}

// ResolvedItem wraps an item that is already loaded
func ResolvedItem(item *entities.SavedItem) *SavedItemRef {
	ref := &SavedItemRef{done: make(chan struct{})}
	ref.settle(item, nil)
	return ref
}

// PendingItem starts fetch immediately and memoises its result
func PendingItem(ctx context.Context, fetch func(context.Context) (*entities.SavedItem, error)) *SavedItemRef {
	ref := &SavedItemRef{done: make(chan struct{})}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ref.settle(nil, apperrors.NewInternalError("saved item fetch panicked"))
			}
		}()
		item, err := fetch(ctx)
		ref.settle(item, err)
	}()
	return ref
}

func (r *SavedItemRef) settle(item *entities.SavedItem, err error) {
	r.once.Do(func() {
		r.item = item
		r.err = err
		close(r.done)
	})
}

// Await blocks until the item is available or ctx is done
func (r *SavedItemRef) Await(ctx context.Context) (*entities.SavedItem, error) {
	if r == nil {
		return nil, apperrors.NewTransformationError("saved item reference is missing", nil)
	}
	select {
	case <-r.done:
	case <-ctx.Done():
		return nil, apperrors.NewTimeoutError("await saved item").WithCause(ctx.Err())
	}
	if r.err != nil {
		return nil, r.err
	}
	if r.item == nil {
		return nil, apperrors.NewTransformationError("saved item resolved to nothing", nil)
	}
	return r.item, nil
}

// Resolved reports whether Await would return without blocking
func (r *SavedItemRef) Resolved() bool {
	if r == nil {
		return false
	}
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}
