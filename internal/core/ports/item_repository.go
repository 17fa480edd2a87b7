package ports

import (
	"context"

	"github.com/sirpyerre/inventory-api/internal/core/domain"
)

// ItemRepository defines persistence operations for items. Every method takes
// the owner's account ID and must filter on it; rows owned by someone else
// are reported as domain.ErrItemNotFound.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Item, error)
	FindByID(ctx context.Context, ownerID, id string) (*domain.Item, error)
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, ownerID, id string) error
}

// IdempotencyStore remembers which item a given Idempotency-Key produced.
type IdempotencyStore interface {
	// Reserve claims key for ownerID. It returns the previously stored item ID
	// and false when the key was already used.
	Reserve(ctx context.Context, ownerID, key string) (existingID string, reserved bool, err error)
	// Complete binds a reserved key to the created item.
	Complete(ctx context.Context, ownerID, key, itemID string) error
	// Release drops a reservation whose creation failed.
	Release(ctx context.Context, ownerID, key string) error
}
