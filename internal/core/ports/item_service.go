package ports

import (
	"context"

	"github.com/sirpyerre/inventory-api/internal/core/domain"
)

// ItemInput carries the writable fields of an item.
type ItemInput struct {
	Name     string
	Category string
	Quantity int
	Price    float64
	Status   domain.ItemStatus
}

// CreateItemResult reports whether the item was created by this call or
// replayed from an earlier request with the same Idempotency-Key.
type CreateItemResult struct {
	Item           *domain.Item
	AlreadyExisted bool
}

// ItemService defines the owner-scoped use cases for items.
type ItemService interface {
	List(ctx context.Context, ownerID string) ([]*domain.Item, error)
	Get(ctx context.Context, ownerID, id string) (*domain.Item, error)
	Create(ctx context.Context, ownerID string, in ItemInput, idempotencyKey string) (*CreateItemResult, error)
	Update(ctx context.Context, ownerID, id string, in ItemInput) (*domain.Item, error)
	Delete(ctx context.Context, ownerID, id string) error
	Summary(ctx context.Context, ownerID string) (*domain.ItemSummary, error)
}
