package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/inventory-api/internal/core/domain"
	"github.com/sirpyerre/inventory-api/internal/core/ports"
)

// ItemService implements the owner-scoped item use cases. The owner ID always
// comes from the verified token, never from the request body.
type ItemService struct {
	repo   ports.ItemRepository
	idem   ports.IdempotencyStore
	logger zerolog.Logger
}

// NewItemService wires the service. idem may be nil, in which case
// Idempotency-Key headers are ignored.
func NewItemService(repo ports.ItemRepository, idem ports.IdempotencyStore, logger zerolog.Logger) *ItemService {
	return &ItemService{repo: repo, idem: idem, logger: logger}
}

func (s *ItemService) List(ctx context.Context, ownerID string) ([]*domain.Item, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Item{}
	}
	return items, nil
}

func (s *ItemService) Get(ctx context.Context, ownerID, id string) (*domain.Item, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrItemNotFound
	}
	return s.repo.FindByID(ctx, ownerID, id)
}

// Create stores a new item. With an idempotency key, a replay by the same
// owner returns the item created by the first request.
func (s *ItemService) Create(ctx context.Context, ownerID string, in ports.ItemInput, idempotencyKey string) (*ports.CreateItemResult, error) {
	in, err := normalizeItemInput(in)
	if err != nil {
		return nil, err
	}

	useIdem := idempotencyKey != "" && s.idem != nil
	if useIdem {
		existing, reserved, err := s.reserveOrReplay(ctx, ownerID, idempotencyKey)
		switch {
		case err != nil:
			return nil, err
		case existing != nil:
			s.logger.Info().Str("owner_id", ownerID).Str("item_id", existing.ID).Msg("idempotent replay")
			return &ports.CreateItemResult{Item: existing, AlreadyExisted: true}, nil
		case !reserved:
			useIdem = false
		}
	}

	now := time.Now().UTC()
	item := &domain.Item{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      in.Name,
		Category:  in.Category,
		Quantity:  in.Quantity,
		Price:     in.Price,
		Status:    in.Status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		if useIdem {
			if relErr := s.idem.Release(ctx, ownerID, idempotencyKey); relErr != nil {
				s.logger.Warn().Err(relErr).Msg("failed to release idempotency key")
			}
		}
		s.logger.Error().Err(err).Str("owner_id", ownerID).Msg("failed to create item")
		return nil, err
	}

	if useIdem {
		if err := s.idem.Complete(ctx, ownerID, idempotencyKey, item.ID); err != nil {
			s.logger.Warn().Err(err).Str("item_id", item.ID).Msg("failed to store idempotency key")
		}
	}

	s.logger.Info().Str("item_id", item.ID).Str("owner_id", ownerID).Msg("item created")
	return &ports.CreateItemResult{Item: item}, nil
}

// reserveOrReplay claims the key or returns the item it already points to.
// A key bound to an item that has since been deleted is released and claimed
// again, so the retry creates a fresh item instead of failing. reserved is
// false with a nil item when the store is unreachable.
func (s *ItemService) reserveOrReplay(ctx context.Context, ownerID, key string) (*domain.Item, bool, error) {
	for attempt := 0; attempt < 2; attempt++ {
		existingID, reserved, err := s.idem.Reserve(ctx, ownerID, key)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("owner_id", ownerID).Msg("idempotency reserve failed, creating anyway")
			return nil, false, nil
		case reserved:
			return nil, true, nil
		case existingID == "":
			return nil, false, domain.ErrIdempotencyPending
		}

		existing, err := s.repo.FindByID(ctx, ownerID, existingID)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, domain.ErrItemNotFound) {
			return nil, false, err
		}

		s.logger.Info().Str("owner_id", ownerID).Str("item_id", existingID).Msg("idempotency key points to a deleted item, releasing")
		if err := s.idem.Release(ctx, ownerID, key); err != nil {
			return nil, false, err
		}
	}
	return nil, false, domain.ErrIdempotencyPending
}

func (s *ItemService) Update(ctx context.Context, ownerID, id string, in ports.ItemInput) (*domain.Item, error) {
	in, err := normalizeItemInput(in)
	if err != nil {
		return nil, err
	}

	item, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	item.Name = in.Name
	item.Category = in.Category
	item.Quantity = in.Quantity
	item.Price = in.Price
	item.Status = in.Status
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrItemNotFound
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if !errors.Is(err, domain.ErrItemNotFound) {
			s.logger.Error().Err(err).Str("item_id", id).Msg("failed to delete item")
		}
		return err
	}
	s.logger.Info().Str("item_id", id).Str("owner_id", ownerID).Msg("item deleted")
	return nil
}

// Summary computes the dashboard counters over the owner's items.
func (s *ItemService) Summary(ctx context.Context, ownerID string) (*domain.ItemSummary, error) {
	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	var sum domain.ItemSummary
	for _, it := range items {
		sum.TotalItems++
		sum.TotalQuantity += it.Quantity
		sum.TotalValue += float64(it.Quantity) * it.Price
		switch it.Status {
		case domain.StatusLowStock:
			sum.LowStock++
		case domain.StatusOutOfStock:
			sum.OutOfStock++
		}
	}
	sum.TotalValue = roundCents(sum.TotalValue)
	return &sum, nil
}

func normalizeItemInput(in ports.ItemInput) (ports.ItemInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Status == "" {
		in.Status = domain.StatusInStock
	}

	switch {
	case in.Name == "":
		return in, domain.NewValidationError("name is required")
	case in.Category == "":
		return in, domain.NewValidationError("category is required")
	case in.Quantity < 0:
		return in, domain.NewValidationError("quantity must be zero or greater")
	case in.Quantity > domain.MaxItemQuantity:
		return in, domain.NewValidationError(fmt.Sprintf("quantity must be at most %d", domain.MaxItemQuantity))
	case in.Price < 0 || math.IsNaN(in.Price) || math.IsInf(in.Price, 0):
		return in, domain.NewValidationError("price must be zero or greater")
	case roundCents(in.Price) > domain.MaxItemPrice:
		return in, domain.NewValidationError(fmt.Sprintf("price must be at most %.2f", domain.MaxItemPrice))
	case !in.Status.Valid():
		return in, domain.NewValidationError("status must be one of: In Stock, Low Stock, Out of Stock")
	}

	in.Price = roundCents(in.Price)
	return in, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
