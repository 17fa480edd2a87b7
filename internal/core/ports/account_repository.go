package ports

import (
	"context"

	"github.com/sirpyerre/inventory-api/internal/core/domain"
)

// AccountRepository persists credential records.
type AccountRepository interface {
	// Create inserts the account. The uniqueness check on username and email
	// and the insert happen atomically; a clash returns domain.ErrAccountExists.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	// FindByEmail returns the full record, hash included, or domain.ErrAccountNotFound.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
}
