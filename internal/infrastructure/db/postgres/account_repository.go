package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirpyerre/inventory-api/internal/core/domain"
)

// AccountRepository implements ports.AccountRepository. Uniqueness of
// username and email is enforced by table constraints, so concurrent
// registrations cannot both succeed.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `
		INSERT INTO accounts (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	created := *a
	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.Username, a.Email, a.PasswordHash, a.CreatedAt).Scan(&created.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	created.CreatedAt = created.CreatedAt.UTC()
	return &created, nil
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM accounts WHERE email = $1`, email)
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	if !validUUIDs(id) {
		return nil, domain.ErrAccountNotFound
	}
	return r.findOne(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM accounts WHERE id = $1`, id)
}

func (r *AccountRepository) findOne(ctx context.Context, query string, arg string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Account
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return &a, nil
}
