package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/sirpyerre/inventory-api/internal/core/domain"
)

const itemColumns = `id, owner_id, name, category, quantity, price, status, created_at, updated_at`

// ItemRepository implements ports.ItemRepository. Every statement filters on
// owner_id.
type ItemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var (
		it     domain.Item
		status string
	)
	if err := row.Scan(&it.ID, &it.OwnerID, &it.Name, &it.Category, &it.Quantity,
		&it.Price, &status, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	it.Status = domain.ItemStatus(status)
	it.CreatedAt = it.CreatedAt.UTC()
	it.UpdatedAt = it.UpdatedAt.UTC()
	return &it, nil
}

func (r *ItemRepository) Create(ctx context.Context, it *domain.Item) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO items (`+itemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		it.ID, it.OwnerID, it.Name, it.Category, it.Quantity, it.Price, string(it.Status), it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *ItemRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Item, error) {
	if !validUUIDs(ownerID) {
		return []*domain.Item{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE owner_id = $1
		ORDER BY created_at DESC, id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []*domain.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (r *ItemRepository) FindByID(ctx context.Context, ownerID, id string) (*domain.Item, error) {
	if !validUUIDs(ownerID, id) {
		return nil, domain.ErrItemNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE id = $1 AND owner_id = $2`, id, ownerID)
	it, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("find item: %w", err)
	}
	return it, nil
}

func (r *ItemRepository) Update(ctx context.Context, it *domain.Item) error {
	if !validUUIDs(it.OwnerID, it.ID) {
		return domain.ErrItemNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		UPDATE items
		SET name = $3, category = $4, quantity = $5, price = $6, status = $7, updated_at = $8
		WHERE id = $1 AND owner_id = $2`,
		it.ID, it.OwnerID, it.Name, it.Category, it.Quantity, it.Price, string(it.Status), it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	return expectOneRow(res)
}

func (r *ItemRepository) Delete(ctx context.Context, ownerID, id string) error {
	if !validUUIDs(ownerID, id) {
		return domain.ErrItemNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM items WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// validUUIDs guards queries against non-UUID input, which Postgres would
// reject with a cast error instead of matching no rows.
func validUUIDs(ids ...string) bool {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return false
		}
	}
	return true
}
