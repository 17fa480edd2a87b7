package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sirpyerre/inventory-api/internal/core/domain"
)

// openTestDB connects to TEST_MONGO_URI using a throwaway database. Tests are
// skipped when the variable is unset.
func openTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx := context.Background()
	client, db, err := Connect(ctx, Config{URI: uri, Database: fmt.Sprintf("inventory_test_%d", time.Now().UnixNano())})
	require.NoError(t, err)
	require.NoError(t, EnsureIndexes(ctx, db))

	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func TestAccountRepository_UniqueEmail(t *testing.T) {
	db := openTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Account{ID: uuid.NewString(), Username: "alice", Email: "alice@x.com", PasswordHash: "h", CreatedAt: time.Now()})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &domain.Account{ID: uuid.NewString(), Username: "alice2", Email: "alice@x.com", PasswordHash: "h", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, domain.ErrAccountExists)

	_, err = repo.FindByEmail(ctx, "ghost@x.com")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestItemRepository_OwnerScoping(t *testing.T) {
	db := openTestDB(t)
	repo := NewItemRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	item := &domain.Item{
		ID: uuid.NewString(), OwnerID: "owner-a", Name: "Saw", Category: "Tools",
		Quantity: 1, Price: 30, Status: domain.StatusInStock, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, item))

	_, err := repo.FindByID(ctx, "owner-b", item.ID)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "owner-b", item.ID), domain.ErrItemNotFound)

	listB, err := repo.ListByOwner(ctx, "owner-b")
	require.NoError(t, err)
	assert.Empty(t, listB)

	got, err := repo.FindByID(ctx, "owner-a", item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Saw", got.Name)

	require.NoError(t, repo.Delete(ctx, "owner-a", item.ID))
}
