package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore connects to TEST_REDIS_ADDR. Tests are skipped when the
// variable is unset.
func newTestStore(t *testing.T) *IdempotencyStore {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	client, err := Connect(context.Background(), Config{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewIdempotencyStore(client, time.Minute)
}

func TestIdempotencyStore_ReserveCompleteReplay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner, key := uuid.NewString(), uuid.NewString()

	existing, reserved, err := store.Reserve(ctx, owner, key)
	require.NoError(t, err)
	assert.True(t, reserved)
	assert.Empty(t, existing)

	// Still pending: a concurrent retry neither reserves nor sees an item.
	existing, reserved, err = store.Reserve(ctx, owner, key)
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Empty(t, existing)

	require.NoError(t, store.Complete(ctx, owner, key, "item-1"))

	existing, reserved, err = store.Reserve(ctx, owner, key)
	require.NoError(t, err)
	assert.False(t, reserved)
	assert.Equal(t, "item-1", existing)

	// The same key from another owner is independent.
	_, reserved, err = store.Reserve(ctx, uuid.NewString(), key)
	require.NoError(t, err)
	assert.True(t, reserved)
}

func TestIdempotencyStore_Release(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	owner, key := uuid.NewString(), uuid.NewString()

	_, reserved, err := store.Reserve(ctx, owner, key)
	require.NoError(t, err)
	require.True(t, reserved)

	require.NoError(t, store.Release(ctx, owner, key))

	_, reserved, err = store.Reserve(ctx, owner, key)
	require.NoError(t, err)
	assert.True(t, reserved)
}

func TestIdempotencyStore_KeyFormat(t *testing.T) {
	s := NewIdempotencyStore(nil, 0)
	assert.Equal(t, "idem:items:owner:abc", s.key("owner", "abc"))
	assert.Equal(t, defaultIdempotencyTTL, s.ttl)
}
