package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	// pendingTTL bounds how long a crashed request can hold a key.
	pendingTTL = time.Minute
	pending    = "pending"
)

// IdempotencyStore remembers the item created for an Idempotency-Key.
// Key format: idem:items:<owner_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates a store wrapping the given Redis client.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve atomically claims the key. When it is already taken the stored item
// ID is returned, or "" while the first request is still in flight.
func (s *IdempotencyStore) Reserve(ctx context.Context, ownerID, key string) (string, bool, error) {
	k := s.key(ownerID, key)

	ok, err := s.client.SetNX(ctx, k, pending, pendingTTL).Result()
	if err != nil {
		return "", false, fmt.Errorf("idempotency reserve: %w", err)
	}
	if ok {
		return "", true, nil
	}

	val, err := s.client.Get(ctx, k).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Expired between SETNX and GET; treat as in flight and let the client retry.
			return "", false, nil
		}
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	if val == pending {
		return "", false, nil
	}
	return val, false, nil
}

// Complete binds the key to itemID for the configured TTL.
func (s *IdempotencyStore) Complete(ctx context.Context, ownerID, key, itemID string) error {
	return s.client.Set(ctx, s.key(ownerID, key), itemID, s.ttl).Err()
}

// Release drops a reservation so the client may retry.
func (s *IdempotencyStore) Release(ctx context.Context, ownerID, key string) error {
	return s.client.Del(ctx, s.key(ownerID, key)).Err()
}

func (s *IdempotencyStore) key(ownerID, key string) string {
	return fmt.Sprintf("idem:items:%s:%s", ownerID, key)
}
