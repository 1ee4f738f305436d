package identity

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache holds short-lived snapshots of resolved identities in Redis so the
// authority does not replay the full resolution for every gateway call.
// Entries are keyed by subject; a subject's tenant is determined by its user
// row, so the subject key covers the subject+tenant pair. Every role,
// permission or status change for a subject must invalidate its entry.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(subjectID string) string {
	return "identity:" + subjectID
}

// Get loads a cached identity snapshot. A miss or any Redis error reads as
// "not cached" so resolution falls through to the repository.
func (c *Cache) Get(ctx context.Context, subjectID string) (*Identity, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	payload, err := c.client.Get(ctx, cacheKey(subjectID)).Bytes()
	if err != nil {
		return nil, false
	}
	var snapshot Identity
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, false
	}
	return &snapshot, true
}

// Set stores a snapshot with the configured TTL.
func (c *Cache) Set(ctx context.Context, snapshot *Identity) error {
	if c == nil || c.client == nil || snapshot == nil {
		return nil
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(snapshot.User.ID), data, c.ttl).Err()
}

// Invalidate drops the snapshot for a subject.
func (c *Cache) Invalidate(ctx context.Context, subjectID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, cacheKey(subjectID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
