package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a best-effort TTL response cache. Entries expire, nothing is
// invalidated on write, and a miss or backend failure is never an error the
// caller has to handle — readers fall through to the database.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration)
}

type redisCache struct {
	client *redis.Client
}

// NewRedis wraps a redis client as a Cache.
func NewRedis(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, raw, ttl)
}

type nopCache struct{}

// Nop returns a cache that never hits. Used before redis is wired up and in
// tests.
func Nop() Cache {
	return nopCache{}
}

func (nopCache) Get(ctx context.Context, key string, dest interface{}) bool { return false }

func (nopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {}
