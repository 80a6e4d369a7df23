package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a two-tier cache: an in-process LRU in front of an optional
// shared Redis tier. With a nil Redis client it is L1 only. An unreachable
// L2 degrades to a miss.
type Cache struct {
	l1    *LRUCache
	l2    *redis.Client
	l2TTL time.Duration

	l1Hits   atomic.Uint64
	l2Hits   atomic.Uint64
	misses   atomic.Uint64
	l2Errors atomic.Uint64
}

func NewMultiTierCache(l1 *LRUCache, redisClient *redis.Client, l2TTL time.Duration) *Cache {
	return &Cache{l1: l1, l2: redisClient, l2TTL: l2TTL}
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if val, ok := c.l1.Get(key); ok {
		c.l1Hits.Add(1)
		return val, true
	}

	if c.l2 != nil {
		val, err := c.l2.Get(ctx, key).Result()
		switch {
		case err == nil:
			c.l2Hits.Add(1)
			c.l1.Set(key, val)
			return val, true
		case !errors.Is(err, redis.Nil):
			c.l2Errors.Add(1)
		}
	}

	c.misses.Add(1)
	return "", false
}

// Set writes through both tiers; the L1 write always happens.
func (c *Cache) Set(ctx context.Context, key, value string) error {
	c.l1.Set(key, value)
	if c.l2 == nil {
		return nil
	}
	return c.l2.Set(ctx, key, value, c.l2TTL).Err()
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.l1.Delete(key)
	if c.l2 == nil {
		return nil
	}
	return c.l2.Del(ctx, key).Err()
}

// GetJSON decodes a cached value into dest. A corrupt entry is evicted and
// reported as an error.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, ok := c.Get(ctx, key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		c.l1.Delete(key)
		return false, err
	}
	return true, nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, string(data))
}

type Stats struct {
	L1Hits   uint64 `json:"l1_hits"`
	L2Hits   uint64 `json:"l2_hits"`
	Misses   uint64 `json:"misses"`
	L2Errors uint64 `json:"l2_errors"`
	L1Size   int    `json:"l1_size"`
}

func (c *Cache) Stats() Stats {
	return Stats{
		L1Hits:   c.l1Hits.Load(),
		L2Hits:   c.l2Hits.Load(),
		Misses:   c.misses.Load(),
		L2Errors: c.l2Errors.Load(),
		L1Size:   c.l1.Len(),
	}
}
