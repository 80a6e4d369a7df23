package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/Varun5711/accounts/internal/config"
	"github.com/redis/go-redis/v9"
)

// Client wraps the shared go-redis client used by the cache, the
// registration lock and the event stream.
type Client struct {
	rdb *redis.Client
}

// Connect dials Redis and verifies it answers. Callers should only invoke it
// when cfg.Enabled() is true.
func Connect(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return &Client{rdb: rdb}, nil
}

// Redis returns the underlying client, or nil for a nil *Client so that
// optional consumers can be handed it unconditionally.
func (c *Client) Redis() *redis.Client {
	if c == nil {
		return nil
	}
	return c.rdb
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}

func (c *Client) Stats() map[string]interface{} {
	if c == nil {
		return nil
	}
	stats := c.rdb.PoolStats()
	return map[string]interface{}{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
	}
}
