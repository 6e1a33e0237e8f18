// Package rediscache provides an optional Redis-backed cache for
// aggregated snapshots and the persisted auth tokens.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned when a key is absent from the cache.
var ErrMiss = errors.New("rediscache: miss")

// Client wraps Redis operations for the dashboard cache.
type Client struct {
	rdb *redis.Client
}

// Config holds Redis connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// Enabled reports whether a Redis cache is configured at all.
func (c Config) Enabled() bool {
	return c.URL != ""
}

// NewClient creates a new Redis client.
func NewClient(cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Key helpers
func snapshotKey(name string) string {
	return fmt.Sprintf("balldash:snapshot:%s", name)
}

func tokenKey(name string) string {
	return fmt.Sprintf("balldash:token:%s", name)
}

// PutSnapshot stores a JSON-encoded snapshot under a short TTL. Cached
// snapshots only bridge restarts and request bursts; they expire on
// their own and are never treated as authoritative.
func (c *Client) PutSnapshot(ctx context.Context, name string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.rdb.Set(ctx, snapshotKey(name), data, ttl).Err(); err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}
	return nil
}

// GetSnapshot loads a snapshot into v. Returns ErrMiss when absent or expired.
func (c *Client) GetSnapshot(ctx context.Context, name string, v any) error {
	data, err := c.rdb.Get(ctx, snapshotKey(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("get snapshot: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	return nil
}

// SetToken stores one auth token under its fixed name.
func (c *Client) SetToken(ctx context.Context, name, value string) error {
	if value == "" {
		return c.rdb.Del(ctx, tokenKey(name)).Err()
	}
	return c.rdb.Set(ctx, tokenKey(name), value, 0).Err()
}

// GetToken loads one auth token. A missing token is returned as "".
func (c *Client) GetToken(ctx context.Context, name string) (string, error) {
	val, err := c.rdb.Get(ctx, tokenKey(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get token: %w", err)
	}
	return val, nil
}
