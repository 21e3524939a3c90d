package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rental-service/internal/config"
)

// revokedKeyPrefix namespaces denylisted token IDs
const revokedKeyPrefix = "token:revoked:"

// Client wraps the Redis client with application-specific methods.
// It backs logout: a revoked token ID stays denylisted until the token
// would have expired anyway.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks the connection to Redis
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// RevokeToken denylists a token ID for the remainder of its lifetime.
// A nil client is valid and makes revocation a no-op, mirroring how the
// service degrades when Redis is unavailable.
func (c *Client) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	if ttl <= 0 {
		return nil
	}
	return c.rdb.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl).Err()
}

// IsTokenRevoked reports whether a token ID has been denylisted. Errors
// fail open: an unreachable Redis must not lock every user out.
func (c *Client) IsTokenRevoked(ctx context.Context, tokenID string) bool {
	if c == nil {
		return false
	}
	n, err := c.rdb.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false
	}
	return n > 0
}
