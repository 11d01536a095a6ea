package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cooldown implements usecase.CooldownLimiter as a fixed-window counter.
type Cooldown struct {
	client *redis.Client
	prefix string
}

// NewCooldown creates a new Cooldown.
func NewCooldown(client *redis.Client) *Cooldown {
	return &Cooldown{
		client: client,
		prefix: "cooldown:",
	}
}

// Allow increments the counter of key and reports whether it is still within threshold.
// The window starts with the first attempt.
func (c *Cooldown) Allow(ctx context.Context, key string, window time.Duration, threshold int) (bool, error) {
	fullKey := c.prefix + key

	count, err := c.client.Incr(ctx, fullKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := c.client.Expire(ctx, fullKey, window).Err(); err != nil {
			return false, err
		}
	}

	return count <= int64(threshold), nil
}
