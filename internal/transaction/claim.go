package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"paygate/internal/constants"
)

// ClaimGuard grants a short exclusive claim on a provider reference
// so the same notification delivered twice in quick succession is
// processed once. The durable dedup lives in the audit store, the
// claim only closes the window between lookup and insert.
type ClaimGuard interface {
	Acquire(ctx context.Context, reference string) (bool, error)
	Release(ctx context.Context, reference string) error
}

type RedisClaim struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClaim(client *redis.Client, ttl time.Duration) *RedisClaim {
	return &RedisClaim{client: client, ttl: ttl}
}

func (c *RedisClaim) Acquire(ctx context.Context, reference string) (bool, error) {
	key := constants.CacheKeyPrefixClaim + reference
	acquired, err := c.client.SetNX(ctx, key, "1", c.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis SetNX failed: %w", err)
	}
	return acquired, nil
}

func (c *RedisClaim) Release(ctx context.Context, reference string) error {
	key := constants.CacheKeyPrefixClaim + reference
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis Del failed: %w", err)
	}
	return nil
}

// NopClaim grants every claim. Used when no cache is configured, the
// database unique constraint still prevents duplicate records.
type NopClaim struct{}

func (NopClaim) Acquire(ctx context.Context, reference string) (bool, error) {
	return true, nil
}

func (NopClaim) Release(ctx context.Context, reference string) error {
	return nil
}
