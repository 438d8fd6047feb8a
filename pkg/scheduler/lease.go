package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// QueueDepthCache is a Redis-backed fast path for the health/queue-depth
// endpoint: rather than every pod hitting Postgres for a COUNT(*) on every
// poll, one pod at a time refreshes a shared cached value, claimed with a
// short-lived SETNX lease. Grounded on the reference stack's token-store
// Set/Get/Del pattern over go-redis, repurposed from auth tokens to a
// distributed refresh lock.
type QueueDepthCache struct {
	Client *redis.Client
	TTL    time.Duration // how long a cached value is served before refresh
	Lease  time.Duration // how long the refresh lock is held
}

const (
	queueDepthKey      = "enchant:scheduler:queue_depth"
	queueDepthLeaseKey = "enchant:scheduler:queue_depth:refresh_lock"
)

// NewQueueDepthCache returns a cache with production-sized defaults.
func NewQueueDepthCache(client *redis.Client) *QueueDepthCache {
	return &QueueDepthCache{Client: client, TTL: 5 * time.Second, Lease: 2 * time.Second}
}

// Get returns the cached queue depth if fresh. Otherwise it attempts to
// acquire the refresh lease; the pod that wins calls compute, caches the
// result and returns it, while every other pod either serves a slightly
// stale cached value or falls through to compute directly if none exists
// yet.
func (c *QueueDepthCache) Get(ctx context.Context, compute func() (int, error)) (int, error) {
	if cached, ok, err := c.read(ctx); err == nil && ok {
		return cached, nil
	}

	acquired, err := c.Client.SetNX(ctx, queueDepthLeaseKey, "1", c.Lease).Result()
	if err != nil {
		return compute()
	}
	if !acquired {
		if cached, ok, err := c.read(ctx); err == nil && ok {
			return cached, nil
		}
		return compute()
	}

	depth, err := compute()
	if err != nil {
		return 0, err
	}
	if err := c.Client.Set(ctx, queueDepthKey, strconv.Itoa(depth), c.TTL).Err(); err != nil {
		return depth, nil // compute succeeded; caching is best-effort
	}
	return depth, nil
}

func (c *QueueDepthCache) read(ctx context.Context) (int, bool, error) {
	val, err := c.Client.Get(ctx, queueDepthKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("queue depth cache read: %w", err)
	}
	depth, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("queue depth cache decode: %w", err)
	}
	return depth, true, nil
}
