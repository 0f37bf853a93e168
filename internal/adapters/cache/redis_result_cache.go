package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"greenfield-planner/internal/domain"
	"greenfield-planner/internal/platform/obs"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/redis/go-redis/v9"
)

const resultKeyPrefix = "gfa:result:v1:"

// RedisResultCache stores allocation results keyed by a hash of their input.
// Allocation is deterministic, so entries never go stale; the TTL only bounds memory.
type RedisResultCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisResultCache(client *redis.Client, ttl time.Duration) *RedisResultCache {
	return &RedisResultCache{Client: client, TTL: ttl}
}

// ResultKey derives the cache key for an input. encoding/json sorts map keys,
// so equal inputs always produce the same key.
func ResultKey(in domain.PlanInput) (string, error) {
	b, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("result key: encode input: %w", err)
	}
	return fmt.Sprintf("%s%016x", resultKeyPrefix, xxhash.Sum64(b)), nil
}

func (c *RedisResultCache) Get(ctx context.Context, in domain.PlanInput) (_ domain.Result, _ bool, err error) {
	defer obs.Time(ctx, "result.cache.Get")(&err)

	if c.Client == nil {
		return domain.Result{}, false, errors.New("result cache: redis client is nil")
	}

	key, err := ResultKey(in)
	if err != nil {
		return domain.Result{}, false, err
	}

	b, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Result{}, false, nil
	}
	if err != nil {
		return domain.Result{}, false, fmt.Errorf("get result cache: %w", err)
	}

	var res domain.Result
	if err := json.Unmarshal(b, &res); err != nil {
		return domain.Result{}, false, fmt.Errorf("get result cache: decode %s: %w", key, err)
	}
	return res, true, nil
}

func (c *RedisResultCache) Put(ctx context.Context, in domain.PlanInput, res domain.Result) error {
	if c.Client == nil {
		return errors.New("result cache: redis client is nil")
	}

	key, err := ResultKey(in)
	if err != nil {
		return err
	}

	b, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("put result cache: encode result: %w", err)
	}

	if err := c.Client.Set(ctx, key, b, c.TTL).Err(); err != nil {
		return fmt.Errorf("put result cache %s: %w", key, err)
	}
	return nil
}
