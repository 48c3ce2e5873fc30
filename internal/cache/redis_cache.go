package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	rdb *redis.Client
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb}
}

func (c *RedisCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	s, err := c.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dst); err != nil {
		// data corrupt: treat as miss by deleting
		_ = c.rdb.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (c *RedisCache) SetJSON(ctx context.Context, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

func (c *RedisCache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// versionKey sits outside prefix so the scan in Invalidate never deletes it.
func versionKey(prefix string) string { return "version:" + prefix }

func (c *RedisCache) Version(ctx context.Context, prefix string) (int64, error) {
	v, err := c.rdb.Get(ctx, versionKey(prefix)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return v, err
}

func (c *RedisCache) Invalidate(ctx context.Context, prefix string) error {
	// bump first: fills that started before this call write to dead keys
	if err := c.rdb.Incr(ctx, versionKey(prefix)).Err(); err != nil {
		return err
	}
	var batch []string
	it := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for it.Next(ctx) {
		batch = append(batch, it.Val())
		if len(batch) == 100 {
			if err := c.Del(ctx, batch...); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := it.Err(); err != nil {
		return err
	}
	return c.Del(ctx, batch...)
}
