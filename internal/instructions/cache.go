package instructions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

var ErrCacheMiss = errors.New("cache miss")

type Cache interface {
	Get(ctx context.Context) (Instructions, error)
	Set(ctx context.Context, ins Instructions) error
	Invalidate(ctx context.Context) error
}

// MemoryCache holds the current instructions in process for ttl.
type MemoryCache struct {
	mu        sync.RWMutex
	ttl       time.Duration
	value     Instructions
	expiresAt time.Time
	valid     bool
	now       func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context) (Instructions, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.valid || !c.now().Before(c.expiresAt) {
		return Instructions{}, ErrCacheMiss
	}
	return c.value, nil
}

func (c *MemoryCache) Set(_ context.Context, ins Instructions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = ins
	c.expiresAt = c.now().Add(c.ttl)
	c.valid = true
	return nil
}

func (c *MemoryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
	c.value = Instructions{}
	return nil
}

const redisKey = "genstudio:system-instructions"

// RedisCache shares the cached instructions between service replicas.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context) (Instructions, error) {
	data, err := c.client.Get(ctx, redisKey).Result()
	if errors.Is(err, redis.Nil) {
		return Instructions{}, ErrCacheMiss
	}
	if err != nil {
		return Instructions{}, fmt.Errorf("get instructions from cache: %w", err)
	}

	var ins Instructions
	if err := json.Unmarshal([]byte(data), &ins); err != nil {
		return Instructions{}, fmt.Errorf("unmarshal cached instructions: %w", err)
	}
	return ins, nil
}

func (c *RedisCache) Set(ctx context.Context, ins Instructions) error {
	data, err := json.Marshal(ins)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, redisKey, data, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, redisKey).Err()
}
