package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "chat:resp:"

// RedisCache stores entries in Redis with server-side TTL. Capacity is not
// enforced here: expiry alone bounds the key space, matching the contract
// the in-memory store enforces with count-based eviction.
type RedisCache struct {
	client     *redisv9.Client
	defaultTTL time.Duration

	hits   atomic.Int64
	misses atomic.Int64
	sets   atomic.Int64
}

func NewRedis(client *redisv9.Client, defaultTTL time.Duration) *RedisCache {
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	return &RedisCache{
		client:     client,
		defaultTTL: defaultTTL,
	}
}

func (c *RedisCache) Get(ctx context.Context, question, userID string) (*Entry, bool) {
	key := redisKeyPrefix + Key(question, userID)

	raw, err := c.client.Get(ctx, key).Result()
	if err == redisv9.Nil {
		c.misses.Add(1)
		return nil, false
	}
	if err != nil {
		// Backend trouble degrades to a miss; the pipeline recomputes.
		log.Printf("redis cache get failed: %v", err)
		c.misses.Add(1)
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		log.Printf("unmarshal cached entry failed: %v", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return &entry, true
}

func (c *RedisCache) Set(ctx context.Context, question, userID string, entry Entry, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	key := redisKeyPrefix + Key(question, userID)

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry failed: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set cache entry failed: %w", err)
	}
	c.sets.Add(1)
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, question, userID string) error {
	key := redisKeyPrefix + Key(question, userID)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis delete cache entry failed: %w", err)
	}
	return nil
}

func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis clear cache failed: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan cache keys failed: %w", err)
	}
	return nil
}

func (c *RedisCache) Stats() Stats {
	return buildStats(c.hits.Load(), c.misses.Load(), c.sets.Load(), "redis")
}
