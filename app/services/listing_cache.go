// Package services provides technical integrations used by the business flows: listing caches and blob storage
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/amirphl/helper-registry/app/dto"
	"github.com/jellydator/ttlcache/v3"
	"github.com/redis/go-redis/v9"
)

// ListingCache caches helper listings per sort key.
// Every write to helpers or summaries must call Invalidate. Readers take the
// Generation before loading rows and hand it to Set, which drops rows loaded
// before a newer invalidation.
type ListingCache interface {
	Get(ctx context.Context, sortKey string) ([]dto.HelperListingDTO, bool, error)
	Generation(ctx context.Context) (int64, error)
	Set(ctx context.Context, generation int64, sortKey string, rows []dto.HelperListingDTO) (bool, error)
	Invalidate(ctx context.Context) error
}

// RedisListingCache stores all listings of one registry in a single hash so
// invalidation is one DEL shared by every process. A counter next to the hash
// is bumped by every invalidation.
type RedisListingCache struct {
	rc            *redis.Client
	key           string
	generationKey string
	ttl           time.Duration
}

// NewRedisListingCache creates a redis backed listing cache
func NewRedisListingCache(rc *redis.Client, key string, ttl time.Duration) *RedisListingCache {
	return &RedisListingCache{rc: rc, key: key, generationKey: key + ":generation", ttl: ttl}
}

// setIfGenerationScript writes the listing only while the generation is unchanged
var setIfGenerationScript = redis.NewScript(`
local current = redis.call("GET", KEYS[2]) or "0"
if current ~= ARGV[1] then
	return 0
end
redis.call("HSET", KEYS[1], ARGV[2], ARGV[3])
if tonumber(ARGV[4]) > 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[4])
end
return 1
`)

func (c *RedisListingCache) Get(ctx context.Context, sortKey string) ([]dto.HelperListingDTO, bool, error) {
	raw, err := c.rc.HGet(ctx, c.key, sortKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis hget %s: %w", c.key, err)
	}

	var rows []dto.HelperListingDTO
	if err := json.Unmarshal(raw, &rows); err != nil {
		// Corrupt entry: drop it and report a miss
		_ = c.rc.HDel(ctx, c.key, sortKey).Err()
		return nil, false, nil
	}
	return rows, true, nil
}

func (c *RedisListingCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.rc.Get(ctx, c.generationKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get %s: %w", c.generationKey, err)
	}
	return gen, nil
}

func (c *RedisListingCache) Set(ctx context.Context, generation int64, sortKey string, rows []dto.HelperListingDTO) (bool, error) {
	raw, err := json.Marshal(rows)
	if err != nil {
		return false, err
	}

	stored, err := setIfGenerationScript.Run(ctx, c.rc,
		[]string{c.key, c.generationKey},
		strconv.FormatInt(generation, 10), sortKey, raw, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, fmt.Errorf("redis hset %s: %w", c.key, err)
	}
	return stored == 1, nil
}

func (c *RedisListingCache) Invalidate(ctx context.Context) error {
	pipe := c.rc.TxPipeline()
	pipe.Incr(ctx, c.generationKey)
	pipe.Del(ctx, c.key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis invalidate %s: %w", c.key, err)
	}
	return nil
}

// MemoryListingCache is a per-process listing cache. Writes made by other
// processes never reach it, so it is only valid for a single process.
type MemoryListingCache struct {
	mu         sync.Mutex
	generation int64
	cache      *ttlcache.Cache[string, []dto.HelperListingDTO]
}

// NewMemoryListingCache creates an in-process listing cache and starts its
// expiration loop. Call Stop to release it.
func NewMemoryListingCache(ttl time.Duration) *MemoryListingCache {
	cache := ttlcache.New[string, []dto.HelperListingDTO](
		ttlcache.WithTTL[string, []dto.HelperListingDTO](ttl),
		ttlcache.WithDisableTouchOnHit[string, []dto.HelperListingDTO](),
	)
	go cache.Start()
	return &MemoryListingCache{cache: cache}
}

func (c *MemoryListingCache) Get(_ context.Context, sortKey string) ([]dto.HelperListingDTO, bool, error) {
	item := c.cache.Get(sortKey)
	if item == nil {
		return nil, false, nil
	}
	return cloneListing(item.Value()), true, nil
}

func (c *MemoryListingCache) Generation(_ context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation, nil
}

func (c *MemoryListingCache) Set(_ context.Context, generation int64, sortKey string, rows []dto.HelperListingDTO) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		return false, nil
	}
	c.cache.Set(sortKey, cloneListing(rows), ttlcache.DefaultTTL)
	return true, nil
}

func (c *MemoryListingCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.cache.DeleteAll()
	return nil
}

// Stop ends the expiration loop
func (c *MemoryListingCache) Stop() {
	c.cache.Stop()
}

func cloneListing(rows []dto.HelperListingDTO) []dto.HelperListingDTO {
	out := make([]dto.HelperListingDTO, len(rows))
	for i, r := range rows {
		services := make([]string, len(r.Services))
		copy(services, r.Services)
		r.Services = services
		out[i] = r
	}
	return out
}
