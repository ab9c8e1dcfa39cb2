package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/kapu/cinefact-client-go/internal/api"
	"github.com/kapu/cinefact-client-go/internal/constants"
	"github.com/kapu/cinefact-client-go/internal/domain"
	"github.com/kapu/cinefact-client-go/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Loader fetches a fact when the cache has nothing live for a key.
type Loader func(ctx context.Context) api.Result[domain.MovieFact]

type factEntry struct {
	value     domain.MovieFact
	expiresAt time.Time
}

// FactCache memoizes generated-fact fetches for a short window.
// Tier 1: in-memory map, expiry checked at read time.
// Tier 2: Redis, optional, shared across client processes.
// Only successful results are stored; a failure always falls through so
// the next read retries the loader. There is one entry per logical key
// (identity + movie pair) and Invalidate removes it from every tier.
type FactCache struct {
	mu      sync.Mutex
	entries map[string]factEntry
	ttl     time.Duration
	redis   *redis.Client
	logger  *zap.Logger
	now     func() time.Time
}

type Config struct {
	TTL    time.Duration
	Redis  *redis.Client // nil disables the second tier
	Logger *zap.Logger
}

func New(cfg Config) *FactCache {
	if cfg.TTL == 0 {
		cfg.TTL = constants.CacheTTL.MovieFact
	}
	return &FactCache{
		entries: make(map[string]factEntry),
		ttl:     cfg.TTL,
		redis:   cfg.Redis,
		logger:  cfg.Logger,
		now:     time.Now,
	}
}

// Read returns the live entry for key if one exists, otherwise runs the
// loader. Concurrent reads for the same cold key may each run their own
// loader; the last stored value wins, which is all the contract asks.
func (c *FactCache) Read(ctx context.Context, key string, load Loader) api.Result[domain.MovieFact] {
	if fact, ok := c.lookupMemory(key); ok {
		return api.Ok(fact)
	}

	if fact, ok := c.lookupRedis(ctx, key); ok {
		return api.Ok(fact)
	}

	result := load(ctx)
	if result.OK {
		c.store(ctx, key, result.Data)
	}
	return result
}

// Invalidate removes any entry for key from every tier, unconditionally.
// Callers that perform a write affecting a future read must call this.
func (c *FactCache) Invalidate(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	if c.redis != nil {
		if err := c.redis.Del(ctx, key).Err(); err != nil {
			c.logger.Error("Cache invalidate failed", zap.String("key", key), zap.Error(err))
			return errors.NewCacheError("invalidate failed", "del", key, err)
		}
	}

	c.logger.Debug("Cache entry invalidated", zap.String("key", key))
	return nil
}

func (c *FactCache) lookupMemory(key string) (domain.MovieFact, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return domain.MovieFact{}, false
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return domain.MovieFact{}, false
	}
	return entry.value, true
}

func (c *FactCache) lookupRedis(ctx context.Context, key string) (domain.MovieFact, bool) {
	if c.redis == nil {
		return domain.MovieFact{}, false
	}

	data, err := c.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return domain.MovieFact{}, false
	}
	if err != nil {
		c.logger.Warn("Cache redis get failed, falling through to loader",
			zap.String("key", key), zap.Error(err))
		return domain.MovieFact{}, false
	}

	var fact domain.MovieFact
	if err := json.Unmarshal(data, &fact); err != nil {
		c.logger.Warn("Cache redis entry unreadable", zap.String("key", key), zap.Error(err))
		return domain.MovieFact{}, false
	}

	// Re-populate the memory tier with whatever lifetime Redis still holds
	// so the entry never outlives its original TTL.
	remaining := c.ttl
	if ttl, err := c.redis.PTTL(ctx, key).Result(); err == nil && ttl > 0 && ttl < remaining {
		remaining = ttl
	}
	c.mu.Lock()
	c.entries[key] = factEntry{value: fact, expiresAt: c.now().Add(remaining)}
	c.mu.Unlock()

	return fact, true
}

func (c *FactCache) store(ctx context.Context, key string, fact domain.MovieFact) {
	expiresAt := c.now().Add(c.ttl)

	c.mu.Lock()
	c.entries[key] = factEntry{value: fact, expiresAt: expiresAt}
	c.mu.Unlock()

	if c.redis != nil {
		data, err := json.Marshal(fact)
		if err != nil {
			c.logger.Warn("Cache marshal failed", zap.String("key", key), zap.Error(err))
			return
		}
		if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("Cache redis set failed", zap.String("key", key), zap.Error(err))
		}
	}
}
