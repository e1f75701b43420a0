package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prajwalbharadwajbm/hashroute/internal/models"
)

// Cache defines the interface for navigation session caching
type Cache interface {
	GetSession(ctx context.Context, id string) (models.Session, error)
	SetSession(ctx context.Context, session models.Session, ttl time.Duration) error
	DeleteSession(ctx context.Context, id string) error

	// Cache management
	InvalidateAll(ctx context.Context) error
	GetStats() CacheStats
	Close() error
}

// CacheStats holds cache performance statistics
type CacheStats struct {
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	Errors      int64     `json:"errors"`
	HitRatio    float64   `json:"hit_ratio"`
	TotalOps    int64     `json:"total_ops"`
	LastUpdated time.Time `json:"last_updated"`
}

// HybridCache keeps sessions in Redis when it is enabled, so several server
// instances share them, and in process memory otherwise. Redis is the only
// tier read in that mode: a per-process copy would go stale as soon as
// another instance saves the session. Per-session serialisation is still
// per-process
type HybridCache struct {
	memoryCache *memoryCache
	redisCache  *redisCache
	config      CacheConfig
	stats       CacheStats
	mu          sync.RWMutex
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	DefaultTTL      time.Duration
	MemoryCacheSize int
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	EnableMemory    bool
	EnableRedis     bool
	CleanupInterval time.Duration
}

// ErrCacheMiss is returned when a session is in neither tier
var ErrCacheMiss = errors.New("cache miss")

// NewHybridCache creates a new hybrid cache
func NewHybridCache(config CacheConfig) (*HybridCache, error) {
	hc := &HybridCache{
		config: config,
		stats: CacheStats{
			LastUpdated: time.Now(),
		},
	}

	if config.EnableMemory && !config.EnableRedis {
		hc.memoryCache = newMemoryCache(config.MemoryCacheSize, config.CleanupInterval)
	}

	if config.EnableRedis {
		var err error
		hc.redisCache, err = newRedisCache(config)
		if err != nil {
			hc.Close()
			return nil, fmt.Errorf("failed to initialize Redis cache: %w", err)
		}
	}

	return hc, nil
}

// GetSession reads the session from whichever tier is active
func (hc *HybridCache) GetSession(ctx context.Context, id string) (models.Session, error) {
	if hc.memoryCache != nil {
		if session, found := hc.memoryCache.get(id); found {
			hc.recordHit()
			return session, nil
		}
	}

	if hc.redisCache != nil {
		session, err := hc.redisCache.getSession(ctx, id)
		if err == nil {
			hc.recordHit()
			return session, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			hc.recordError()
			return models.Session{}, fmt.Errorf("cache read error: %w", err)
		}
	}

	hc.recordMiss()
	return models.Session{}, ErrCacheMiss
}

// SetSession stores the session in the active tier
func (hc *HybridCache) SetSession(ctx context.Context, session models.Session, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = hc.config.DefaultTTL
	}

	if hc.memoryCache != nil {
		hc.memoryCache.set(session, ttl)
	}

	if hc.redisCache != nil {
		if err := hc.redisCache.setSession(ctx, session, ttl); err != nil {
			hc.recordError()
			return fmt.Errorf("cache store error: %w", err)
		}
	}

	return nil
}

// DeleteSession removes the session from the active tier
func (hc *HybridCache) DeleteSession(ctx context.Context, id string) error {
	if hc.memoryCache != nil {
		hc.memoryCache.delete(id)
	}

	if hc.redisCache != nil {
		if err := hc.redisCache.deleteSession(ctx, id); err != nil {
			hc.recordError()
			return fmt.Errorf("cache delete error: %w", err)
		}
	}

	return nil
}

// InvalidateAll clears all caches
func (hc *HybridCache) InvalidateAll(ctx context.Context) error {
	if hc.memoryCache != nil {
		hc.memoryCache.clear()
	}

	if hc.redisCache != nil {
		if err := hc.redisCache.clear(ctx); err != nil {
			return fmt.Errorf("cache invalidation error: %w", err)
		}
	}

	return nil
}

// GetStats returns cache statistics
func (hc *HybridCache) GetStats() CacheStats {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	stats := hc.stats
	if stats.TotalOps > 0 {
		stats.HitRatio = float64(stats.Hits) / float64(stats.TotalOps)
	}
	return stats
}

// Close stops the memory janitor and closes the Redis client
func (hc *HybridCache) Close() error {
	if hc.memoryCache != nil {
		hc.memoryCache.close()
		hc.memoryCache = nil
	}
	if hc.redisCache != nil {
		err := hc.redisCache.close()
		hc.redisCache = nil
		return err
	}
	return nil
}

// Ping checks the Redis tier; a memory-only cache is always reachable
func (hc *HybridCache) Ping(ctx context.Context) error {
	if hc.redisCache == nil {
		return nil
	}
	return hc.redisCache.ping(ctx)
}

func (hc *HybridCache) recordHit() {
	hc.mu.Lock()
	hc.stats.Hits++
	hc.stats.TotalOps++
	hc.stats.LastUpdated = time.Now()
	hc.mu.Unlock()
}

func (hc *HybridCache) recordMiss() {
	hc.mu.Lock()
	hc.stats.Misses++
	hc.stats.TotalOps++
	hc.stats.LastUpdated = time.Now()
	hc.mu.Unlock()
}

func (hc *HybridCache) recordError() {
	hc.mu.Lock()
	hc.stats.Errors++
	hc.mu.Unlock()
}
