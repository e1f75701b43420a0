package config

import (
	"time"

	"github.com/prajwalbharadwajbm/hashroute/internal/cache"
)

// GetCacheConfig creates cache configuration from environment variables
func GetCacheConfig() cache.CacheConfig {
	return cache.CacheConfig{
		DefaultTTL:      getEnvDuration("CACHE_DEFAULT_TTL", 30*time.Minute),
		MemoryCacheSize: getEnvInt("CACHE_MEMORY_SIZE", 10000),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		EnableMemory:    getEnvBool("CACHE_ENABLE_MEMORY", true),
		EnableRedis:     getEnvBool("CACHE_ENABLE_REDIS", false),
		CleanupInterval: getEnvDuration("CACHE_CLEANUP_INTERVAL", time.Minute),
	}
}

// GetSessionTTL is how long an idle navigation session is kept
func GetSessionTTL() time.Duration {
	return getEnvDuration("SESSION_TTL", 24*time.Hour)
}
