package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prajwalbharadwajbm/hashroute/internal/models"
)

const keyPrefix = "hashroute:session:"

// redisCache implements Redis-based session caching
type redisCache struct {
	client *redis.Client
}

func newRedisCache(config CacheConfig) (*redisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisCache{client: client}, nil
}

func (rc *redisCache) getSession(ctx context.Context, id string) (models.Session, error) {
	data, err := rc.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return models.Session{}, ErrCacheMiss
		}
		return models.Session{}, fmt.Errorf("Redis get error: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		// An unreadable payload is dropped like an expired one
		return models.Session{}, fmt.Errorf("%w: JSON unmarshal error: %v", ErrCacheMiss, err)
	}
	return session, nil
}

func (rc *redisCache) setSession(ctx context.Context, session models.Session, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("JSON marshal error: %w", err)
	}

	if err := rc.client.Set(ctx, keyPrefix+session.ID, data, ttl).Err(); err != nil {
		return fmt.Errorf("Redis set error: %w", err)
	}
	return nil
}

func (rc *redisCache) deleteSession(ctx context.Context, id string) error {
	if err := rc.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("Redis delete error: %w", err)
	}
	return nil
}

// clear removes every session key
func (rc *redisCache) clear(ctx context.Context) error {
	iter := rc.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("Redis scan error: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := rc.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("Redis delete error: %w", err)
	}
	return nil
}

func (rc *redisCache) ping(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

func (rc *redisCache) close() error {
	return rc.client.Close()
}
