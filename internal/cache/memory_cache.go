package cache

import (
	"sync"
	"time"

	"github.com/prajwalbharadwajbm/hashroute/internal/models"
)

// cacheItem represents a cached session with expiration
type cacheItem struct {
	session   models.Session
	expiresAt time.Time
}

func (ci *cacheItem) isExpired(now time.Time) bool {
	return now.After(ci.expiresAt)
}

// memoryCache implements in-memory session caching with TTL
type memoryCache struct {
	items    map[string]*cacheItem
	mu       sync.RWMutex
	maxSize  int
	stopChan chan struct{}
	stopOnce sync.Once
}

func newMemoryCache(maxSize int, cleanupInterval time.Duration) *memoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = 5 * time.Minute
	}
	mc := &memoryCache{
		items:    make(map[string]*cacheItem),
		maxSize:  maxSize,
		stopChan: make(chan struct{}),
	}

	go mc.cleanup(cleanupInterval)

	return mc
}

func (mc *memoryCache) get(id string) (models.Session, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	item, exists := mc.items[id]
	if !exists || item.isExpired(time.Now()) {
		return models.Session{}, false
	}
	return item.session, true
}

func (mc *memoryCache) set(session models.Session, ttl time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.items[session.ID] = &cacheItem{
		session:   session,
		expiresAt: time.Now().Add(ttl),
	}

	mc.evictIfNeeded()
}

func (mc *memoryCache) delete(id string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	delete(mc.items, id)
}

func (mc *memoryCache) clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.items = make(map[string]*cacheItem)
}

// evictIfNeeded removes expired items, then the ones closest to expiry until
// the cache fits. Caller holds the lock
func (mc *memoryCache) evictIfNeeded() {
	now := time.Now()
	for key, item := range mc.items {
		if item.isExpired(now) {
			delete(mc.items, key)
		}
	}

	if mc.maxSize <= 0 {
		return
	}
	for len(mc.items) > mc.maxSize {
		var oldestKey string
		var oldest time.Time
		for key, item := range mc.items {
			if oldestKey == "" || item.expiresAt.Before(oldest) {
				oldestKey = key
				oldest = item.expiresAt
			}
		}
		delete(mc.items, oldestKey)
	}
}

// cleanup periodically removes expired items
func (mc *memoryCache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			mc.mu.Lock()
			for key, item := range mc.items {
				if item.isExpired(now) {
					delete(mc.items, key)
				}
			}
			mc.mu.Unlock()
		case <-mc.stopChan:
			return
		}
	}
}

func (mc *memoryCache) close() {
	mc.stopOnce.Do(func() { close(mc.stopChan) })
}

func (mc *memoryCache) size() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.items)
}
