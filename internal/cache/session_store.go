package cache

import (
	"context"
	"errors"
	"time"

	"github.com/prajwalbharadwajbm/hashroute/internal/metrics"
	"github.com/prajwalbharadwajbm/hashroute/internal/models"
	"github.com/prajwalbharadwajbm/hashroute/internal/service"
)

// SessionStore persists navigation sessions in a Cache
type SessionStore struct {
	cache   Cache
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewSessionStore creates a session store; sessions expire ttl after their
// last save. metrics may be nil
func NewSessionStore(cache Cache, ttl time.Duration, metrics *metrics.Metrics) service.SessionStore {
	return &SessionStore{
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
	}
}

// Load returns the session, or found=false when it is unknown or expired
func (s *SessionStore) Load(ctx context.Context, id string) (models.Session, bool, error) {
	session, err := s.cache.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			s.recordLookup(false)
			return models.Session{}, false, nil
		}
		return models.Session{}, false, err
	}
	s.recordLookup(true)
	return session, true, nil
}

// Save stores the session and refreshes its expiry
func (s *SessionStore) Save(ctx context.Context, session models.Session) error {
	return s.cache.SetSession(ctx, session, s.ttl)
}

// Delete forgets a session
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.cache.DeleteSession(ctx, id)
}

// Stats returns cache performance statistics
func (s *SessionStore) Stats() CacheStats {
	return s.cache.GetStats()
}

func (s *SessionStore) recordLookup(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(hit)
	}
}
