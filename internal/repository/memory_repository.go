package repository

import (
	"context"
	"sync"

	"github.com/prajwalbharadwajbm/hashroute/internal/models"
	"github.com/prajwalbharadwajbm/hashroute/internal/service"
)

// memoryEventLog implements service.EventLog in process memory. It is used
// when no database is configured and in tests.
type memoryEventLog struct {
	mu       sync.RWMutex
	events   []models.NavigationEvent
	nextID   int64
	capacity int
}

// NewMemoryEventLog creates an event log keeping at most capacity events
func NewMemoryEventLog(capacity int) service.EventLog {
	return &memoryEventLog{capacity: capacity}
}

// Record appends an event, dropping the oldest once full
func (r *memoryEventLog) Record(_ context.Context, event models.NavigationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	event.ID = r.nextID
	r.events = append(r.events, event)
	if r.capacity > 0 && len(r.events) > r.capacity {
		r.events = append([]models.NavigationEvent(nil), r.events[len(r.events)-r.capacity:]...)
	}
	return nil
}

// Recent returns the latest events of a session, newest first
func (r *memoryEventLog) Recent(_ context.Context, sessionID string, limit int) ([]models.NavigationEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]models.NavigationEvent, 0)
	for i := len(r.events) - 1; i >= 0 && len(events) < limit; i-- {
		if r.events[i].SessionID == sessionID {
			events = append(events, r.events[i])
		}
	}
	return events, nil
}
