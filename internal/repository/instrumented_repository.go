package repository

import (
	"context"

	"github.com/prajwalbharadwajbm/hashroute/internal/metrics"
	"github.com/prajwalbharadwajbm/hashroute/internal/models"
	"github.com/prajwalbharadwajbm/hashroute/internal/service"
)

// InstrumentedEventLog wraps an event log with metrics collection
type InstrumentedEventLog struct {
	next    service.EventLog
	metrics *metrics.Metrics
}

// NewInstrumentedEventLog creates a new instrumented event log
func NewInstrumentedEventLog(next service.EventLog, metrics *metrics.Metrics) service.EventLog {
	return &InstrumentedEventLog{
		next:    next,
		metrics: metrics,
	}
}

// Record implements service.EventLog with metrics
func (r *InstrumentedEventLog) Record(ctx context.Context, event models.NavigationEvent) error {
	r.metrics.RecordDatabaseQuery("insert", "navigation_events")
	err := r.next.Record(ctx, event)
	if err != nil {
		r.metrics.RecordDatabaseError("insert", "query_error")
	}
	return err
}

// Recent implements service.EventLog with metrics
func (r *InstrumentedEventLog) Recent(ctx context.Context, sessionID string, limit int) ([]models.NavigationEvent, error) {
	r.metrics.RecordDatabaseQuery("select", "navigation_events")
	events, err := r.next.Recent(ctx, sessionID, limit)
	if err != nil {
		r.metrics.RecordDatabaseError("select", "query_error")
	}
	return events, err
}
