package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"github.com/prajwalbharadwajbm/hashroute/internal/database"
	"github.com/prajwalbharadwajbm/hashroute/internal/models"
	"github.com/prajwalbharadwajbm/hashroute/internal/service"
)

// PostgresEventLog implements service.EventLog using PostgreSQL
type PostgresEventLog struct {
	db *database.DB
}

// NewPostgresEventLog creates a new PostgreSQL event log
func NewPostgresEventLog(db *database.DB) service.EventLog {
	return &PostgresEventLog{
		db: db,
	}
}

// Record inserts a navigation event
func (r *PostgresEventLog) Record(ctx context.Context, event models.NavigationEvent) error {
	query := `
		INSERT INTO navigation_events (session_id, kind, from_path, to_path, route_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.SessionID,
		string(event.Kind),
		event.FromPath,
		event.ToPath,
		event.RouteName,
		event.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("failed to insert navigation event (%s): %w", pqErr.Code.Name(), err)
		}
		return fmt.Errorf("failed to insert navigation event: %w", err)
	}
	return nil
}

// Recent returns the latest events of a session, newest first
func (r *PostgresEventLog) Recent(ctx context.Context, sessionID string, limit int) ([]models.NavigationEvent, error) {
	query := `
		SELECT id, session_id, kind, from_path, to_path, route_name, created_at
		FROM navigation_events
		WHERE session_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query navigation events: %w", err)
	}
	defer rows.Close()

	events := make([]models.NavigationEvent, 0)
	for rows.Next() {
		var event models.NavigationEvent
		var kind string
		if err := rows.Scan(
			&event.ID,
			&event.SessionID,
			&kind,
			&event.FromPath,
			&event.ToPath,
			&event.RouteName,
			&event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan navigation event: %w", err)
		}
		event.Kind = models.EventKind(kind)
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over navigation event rows: %w", err)
	}

	return events, nil
}
