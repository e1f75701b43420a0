package models

import (
	"time"

	"github.com/prajwalbharadwajbm/hashroute/internal/navigation"
)

// Session is the persisted navigation state of one client
type Session struct {
	ID        string           `json:"id"`
	History   navigation.State `json:"history"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NavigationState is what clients see after every navigation call
type NavigationState struct {
	SessionID    string      `json:"session_id"`
	Location     string      `json:"location"`
	Current      *RouteMatch `json:"current,omitempty"`
	Changed      bool        `json:"changed"`
	CanGoBack    bool        `json:"can_go_back"`
	CanGoForward bool        `json:"can_go_forward"`
}

// EventKind is the way a navigation happened
type EventKind string

// enum values for EventKind
const (
	EventPush     EventKind = "PUSH"
	EventReplace  EventKind = "REPLACE"
	EventTraverse EventKind = "TRAVERSE"
)

// NavigationEvent records an effective route change
type NavigationEvent struct {
	ID        int64     `json:"id" db:"id"`
	SessionID string    `json:"session_id" db:"session_id"`
	Kind      EventKind `json:"kind" db:"kind"`
	FromPath  string    `json:"from_path" db:"from_path"`
	ToPath    string    `json:"to_path" db:"to_path"`
	RouteName string    `json:"route_name" db:"route_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
