package service

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/prajwalbharadwajbm/hashroute/internal/models"
	"github.com/prajwalbharadwajbm/hashroute/internal/navigation"
	"github.com/prajwalbharadwajbm/hashroute/internal/routing"
)

// NavigationService defines the interface for the navigation service
type NavigationService interface {
	ListRoutes(ctx context.Context) ([]models.RouteInfo, error)
	Resolve(ctx context.Context, req models.ResolveRequest) (models.RouteMatch, error)
	Current(ctx context.Context, sessionID string) (models.NavigationState, error)
	Navigate(ctx context.Context, req models.NavigateRequest) (models.NavigationState, error)
	Traverse(ctx context.Context, req models.TraverseRequest) (models.NavigationState, error)
	Events(ctx context.Context, sessionID string, limit int) ([]models.NavigationEvent, error)
}

// SessionStore persists per-session navigation state
type SessionStore interface {
	Load(ctx context.Context, id string) (models.Session, bool, error)
	Save(ctx context.Context, session models.Session) error
}

// EventLog records effective navigations
type EventLog interface {
	Record(ctx context.Context, event models.NavigationEvent) error
	Recent(ctx context.Context, sessionID string, limit int) ([]models.NavigationEvent, error)
}

const (
	lockStripes       = 64
	defaultEventLimit = 20
	maxEventLimit     = 500
)

type navigationService struct {
	table    *routing.Table
	sessions SessionStore
	events   EventLog
	logger   log.Logger
	hashBase string
	maxHist  int
	locks    [lockStripes]sync.Mutex
	now      func() time.Time
}

// Option configures the navigation service
type Option func(*navigationService)

// WithHashBase sets the document path hash locations are rendered against
func WithHashBase(base string) Option {
	return func(s *navigationService) {
		s.hashBase = base
	}
}

// WithHistoryLimit caps the entries kept per session history
func WithHistoryLimit(n int) Option {
	return func(s *navigationService) {
		s.maxHist = n
	}
}

// NewNavigationService creates a navigation service over an immutable table
func NewNavigationService(table *routing.Table, sessions SessionStore, events EventLog, logger log.Logger, opts ...Option) NavigationService {
	s := &navigationService{
		table:    table,
		sessions: sessions,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListRoutes returns the route table in declaration order
func (s *navigationService) ListRoutes(_ context.Context) ([]models.RouteInfo, error) {
	return models.FromTable(s.table), nil
}

// Resolve matches a path without touching any session
func (s *navigationService) Resolve(_ context.Context, req models.ResolveRequest) (models.RouteMatch, error) {
	if err := req.Validate(); err != nil {
		return models.RouteMatch{}, err
	}

	path := navigation.DecodeHash(req.Path)
	match, err := s.table.Resolve(path)
	if err != nil {
		return models.RouteMatch{}, err
	}
	history := navigation.NewHashHistory(s.hashBase)
	return models.FromMatch(match, history.Href(match.FullPath())), nil
}

// Current returns the session's active route, creating the session at the
// root route when it does not exist yet
func (s *navigationService) Current(ctx context.Context, sessionID string) (models.NavigationState, error) {
	var state models.NavigationState
	err := s.withSession(ctx, sessionID, models.EventPush, func(c *navigation.Controller, id string) error {
		state = s.state(id, c, false)
		return nil
	})
	return state, err
}

// Navigate moves the session to a route by name or path
func (s *navigationService) Navigate(ctx context.Context, req models.NavigateRequest) (models.NavigationState, error) {
	if err := req.Validate(); err != nil {
		return models.NavigationState{}, err
	}
	req.Normalize()

	opts := []navigation.NavigateOption{
		navigation.WithParams(req.Params),
		navigation.WithQuery(req.QueryValues()),
	}
	kind := models.EventPush
	if req.Replace {
		opts = append(opts, navigation.WithReplace())
		kind = models.EventReplace
	}

	var state models.NavigationState
	err := s.withSession(ctx, req.SessionID, kind, func(c *navigation.Controller, id string) error {
		_, changed, err := c.Navigate(req.Target, opts...)
		if err != nil {
			return err
		}
		state = s.state(id, c, changed)
		return nil
	})
	return state, err
}

// Traverse moves the session delta entries through its history
func (s *navigationService) Traverse(ctx context.Context, req models.TraverseRequest) (models.NavigationState, error) {
	if err := req.Validate(); err != nil {
		return models.NavigationState{}, err
	}

	var state models.NavigationState
	var routeErr error
	err := s.withSession(ctx, req.SessionID, models.EventTraverse, func(c *navigation.Controller, id string) error {
		_, changed, err := c.Go(req.Delta)
		// The history position moved even when the entry no longer
		// resolves, so the session is saved and the error reported after.
		routeErr = err
		state = s.state(id, c, changed)
		return nil
	})
	if err != nil {
		return models.NavigationState{}, err
	}
	return state, routeErr
}

// Events lists the most recent navigations of a session, newest first
func (s *navigationService) Events(ctx context.Context, sessionID string, limit int) ([]models.NavigationEvent, error) {
	if sessionID == "" {
		return []models.NavigationEvent{}, nil
	}
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}
	return s.events.Recent(ctx, sessionID, limit)
}

// withSession loads the session, runs fn against a controller restored from
// it and saves the result. Calls for the same session are serialised.
func (s *navigationService) withSession(ctx context.Context, sessionID string, kind models.EventKind, fn func(c *navigation.Controller, id string) error) error {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	mu := &s.locks[stripe(sessionID)]
	mu.Lock()
	defer mu.Unlock()

	session, found, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return err
	}

	history := navigation.NewHashHistory(s.hashBase, navigation.WithMaxEntries(s.maxHist))
	if found {
		if err := history.Restore(session.History); err != nil {
			level.Warn(s.logger).Log("msg", "discarding unusable session history", "session_id", sessionID, "err", err)
		}
	}

	controller := navigation.NewController(s.table, history)
	var pending []models.NavigationEvent
	controller.AfterEach(func(from, to *routing.Match) {
		pending = append(pending, s.event(sessionID, kind, from, to))
	})

	if err := fn(controller, sessionID); err != nil {
		return err
	}

	if err := s.sessions.Save(ctx, models.Session{
		ID:        sessionID,
		History:   history.Snapshot(),
		UpdatedAt: s.now(),
	}); err != nil {
		return err
	}

	for _, event := range pending {
		if err := s.events.Record(ctx, event); err != nil {
			level.Warn(s.logger).Log("msg", "failed to record navigation event", "session_id", sessionID, "err", err)
		}
	}
	return nil
}

func (s *navigationService) state(id string, c *navigation.Controller, changed bool) models.NavigationState {
	state := models.NavigationState{
		SessionID:    id,
		Location:     c.Location(),
		Changed:      changed,
		CanGoBack:    c.CanGoBack(),
		CanGoForward: c.CanGoForward(),
	}
	if match, ok := c.Current(); ok {
		current := models.FromMatch(match, c.Location())
		state.Current = &current
	}
	return state
}

func (s *navigationService) event(sessionID string, kind models.EventKind, from, to *routing.Match) models.NavigationEvent {
	event := models.NavigationEvent{
		SessionID: sessionID,
		Kind:      kind,
		CreatedAt: s.now(),
	}
	if from != nil {
		event.FromPath = from.FullPath()
	}
	if to != nil {
		event.ToPath = to.FullPath()
		event.RouteName = to.Route.Name
	}
	return event
}

func stripe(id string) int {
	h := fnv.New32a()
	h.Write([]byte(id))
	return int(h.Sum32() % lockStripes)
}
