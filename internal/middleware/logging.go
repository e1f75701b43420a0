package middleware

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	reqcontext "github.com/prajwalbharadwajbm/hashroute/internal/context"
	"github.com/prajwalbharadwajbm/hashroute/internal/models"
	"github.com/prajwalbharadwajbm/hashroute/internal/service"
)

// loggingMiddleware implements logging middleware for NavigationService
type loggingMiddleware struct {
	logger log.Logger
	next   service.NavigationService
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(logger log.Logger) func(service.NavigationService) service.NavigationService {
	return func(next service.NavigationService) service.NavigationService {
		return &loggingMiddleware{
			logger: logger,
			next:   next,
		}
	}
}

// log writes one line per call; failures are logged at error level
func (mw *loggingMiddleware) log(ctx context.Context, begin time.Time, err error, keyvals ...interface{}) {
	fields := []interface{}{
		"request_id", reqcontext.GetRequestID(ctx),
	}
	fields = append(fields, keyvals...)
	fields = append(fields, "took", time.Since(begin))

	if remoteAddr := reqcontext.GetRemoteAddr(ctx); remoteAddr != "" {
		fields = append(fields, "remote_addr", remoteAddr)
	}

	if err != nil {
		fields = append(fields, "error", err.Error(), "success", false)
		level.Error(mw.logger).Log(fields...)
		return
	}
	fields = append(fields, "success", true)
	level.Info(mw.logger).Log(fields...)
}

func (mw *loggingMiddleware) ListRoutes(ctx context.Context) (routes []models.RouteInfo, err error) {
	defer func(begin time.Time) {
		mw.log(ctx, begin, err, "method", "ListRoutes", "routes_count", len(routes))
	}(time.Now())

	return mw.next.ListRoutes(ctx)
}

func (mw *loggingMiddleware) Resolve(ctx context.Context, req models.ResolveRequest) (match models.RouteMatch, err error) {
	defer func(begin time.Time) {
		mw.log(ctx, begin, err, "method", "Resolve", "path", req.Path, "route", match.Name)
	}(time.Now())

	return mw.next.Resolve(ctx, req)
}

func (mw *loggingMiddleware) Current(ctx context.Context, sessionID string) (state models.NavigationState, err error) {
	defer func(begin time.Time) {
		mw.log(ctx, begin, err, "method", "Current", "session_id", state.SessionID, "location", state.Location)
	}(time.Now())

	return mw.next.Current(ctx, sessionID)
}

func (mw *loggingMiddleware) Navigate(ctx context.Context, req models.NavigateRequest) (state models.NavigationState, err error) {
	defer func(begin time.Time) {
		mw.log(ctx, begin, err,
			"method", "Navigate",
			"session_id", state.SessionID,
			"target", req.Target,
			"replace", req.Replace,
			"location", state.Location,
			"changed", state.Changed,
		)
	}(time.Now())

	return mw.next.Navigate(ctx, req)
}

func (mw *loggingMiddleware) Traverse(ctx context.Context, req models.TraverseRequest) (state models.NavigationState, err error) {
	defer func(begin time.Time) {
		mw.log(ctx, begin, err,
			"method", "Traverse",
			"session_id", state.SessionID,
			"delta", req.Delta,
			"location", state.Location,
			"changed", state.Changed,
		)
	}(time.Now())

	return mw.next.Traverse(ctx, req)
}

func (mw *loggingMiddleware) Events(ctx context.Context, sessionID string, limit int) (events []models.NavigationEvent, err error) {
	defer func(begin time.Time) {
		mw.log(ctx, begin, err, "method", "Events", "session_id", sessionID, "events_count", len(events))
	}(time.Now())

	return mw.next.Events(ctx, sessionID, limit)
}
