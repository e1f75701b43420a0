package middleware

import (
	"context"

	"github.com/prajwalbharadwajbm/hashroute/internal/metrics"
	"github.com/prajwalbharadwajbm/hashroute/internal/models"
	"github.com/prajwalbharadwajbm/hashroute/internal/routing"
	"github.com/prajwalbharadwajbm/hashroute/internal/service"
)

// serviceMetricsMiddleware implements metrics collection for NavigationService
type serviceMetricsMiddleware struct {
	metrics *metrics.Metrics
	next    service.NavigationService
}

// NewServiceMetricsMiddleware creates a new service metrics middleware
func NewServiceMetricsMiddleware(metrics *metrics.Metrics) func(service.NavigationService) service.NavigationService {
	return func(next service.NavigationService) service.NavigationService {
		return &serviceMetricsMiddleware{
			metrics: metrics,
			next:    next,
		}
	}
}

func (mw *serviceMetricsMiddleware) ListRoutes(ctx context.Context) ([]models.RouteInfo, error) {
	return mw.next.ListRoutes(ctx)
}

func (mw *serviceMetricsMiddleware) Resolve(ctx context.Context, req models.ResolveRequest) (models.RouteMatch, error) {
	match, err := mw.next.Resolve(ctx, req)
	mw.recordNotFound("resolve", err)
	return match, err
}

func (mw *serviceMetricsMiddleware) Current(ctx context.Context, sessionID string) (models.NavigationState, error) {
	return mw.next.Current(ctx, sessionID)
}

func (mw *serviceMetricsMiddleware) Navigate(ctx context.Context, req models.NavigateRequest) (models.NavigationState, error) {
	state, err := mw.next.Navigate(ctx, req)
	mw.record("navigate", state, err)
	return state, err
}

func (mw *serviceMetricsMiddleware) Traverse(ctx context.Context, req models.TraverseRequest) (models.NavigationState, error) {
	state, err := mw.next.Traverse(ctx, req)
	mw.record("traverse", state, err)
	return state, err
}

func (mw *serviceMetricsMiddleware) Events(ctx context.Context, sessionID string, limit int) ([]models.NavigationEvent, error) {
	return mw.next.Events(ctx, sessionID, limit)
}

func (mw *serviceMetricsMiddleware) record(operation string, state models.NavigationState, err error) {
	if err != nil {
		mw.recordNotFound(operation, err)
		return
	}
	route := ""
	if state.Current != nil {
		route = state.Current.Name
	}
	mw.metrics.RecordNavigation(operation, route, state.Changed)
}

func (mw *serviceMetricsMiddleware) recordNotFound(operation string, err error) {
	if routing.IsNotFound(err) {
		mw.metrics.RecordRouteNotFound(operation)
	}
}
