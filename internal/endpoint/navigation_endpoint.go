package endpoint

import (
	"context"

	"github.com/go-kit/kit/endpoint"
	"github.com/prajwalbharadwajbm/hashroute/internal/models"
	"github.com/prajwalbharadwajbm/hashroute/internal/service"
)

// NavigationEndpoints holds all endpoints for the navigation service
type NavigationEndpoints struct {
	ListRoutesEndpoint endpoint.Endpoint
	ResolveEndpoint    endpoint.Endpoint
	CurrentEndpoint    endpoint.Endpoint
	NavigateEndpoint   endpoint.Endpoint
	TraverseEndpoint   endpoint.Endpoint
	EventsEndpoint     endpoint.Endpoint
}

// MakeNavigationEndpoints creates endpoints for the navigation service
func MakeNavigationEndpoints(s service.NavigationService) NavigationEndpoints {
	return NavigationEndpoints{
		ListRoutesEndpoint: makeListRoutesEndpoint(s),
		ResolveEndpoint:    makeResolveEndpoint(s),
		CurrentEndpoint:    makeCurrentEndpoint(s),
		NavigateEndpoint:   makeNavigateEndpoint(s),
		TraverseEndpoint:   makeTraverseEndpoint(s),
		EventsEndpoint:     makeEventsEndpoint(s),
	}
}

// ListRoutesRequest asks for the route table
type ListRoutesRequest struct {
	Bencode bool
}

// ListRoutesResponse carries the route table
type ListRoutesResponse struct {
	Routes  []models.RouteInfo `json:"routes"`
	Bencode bool               `json:"-"`
	Err     error              `json:"error,omitempty"`
}

// Failed implements the endpoint.Failer interface
func (r ListRoutesResponse) Failed() error { return r.Err }

// ResolveResponse carries a resolved route
type ResolveResponse struct {
	Match models.RouteMatch `json:"match"`
	Err   error             `json:"error,omitempty"`
}

// Failed implements the endpoint.Failer interface
func (r ResolveResponse) Failed() error { return r.Err }

// CurrentRequest asks for the state of a session
type CurrentRequest struct {
	SessionID string
}

// StateResponse carries a session's navigation state
type StateResponse struct {
	State models.NavigationState `json:"state"`
	Err   error                  `json:"error,omitempty"`
}

// Failed implements the endpoint.Failer interface
func (r StateResponse) Failed() error { return r.Err }

// EventsRequest asks for the recent navigations of a session
type EventsRequest struct {
	SessionID string
	Limit     int
}

// EventsResponse carries navigation events
type EventsResponse struct {
	Events []models.NavigationEvent `json:"events"`
	Err    error                    `json:"error,omitempty"`
}

// Failed implements the endpoint.Failer interface
func (r EventsResponse) Failed() error { return r.Err }

func makeListRoutesEndpoint(s service.NavigationService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(ListRoutesRequest)
		routes, err := s.ListRoutes(ctx)
		return ListRoutesResponse{Routes: routes, Bencode: req.Bencode, Err: err}, nil
	}
}

func makeResolveEndpoint(s service.NavigationService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(models.ResolveRequest)
		match, err := s.Resolve(ctx, req)
		return ResolveResponse{Match: match, Err: err}, nil
	}
}

func makeCurrentEndpoint(s service.NavigationService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(CurrentRequest)
		state, err := s.Current(ctx, req.SessionID)
		return StateResponse{State: state, Err: err}, nil
	}
}

func makeNavigateEndpoint(s service.NavigationService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(models.NavigateRequest)
		state, err := s.Navigate(ctx, req)
		return StateResponse{State: state, Err: err}, nil
	}
}

func makeTraverseEndpoint(s service.NavigationService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(models.TraverseRequest)
		state, err := s.Traverse(ctx, req)
		return StateResponse{State: state, Err: err}, nil
	}
}

func makeEventsEndpoint(s service.NavigationService) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(EventsRequest)
		events, err := s.Events(ctx, req.SessionID, req.Limit)
		return EventsResponse{Events: events, Err: err}, nil
	}
}

// Navigate is a helper method to call the navigate endpoint
func (e NavigationEndpoints) Navigate(ctx context.Context, req models.NavigateRequest) (models.NavigationState, error) {
	response, err := e.NavigateEndpoint(ctx, req)
	if err != nil {
		return models.NavigationState{}, err
	}
	resp := response.(StateResponse)
	return resp.State, resp.Err
}

// Resolve is a helper method to call the resolve endpoint
func (e NavigationEndpoints) Resolve(ctx context.Context, path string) (models.RouteMatch, error) {
	response, err := e.ResolveEndpoint(ctx, models.ResolveRequest{Path: path})
	if err != nil {
		return models.RouteMatch{}, err
	}
	resp := response.(ResolveResponse)
	return resp.Match, resp.Err
}
