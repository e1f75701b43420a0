package endpoint

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/prajwalbharadwajbm/hashroute/internal/models"
	"github.com/prajwalbharadwajbm/hashroute/internal/routing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockNavigationService is a mock implementation of service.NavigationService
type MockNavigationService struct {
	mock.Mock
}

func (m *MockNavigationService) ListRoutes(ctx context.Context) ([]models.RouteInfo, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.RouteInfo), args.Error(1)
}

func (m *MockNavigationService) Resolve(ctx context.Context, req models.ResolveRequest) (models.RouteMatch, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.RouteMatch), args.Error(1)
}

func (m *MockNavigationService) Current(ctx context.Context, sessionID string) (models.NavigationState, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(models.NavigationState), args.Error(1)
}

func (m *MockNavigationService) Navigate(ctx context.Context, req models.NavigateRequest) (models.NavigationState, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.NavigationState), args.Error(1)
}

func (m *MockNavigationService) Traverse(ctx context.Context, req models.TraverseRequest) (models.NavigationState, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.NavigationState), args.Error(1)
}

func (m *MockNavigationService) Events(ctx context.Context, sessionID string, limit int) ([]models.NavigationEvent, error) {
	args := m.Called(ctx, sessionID, limit)
	return args.Get(0).([]models.NavigationEvent), args.Error(1)
}

func TestMakeNavigationEndpoints(t *testing.T) {
	endpoints := MakeNavigationEndpoints(&MockNavigationService{})

	assert.NotNil(t, endpoints.ListRoutesEndpoint)
	assert.NotNil(t, endpoints.ResolveEndpoint)
	assert.NotNil(t, endpoints.CurrentEndpoint)
	assert.NotNil(t, endpoints.NavigateEndpoint)
	assert.NotNil(t, endpoints.TraverseEndpoint)
	assert.NotNil(t, endpoints.EventsEndpoint)
}

func TestListRoutesEndpoint(t *testing.T) {
	mockService := &MockNavigationService{}
	endpoints := MakeNavigationEndpoints(mockService)

	routes := []models.RouteInfo{{Name: "Home", Path: "/", View: "home", Title: "Home"}}
	mockService.On("ListRoutes", mock.Anything).Return(routes, nil)

	response, err := endpoints.ListRoutesEndpoint(context.Background(), ListRoutesRequest{Bencode: true})

	assert.NoError(t, err)
	resp := response.(ListRoutesResponse)
	assert.Equal(t, routes, resp.Routes)
	assert.True(t, resp.Bencode)
	assert.Nil(t, resp.Failed())
	mockService.AssertExpectations(t)
}

func TestResolveEndpoint_NotFound(t *testing.T) {
	mockService := &MockNavigationService{}
	endpoints := MakeNavigationEndpoints(mockService)

	notFound := fmt.Errorf("%w: /does-not-exist", routing.ErrRouteNotFound)
	mockService.On("Resolve", mock.Anything, models.ResolveRequest{Path: "/does-not-exist"}).
		Return(models.RouteMatch{}, notFound)

	_, err := endpoints.Resolve(context.Background(), "/does-not-exist")

	assert.ErrorIs(t, err, routing.ErrRouteNotFound)
	mockService.AssertExpectations(t)
}

func TestNavigateEndpoint_Success(t *testing.T) {
	mockService := &MockNavigationService{}
	endpoints := MakeNavigationEndpoints(mockService)

	expected := models.NavigationState{
		SessionID: "s1",
		Location:  "#/",
		Current:   &models.RouteMatch{Name: "Home", Path: "/", Href: "#/"},
	}
	mockService.On("Navigate", mock.Anything, mock.MatchedBy(func(req models.NavigateRequest) bool {
		return req.SessionID == "s1" && req.Target == "Home"
	})).Return(expected, nil)

	state, err := endpoints.Navigate(context.Background(), models.NavigateRequest{SessionID: "s1", Target: "Home"})

	assert.NoError(t, err)
	assert.Equal(t, expected, state)
	mockService.AssertExpectations(t)
}

func TestNavigateEndpoint_ServiceError(t *testing.T) {
	mockService := &MockNavigationService{}
	endpoints := MakeNavigationEndpoints(mockService)

	serviceError := errors.New("service error")
	mockService.On("Navigate", mock.Anything, mock.Anything).Return(models.NavigationState{}, serviceError)

	response, err := endpoints.NavigateEndpoint(context.Background(), models.NavigateRequest{Target: "/"})

	assert.NoError(t, err) // Endpoint itself doesn't return error, error is in response
	resp := response.(StateResponse)
	assert.Equal(t, serviceError, resp.Err)
	assert.Equal(t, serviceError, resp.Failed())
	mockService.AssertExpectations(t)
}

func TestCurrentTraverseAndEventsEndpoints(t *testing.T) {
	mockService := &MockNavigationService{}
	endpoints := MakeNavigationEndpoints(mockService)
	ctx := context.Background()

	mockService.On("Current", mock.Anything, "s1").Return(models.NavigationState{SessionID: "s1"}, nil)
	mockService.On("Traverse", mock.Anything, models.TraverseRequest{SessionID: "s1", Delta: -1}).
		Return(models.NavigationState{SessionID: "s1", Changed: true}, nil)
	mockService.On("Events", mock.Anything, "s1", 5).
		Return([]models.NavigationEvent{{SessionID: "s1"}}, nil)

	response, err := endpoints.CurrentEndpoint(ctx, CurrentRequest{SessionID: "s1"})
	assert.NoError(t, err)
	assert.Equal(t, "s1", response.(StateResponse).State.SessionID)

	response, err = endpoints.TraverseEndpoint(ctx, models.TraverseRequest{SessionID: "s1", Delta: -1})
	assert.NoError(t, err)
	assert.True(t, response.(StateResponse).State.Changed)

	response, err = endpoints.EventsEndpoint(ctx, EventsRequest{SessionID: "s1", Limit: 5})
	assert.NoError(t, err)
	assert.Len(t, response.(EventsResponse).Events, 1)

	mockService.AssertExpectations(t)
}
