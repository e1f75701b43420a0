package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-kit/log"
	"github.com/gorilla/mux"
	"github.com/prajwalbharadwajbm/hashroute/internal/endpoint"
	"github.com/prajwalbharadwajbm/hashroute/internal/metrics"
	"github.com/prajwalbharadwajbm/hashroute/internal/models"
	"github.com/prajwalbharadwajbm/hashroute/internal/navigation"
	"github.com/prajwalbharadwajbm/hashroute/internal/routing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var homeRoute = models.RouteInfo{Name: "Home", Path: "/", View: "home", Title: "Home"}

func newTestEndpoints() endpoint.NavigationEndpoints {
	return endpoint.NavigationEndpoints{
		ListRoutesEndpoint: func(_ context.Context, request any) (any, error) {
			req := request.(endpoint.ListRoutesRequest)
			return endpoint.ListRoutesResponse{Routes: []models.RouteInfo{homeRoute}, Bencode: req.Bencode}, nil
		},
		ResolveEndpoint: func(_ context.Context, request any) (any, error) {
			req := request.(models.ResolveRequest)
			if req.Path == "" {
				return endpoint.ResolveResponse{Err: models.ErrMissingPath}, nil
			}
			if req.Path != "/" {
				return endpoint.ResolveResponse{Err: fmt.Errorf("%w: %s", routing.ErrRouteNotFound, req.Path)}, nil
			}
			return endpoint.ResolveResponse{Match: models.RouteMatch{Name: "Home", Path: "/", Href: "#/", View: "home"}}, nil
		},
		CurrentEndpoint: func(_ context.Context, request any) (any, error) {
			req := request.(endpoint.CurrentRequest)
			return endpoint.StateResponse{State: models.NavigationState{SessionID: req.SessionID, Location: "#/"}}, nil
		},
		NavigateEndpoint: func(_ context.Context, request any) (any, error) {
			req := request.(models.NavigateRequest)
			state := models.NavigationState{SessionID: req.SessionID, Location: "#" + req.Target, Changed: true}
			if req.Target == "/missing" {
				return endpoint.StateResponse{State: state, Err: fmt.Errorf("%w: %s", routing.ErrRouteNotFound, req.Target)}, nil
			}
			return endpoint.StateResponse{State: state}, nil
		},
		TraverseEndpoint: func(_ context.Context, request any) (any, error) {
			req := request.(models.TraverseRequest)
			if req.Delta == 0 {
				return endpoint.StateResponse{State: models.NavigationState{SessionID: req.SessionID}, Err: models.ErrInvalidDelta}, nil
			}
			return endpoint.StateResponse{State: models.NavigationState{SessionID: req.SessionID, Location: "#/"}}, nil
		},
		EventsEndpoint: func(_ context.Context, request any) (any, error) {
			req := request.(endpoint.EventsRequest)
			return endpoint.EventsResponse{Events: []models.NavigationEvent{
				{SessionID: req.SessionID, Kind: models.EventPush, ToPath: "/"},
			}}, nil
		},
	}
}

func newTestHandler(opts ...Option) http.Handler {
	return NewHTTPHandler(newTestEndpoints(), log.NewNopLogger(), opts...)
}

func TestNewHTTPHandler(t *testing.T) {
	handler := newTestHandler()

	assert.NotNil(t, handler)
	assert.IsType(t, &mux.Router{}, handler)
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler(WithVersion("hashroute", "1.0.0"))

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "hashroute", response["service"])
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "1.0.0", response["version"])
}

func TestHealthEndpoint_FailingCheck(t *testing.T) {
	m := metrics.NewPrometheusMetrics(prometheus.NewRegistry())
	handler := newTestHandler(
		WithMetrics(nil, m),
		WithHealthCheck("database", func(context.Context) error { return errors.New("connection refused") }),
		WithHealthCheck("cache", func(context.Context) error { return nil }),
	)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "unhealthy", response.Status)
	assert.Equal(t, "connection refused", response.Checks["database"])
	assert.Equal(t, "ok", response.Checks["cache"])

	assert.Equal(t, float64(0), testutil.ToFloat64(m.HealthCheckStatus.WithLabelValues("database")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HealthCheckStatus.WithLabelValues("cache")))
}

func TestRoutesEndpoint_JSON(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest("GET", "/api/routes", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Routes []models.RouteInfo `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, []models.RouteInfo{homeRoute}, response.Routes)
}

func TestRoutesEndpoint_Bencode(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest("GET", "/api/routes", nil)
	req.Header.Set("Accept", "application/x-bencode")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/x-bencode", w.Header().Get("Content-Type"))
	assert.Equal(t, "ld4:name4:Home4:path1:/5:title4:Home4:view4:homeee", w.Body.String())
}

func TestResolveEndpoint(t *testing.T) {
	handler := newTestHandler()

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantError  string
	}{
		{name: "root", target: "/api/resolve?path=/", wantStatus: http.StatusOK},
		{name: "unknown path", target: "/api/resolve?path=/does-not-exist", wantStatus: http.StatusNotFound, wantError: "route not found: /does-not-exist"},
		{name: "missing path", target: "/api/resolve", wantStatus: http.StatusBadRequest, wantError: "missing path param"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.target, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantError == "" {
				var match models.RouteMatch
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &match))
				assert.Equal(t, "Home", match.Name)
				assert.Equal(t, "#/", match.Href)
				return
			}
			var errResp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
			assert.Equal(t, tt.wantError, errResp.Error)
		})
	}
}

func TestCurrentEndpoint_SessionFromHeaderAndQuery(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest("GET", "/api/navigation", nil)
	req.Header.Set("X-Session-ID", "from-header")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "from-header", w.Header().Get("X-Session-ID"))

	req = httptest.NewRequest("GET", "/api/navigation?session=from-query", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "from-query", w.Header().Get("X-Session-ID"))
}

func TestNavigateEndpoint(t *testing.T) {
	handler := newTestHandler()

	body := bytes.NewBufferString(`{"target":"/","replace":true}`)
	req := httptest.NewRequest("POST", "/api/navigation", body)
	req.Header.Set("X-Session-ID", "s1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "s1", w.Header().Get("X-Session-ID"))

	var state models.NavigationState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, "s1", state.SessionID)
	assert.Equal(t, "#/", state.Location)
	assert.True(t, state.Changed)
}

func TestNavigateEndpoint_Errors(t *testing.T) {
	handler := newTestHandler()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "not found", body: `{"target":"/missing"}`, wantStatus: http.StatusNotFound},
		{name: "malformed json", body: `{"target":`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", body: `{"destination":"/"}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/navigation", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var errResp models.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
			assert.NotEmpty(t, errResp.Error)
		})
	}
}

func TestTraverseEndpoint(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest("POST", "/api/navigation/go", bytes.NewBufferString(`{"delta":-1}`))
	req.Header.Set("X-Session-ID", "s1")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest("POST", "/api/navigation/go", bytes.NewBufferString(`{"delta":0}`))
	req.Header.Set("X-Session-ID", "s1")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "s1", w.Header().Get("X-Session-ID"))
}

func TestEventsEndpoint(t *testing.T) {
	handler := newTestHandler()

	req := httptest.NewRequest("GET", "/api/navigation/events?session=s1&limit=5", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response struct {
		Events []models.NavigationEvent `json:"events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Events, 1)
	assert.Equal(t, "s1", response.Events[0].SessionID)

	req = httptest.NewRequest("GET", "/api/navigation/events?limit=abc", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDecodeEventsRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/navigation/events?session=abc&limit=7", nil)

	result, err := decodeEventsRequest(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, endpoint.EventsRequest{SessionID: "abc", Limit: 7}, result)
}

func TestSPAFallthrough(t *testing.T) {
	spa := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("spa:" + r.URL.Path))
	})
	handler := newTestHandler(WithSPA(spa))

	req := httptest.NewRequest("GET", "/assets/app.js", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "spa:/assets/app.js", w.Body.String())

	req = httptest.NewRequest("GET", "/api/unknown", nil)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "unknown API endpoint")
}

func TestMetricsEndpoint(t *testing.T) {
	metricsHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("# metrics"))
	})
	handler := newTestHandler(WithMetrics(metricsHandler, nil))

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "# metrics", w.Body.String())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: /x", routing.ErrRouteNotFound), http.StatusNotFound},
		{models.ErrMissingTarget, http.StatusBadRequest},
		{models.ErrInvalidDelta, http.StatusBadRequest},
		{navigation.ErrEmptyTarget, http.StatusBadRequest},
		{badRequestError{errors.New("bad body")}, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
