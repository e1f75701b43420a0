package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gorilla/mux"
	"github.com/prajwalbharadwajbm/hashroute/internal/bencode"
	reqcontext "github.com/prajwalbharadwajbm/hashroute/internal/context"
	"github.com/prajwalbharadwajbm/hashroute/internal/endpoint"
	"github.com/prajwalbharadwajbm/hashroute/internal/metrics"
	"github.com/prajwalbharadwajbm/hashroute/internal/middleware"
	"github.com/prajwalbharadwajbm/hashroute/internal/models"
	"github.com/prajwalbharadwajbm/hashroute/internal/navigation"
	"github.com/prajwalbharadwajbm/hashroute/internal/routing"
)

const (
	contentTypeJSON    = "application/json"
	contentTypeBencode = "application/x-bencode"
	maxBodyBytes       = 64 << 10
)

// HealthCheck reports whether a dependency is usable
type HealthCheck func(ctx context.Context) error

type options struct {
	service        string
	version        string
	spa            http.Handler
	metricsHandler http.Handler
	metrics        *metrics.Metrics
	checks         map[string]HealthCheck
}

// Option configures the HTTP handler
type Option func(*options)

// WithVersion sets the service name and version reported by /health
func WithVersion(service, version string) Option {
	return func(o *options) {
		o.service = service
		o.version = version
	}
}

// WithSPA serves the given handler for every path the API does not own
func WithSPA(h http.Handler) Option {
	return func(o *options) {
		o.spa = h
	}
}

// WithMetrics exposes h on /metrics and records health gauges in m
func WithMetrics(h http.Handler, m *metrics.Metrics) Option {
	return func(o *options) {
		o.metricsHandler = h
		o.metrics = m
	}
}

// WithHealthCheck adds a named dependency check to /health
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(o *options) {
		o.checks[name] = check
	}
}

// badRequestError marks request decoding failures
type badRequestError struct {
	err error
}

func (e badRequestError) Error() string { return e.err.Error() }
func (e badRequestError) Unwrap() error { return e.err }

// NewHTTPHandler creates HTTP handlers for the navigation service
func NewHTTPHandler(endpoints endpoint.NavigationEndpoints, logger log.Logger, opts ...Option) http.Handler {
	o := &options{
		service: "hashroute",
		version: "dev",
		checks:  make(map[string]HealthCheck),
	}
	for _, opt := range opts {
		opt(o)
	}

	serverOptions := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(encodeError),
		httptransport.ServerErrorHandler(newErrorHandler(logger)),
	}

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.Handle("/routes", httptransport.NewServer(
		endpoints.ListRoutesEndpoint,
		decodeListRoutesRequest,
		encodeListRoutesResponse,
		serverOptions...,
	)).Methods(http.MethodGet)

	api.Handle("/resolve", httptransport.NewServer(
		endpoints.ResolveEndpoint,
		decodeResolveRequest,
		encodeResolveResponse,
		serverOptions...,
	)).Methods(http.MethodGet)

	api.Handle("/navigation", httptransport.NewServer(
		endpoints.CurrentEndpoint,
		decodeCurrentRequest,
		encodeStateResponse,
		serverOptions...,
	)).Methods(http.MethodGet)

	api.Handle("/navigation", httptransport.NewServer(
		endpoints.NavigateEndpoint,
		decodeNavigateRequest,
		encodeStateResponse,
		serverOptions...,
	)).Methods(http.MethodPost)

	api.Handle("/navigation/go", httptransport.NewServer(
		endpoints.TraverseEndpoint,
		decodeTraverseRequest,
		encodeStateResponse,
		serverOptions...,
	)).Methods(http.MethodPost)

	api.Handle("/navigation/events", httptransport.NewServer(
		endpoints.EventsEndpoint,
		decodeEventsRequest,
		encodeEventsResponse,
		serverOptions...,
	)).Methods(http.MethodGet)

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("unknown API endpoint"))
	})

	r.HandleFunc("/health", o.healthHandler).Methods(http.MethodGet)

	if o.metricsHandler != nil {
		r.Handle("/metrics", o.metricsHandler).Methods(http.MethodGet)
	}

	if o.spa != nil {
		r.PathPrefix("/").Handler(o.spa)
	}

	return r
}

// sessionFromRequest prefers the session resolved by the request ID
// middleware and falls back to the raw header and query
func sessionFromRequest(ctx context.Context, r *http.Request) string {
	if id := reqcontext.GetSessionID(ctx); id != "" {
		return id
	}
	if id := r.Header.Get(middleware.SessionIDHeader); id != "" {
		return id
	}
	return r.URL.Query().Get("session")
}

func decodeListRoutesRequest(_ context.Context, r *http.Request) (interface{}, error) {
	wantsBencode := strings.Contains(r.Header.Get("Accept"), contentTypeBencode) ||
		r.URL.Query().Get("format") == "bencode"
	return endpoint.ListRoutesRequest{Bencode: wantsBencode}, nil
}

func decodeResolveRequest(_ context.Context, r *http.Request) (interface{}, error) {
	return models.ResolveRequest{Path: r.URL.Query().Get("path")}, nil
}

func decodeCurrentRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	return endpoint.CurrentRequest{SessionID: sessionFromRequest(ctx, r)}, nil
}

func decodeNavigateRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	var req models.NavigateRequest
	if err := decodeJSONBody(r, &req); err != nil {
		return nil, err
	}
	if req.SessionID == "" {
		req.SessionID = sessionFromRequest(ctx, r)
	}
	return req, nil
}

func decodeTraverseRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	var req models.TraverseRequest
	if err := decodeJSONBody(r, &req); err != nil {
		return nil, err
	}
	if req.SessionID == "" {
		req.SessionID = sessionFromRequest(ctx, r)
	}
	return req, nil
}

func decodeEventsRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	req := endpoint.EventsRequest{SessionID: sessionFromRequest(ctx, r)}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return nil, badRequestError{fmt.Errorf("invalid limit param %q", raw)}
		}
		req.Limit = limit
	}
	return req, nil
}

func decodeJSONBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequestError{fmt.Errorf("invalid request body: %w", err)}
	}
	return nil
}

func encodeListRoutesResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	resp := response.(endpoint.ListRoutesResponse)
	if resp.Err != nil {
		encodeError(ctx, resp.Err, w)
		return nil
	}

	if resp.Bencode {
		data, err := bencode.Marshal(resp.Routes)
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", contentTypeBencode)
		w.WriteHeader(http.StatusOK)
		_, err = w.Write(data)
		return err
	}

	return writeJSON(w, http.StatusOK, resp)
}

func encodeResolveResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	resp := response.(endpoint.ResolveResponse)
	if resp.Err != nil {
		encodeError(ctx, resp.Err, w)
		return nil
	}
	return writeJSON(w, http.StatusOK, resp.Match)
}

func encodeStateResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	resp := response.(endpoint.StateResponse)
	if resp.State.SessionID != "" {
		w.Header().Set(middleware.SessionIDHeader, resp.State.SessionID)
	}
	if resp.Err != nil {
		encodeError(ctx, resp.Err, w)
		return nil
	}
	return writeJSON(w, http.StatusOK, resp.State)
}

func encodeEventsResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	resp := response.(endpoint.EventsResponse)
	if resp.Err != nil {
		encodeError(ctx, resp.Err, w)
		return nil
	}
	return writeJSON(w, http.StatusOK, resp)
}

// encodeError encodes error to HTTP response
func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	writeJSON(w, statusFor(err), models.NewErrorResponse(err.Error()))
}

func statusFor(err error) int {
	var badRequest badRequestError
	switch {
	case routing.IsNotFound(err):
		return http.StatusNotFound
	case models.IsValidationError(err),
		errors.Is(err, navigation.ErrEmptyTarget),
		errors.As(err, &badRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

type errorHandler struct {
	logger log.Logger
}

func newErrorHandler(logger log.Logger) errorHandler {
	return errorHandler{logger: logger}
}

// Handle logs transport-level failures such as undecodable bodies
func (h errorHandler) Handle(ctx context.Context, err error) {
	level.Warn(h.logger).Log("msg", "transport error", "request_id", reqcontext.GetRequestID(ctx), "err", err)
}

// healthHandler handles health check requests
func (o *options) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(o.checks))
	for name, check := range o.checks {
		err := check(ctx)
		healthy := err == nil
		if healthy {
			checks[name] = "ok"
		} else {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
		}
		if o.metrics != nil {
			o.metrics.SetHealthCheckStatus(name, healthy)
		}
	}

	response := map[string]any{
		"status":  "healthy",
		"service": o.service,
		"version": o.version,
	}
	if status != http.StatusOK {
		response["status"] = "unhealthy"
	}
	if len(checks) > 0 {
		response["checks"] = checks
	}

	writeJSON(w, status, response)
}
