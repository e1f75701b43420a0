package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all the Prometheus metrics for our service
type Metrics struct {
	// Request counters
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Navigation metrics
	Navigations    *prometheus.CounterVec
	RoutesNotFound *prometheus.CounterVec

	// Storage metrics
	DatabaseQueries *prometheus.CounterVec
	DatabaseErrors  *prometheus.CounterVec
	CacheRequests   *prometheus.CounterVec

	// Health check metrics
	HealthCheckStatus *prometheus.GaugeVec
}

// NewPrometheusMetrics creates all metrics and registers them with reg
func NewPrometheusMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hashroute_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hashroute_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hashroute_http_requests_in_flight",
				Help: "Current number of HTTP requests being processed",
			},
			[]string{"method", "endpoint"},
		),

		Navigations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hashroute_navigations_total",
				Help: "Total number of navigation calls by operation and whether the route changed",
			},
			[]string{"operation", "route", "changed"},
		),

		RoutesNotFound: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hashroute_routes_not_found_total",
				Help: "Total number of paths or names that matched no route",
			},
			[]string{"operation"},
		),

		DatabaseQueries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hashroute_database_queries_total",
				Help: "Total number of database queries",
			},
			[]string{"operation", "table"},
		),

		DatabaseErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hashroute_database_errors_total",
				Help: "Total number of database errors",
			},
			[]string{"operation", "error_type"},
		),

		CacheRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hashroute_session_cache_requests_total",
				Help: "Session cache lookups by result",
			},
			[]string{"result"},
		),

		HealthCheckStatus: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hashroute_health_check_status",
				Help: "Health check status (1 = healthy, 0 = unhealthy)",
			},
			[]string{"check_type"},
		),
	}
}

// RecordHTTPRequest records an HTTP request with its duration and status
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordNavigation records a navigation call
func (m *Metrics) RecordNavigation(operation, route string, changed bool) {
	label := "false"
	if changed {
		label = "true"
	}
	m.Navigations.WithLabelValues(operation, route, label).Inc()
}

// RecordRouteNotFound records an unmatched path or name
func (m *Metrics) RecordRouteNotFound(operation string) {
	m.RoutesNotFound.WithLabelValues(operation).Inc()
}

// RecordDatabaseQuery records a database query
func (m *Metrics) RecordDatabaseQuery(operation, table string) {
	m.DatabaseQueries.WithLabelValues(operation, table).Inc()
}

// RecordDatabaseError records a database error
func (m *Metrics) RecordDatabaseError(operation, errorType string) {
	m.DatabaseErrors.WithLabelValues(operation, errorType).Inc()
}

// RecordCacheLookup records a session cache hit or miss
func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}

// SetHealthCheckStatus sets the health check status
func (m *Metrics) SetHealthCheckStatus(checkType string, healthy bool) {
	status := 0.0
	if healthy {
		status = 1.0
	}
	m.HealthCheckStatus.WithLabelValues(checkType).Set(status)
}

// IncRequestsInFlight increments the in-flight requests counter
func (m *Metrics) IncRequestsInFlight(method, endpoint string) {
	m.HTTPRequestsInFlight.WithLabelValues(method, endpoint).Inc()
}

// DecRequestsInFlight decrements the in-flight requests counter
func (m *Metrics) DecRequestsInFlight(method, endpoint string) {
	m.HTTPRequestsInFlight.WithLabelValues(method, endpoint).Dec()
}
