package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prajwalbharadwajbm/hashroute/internal/metrics"
)

// MetricsMiddleware wraps HTTP handlers to collect Prometheus metrics
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new metrics middleware
func NewMetricsMiddleware(metrics *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{
		metrics: metrics,
	}
}

// Middleware returns the HTTP middleware function
func (m *MetricsMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		endpoint := normalizeEndpoint(r.URL.Path)
		method := r.Method

		m.metrics.IncRequestsInFlight(method, endpoint)
		defer m.metrics.DecRequestsInFlight(method, endpoint)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		m.metrics.RecordHTTPRequest(method, endpoint, strconv.Itoa(wrapped.statusCode), duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// normalizeEndpoint keeps metric label cardinality bounded: API paths are
// kept, every static asset collapses into one label.
func normalizeEndpoint(path string) string {
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}

	switch {
	case path == "/health", path == "/metrics":
		return path
	case path == "/api/navigation/go", path == "/api/navigation/events":
		return path
	case strings.HasPrefix(path, "/api/"):
		parts := strings.SplitN(strings.TrimPrefix(path, "/api/"), "/", 2)
		return "/api/" + parts[0]
	default:
		return "/static"
	}
}
