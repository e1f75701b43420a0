package main

import (
	"net/http"

	"github.com/go-kit/log"
	"github.com/prajwalbharadwajbm/hashroute/internal/config"
	"github.com/prajwalbharadwajbm/hashroute/internal/endpoint"
	"github.com/prajwalbharadwajbm/hashroute/internal/metrics"
	"github.com/prajwalbharadwajbm/hashroute/internal/middleware"
	"github.com/prajwalbharadwajbm/hashroute/internal/service"
	"github.com/prajwalbharadwajbm/hashroute/internal/spa"
	"github.com/prajwalbharadwajbm/hashroute/internal/transport"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type routeDeps struct {
	service  service.NavigationService
	logger   log.Logger
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	spa      config.SPAConfig
	checks   map[string]transport.HealthCheck
}

// Routes wraps the navigation service in its middlewares and exposes it,
// the SPA bundle, /health and /metrics over HTTP
func Routes(d routeDeps) http.Handler {
	svc := d.service
	svc = middleware.NewLoggingMiddleware(d.logger)(svc)
	svc = middleware.NewServiceMetricsMiddleware(d.metrics)(svc)

	opts := []transport.Option{
		transport.WithVersion("hashroute", VERSION),
		transport.WithMetrics(promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{}), d.metrics),
		transport.WithSPA(spa.NewHandler(d.spa.StaticPath, d.spa.IndexPath)),
	}
	for name, check := range d.checks {
		opts = append(opts, transport.WithHealthCheck(name, check))
	}

	handler := transport.NewHTTPHandler(endpoint.MakeNavigationEndpoints(svc), d.logger, opts...)
	handler = middleware.NewMetricsMiddleware(d.metrics).Middleware(handler)
	handler = middleware.NewRequestIDMiddleware().Middleware(handler)
	return handler
}
