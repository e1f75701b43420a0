package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prajwalbharadwajbm/hashroute/internal/cache"
	"github.com/prajwalbharadwajbm/hashroute/internal/config"
	"github.com/prajwalbharadwajbm/hashroute/internal/database"
	"github.com/prajwalbharadwajbm/hashroute/internal/logger"
	"github.com/prajwalbharadwajbm/hashroute/internal/metrics"
	"github.com/prajwalbharadwajbm/hashroute/internal/repository"
	"github.com/prajwalbharadwajbm/hashroute/internal/service"
	"github.com/prajwalbharadwajbm/hashroute/internal/transport"
	"github.com/prajwalbharadwajbm/hashroute/internal/views"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const VERSION = "1.0.0"

func init() {
	config.LoadConfigs()
}

func main() {
	cfg := config.AppConfigInstance
	appLogger := logger.New(logger.Config{
		Service: "hashroute",
		Version: VERSION,
		Level:   cfg.GeneralConfig.LogLevel,
	})

	if err := run(appLogger); err != nil {
		level.Error(appLogger).Log("msg", "server stopped", "err", err)
		os.Exit(1)
	}
}

func run(logger log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.AppConfigInstance

	table, err := views.NewTable()
	if err != nil {
		return fmt.Errorf("invalid route table: %w", err)
	}
	level.Info(logger).Log("msg", "route table ready", "routes", table.Len())

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewPrometheusMetrics(registry)

	hybridCache, err := cache.NewHybridCache(config.GetCacheConfig())
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}
	defer hybridCache.Close()
	sessions := cache.NewSessionStore(hybridCache, config.GetSessionTTL(), m)

	checks := map[string]transport.HealthCheck{
		"cache": hybridCache.Ping,
	}

	var events service.EventLog
	if cfg.DatabaseConfig.Enabled {
		db, cleanup, err := database.Initialize(ctx, cfg.DatabaseConfig, logger)
		if err != nil {
			return err
		}
		defer cleanup()
		events = repository.NewPostgresEventLog(db)
		checks["database"] = db.HealthCheck
		level.Info(logger).Log("msg", "navigation events stored in postgres", "database", cfg.DatabaseConfig.DBName)
	} else {
		events = repository.NewMemoryEventLog(cfg.DatabaseConfig.EventLogSize)
		level.Info(logger).Log("msg", "navigation events kept in memory", "capacity", cfg.DatabaseConfig.EventLogSize)
	}
	events = repository.NewInstrumentedEventLog(events, m)

	svc := service.NewNavigationService(table, sessions, events, logger,
		service.WithHashBase(cfg.GeneralConfig.HashBase),
		service.WithHistoryLimit(cfg.GeneralConfig.HistoryLimit))

	handler := Routes(routeDeps{
		service:  svc,
		logger:   logger,
		metrics:  m,
		registry: registry,
		spa:      cfg.SPAConfig,
		checks:   checks,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.GeneralConfig.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		level.Info(logger).Log("msg", "starting server", "port", cfg.GeneralConfig.Port, "env", cfg.GeneralConfig.Env)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	level.Info(logger).Log("msg", "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GeneralConfig.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
