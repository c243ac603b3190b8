package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/config"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/docs"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/httputil"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// StatusServer serves the pages of a watch session together with health
// probes and Prometheus metrics:
//
//	GET /docs            page listing
//	GET /docs/{page}     rendered Markdown
//	GET /health[/live|/ready]
//	GET /metrics
type StatusServer struct {
	store    *docs.PageStore
	health   *observability.HealthChecker
	metrics  *observability.Metrics
	registry *prometheus.Registry
	handler  http.Handler
	logger   *logrus.Logger
}

// NewStatusServer creates a status server with its own metrics registry
func NewStatusServer(logger *logrus.Logger, version string) *StatusServer {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &StatusServer{
		store:    docs.NewPageStore(),
		health:   observability.NewHealthChecker(version),
		metrics:  observability.NewMetrics(registry),
		registry: registry,
		logger:   logger,
	}

	router := mux.NewRouter()
	router.Use(httputil.RequestIDMiddleware, observability.HTTPMetricsMiddleware(s.metrics))
	docs.NewDocsHandlers(s.store).RegisterRoutes(router)
	observability.RegisterHealthRoutes(router, s.health)
	observability.RegisterMetricsEndpoint(router, registry)

	handler := httputil.Chain(
		httputil.RecoveryMiddleware(logger),
		httputil.LoggingMiddleware(logger),
	)(router)
	s.handler = otelhttp.NewHandler(handler, "rpcdoc.status")

	return s
}

// Handler returns the HTTP handler
func (s *StatusServer) Handler() http.Handler {
	return s.handler
}

// Observe records a render. Failed renders keep the previous pages.
func (s *StatusServer) Observe(result RenderResult) {
	if result.Trigger != TriggerInitial {
		s.metrics.ObserveWatchEvent(result.Trigger)
	}
	s.metrics.ObserveRender(result.Duration, len(result.Pages), result.Err)
	s.health.RecordRender(len(result.Pages), result.Duration, result.Err)
	if result.Err == nil {
		s.store.Replace(result.Pages, time.Now())
	}
}

// Start listens on addr and serves in the background. It returns the
// server, for shutdown, and the bound address.
func (s *StatusServer) Start(addr string) (*http.Server, string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("status server stopped")
		}
	}()

	return srv, ln.Addr().String(), nil
}

// runWatch runs a watch session, with a status server when cfg.ServeAddr is
// set, until ctx ends or the process is interrupted
func runWatch(ctx context.Context, cfg *RenderConfig, opts *config.Options, files []string, logger *logrus.Logger) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sm := observability.NewShutdownManager(logger, observability.DefaultShutdownTimeout)
	sm.RegisterShutdownFunc(func(context.Context) error {
		cancel()
		return nil
	})

	var observers []RenderObserver
	if cfg.ServeAddr != "" {
		status := NewStatusServer(logger, Version)
		srv, addr, err := status.Start(cfg.ServeAddr)
		if err != nil {
			return err
		}
		logger.Infof("Serving documentation on http://%s/docs", addr)
		sm.RegisterShutdownFunc(srv.Shutdown)
		observers = append(observers, status.Observe)
	}

	shutdownDone := make(chan error, 1)
	go func() {
		shutdownDone <- sm.WaitForShutdown(runCtx)
	}()

	err := Watch(runCtx, cfg, opts, files, logger, observers...)
	cancel()
	if shutdownErr := <-shutdownDone; err == nil {
		err = shutdownErr
	}
	return err
}
