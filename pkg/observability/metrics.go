package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Render outcome labels
const (
	RenderSuccess = "success"
	RenderFailure = "failure"
)

// Metrics holds the Prometheus metrics of a watch session
type Metrics struct {
	// Render metrics
	RendersTotal   *prometheus.CounterVec
	RenderDuration prometheus.Histogram
	PagesWritten   prometheus.Counter
	PagesCurrent   prometheus.Gauge

	// Watch metrics
	WatchEventsTotal *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		RendersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rpcdoc_renders_total",
				Help: "Total number of documentation renders",
			},
			[]string{"status"},
		),
		RenderDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rpcdoc_render_duration_seconds",
				Help:    "Time to compile, resolve and write documentation",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
		),
		PagesWritten: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "rpcdoc_pages_written_total",
				Help: "Total number of documentation pages written",
			},
		),
		PagesCurrent: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "rpcdoc_pages",
				Help: "Number of pages produced by the last successful render",
			},
		),

		WatchEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rpcdoc_watch_events_total",
				Help: "File system events that triggered a render",
			},
			[]string{"op"},
		),

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rpcdoc_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rpcdoc_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	registry.MustRegister(
		m.RendersTotal,
		m.RenderDuration,
		m.PagesWritten,
		m.PagesCurrent,
		m.WatchEventsTotal,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)

	return m
}

// ObserveRender records one render. A nil receiver records nothing.
func (m *Metrics) ObserveRender(duration time.Duration, pages int, err error) {
	if m == nil {
		return
	}
	m.RenderDuration.Observe(duration.Seconds())
	if err != nil {
		m.RendersTotal.WithLabelValues(RenderFailure).Inc()
		return
	}
	m.RendersTotal.WithLabelValues(RenderSuccess).Inc()
	m.PagesWritten.Add(float64(pages))
	m.PagesCurrent.Set(float64(pages))
}

// ObserveWatchEvent records a file system event that triggered a render
func (m *Metrics) ObserveWatchEvent(op string) {
	if m == nil {
		return
	}
	m.WatchEventsTotal.WithLabelValues(op).Inc()
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// HTTPMetricsMiddleware instruments requests. Paths are labeled by route
// template so page names do not create new series.
func HTTPMetricsMiddleware(metrics *Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			path := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tmpl, err := route.GetPathTemplate(); err == nil {
					path = tmpl
				}
			}
			status := strconv.Itoa(rw.statusCode)

			metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// RegisterMetricsEndpoint registers the /metrics endpoint
func RegisterMetricsEndpoint(router *mux.Router, registry *prometheus.Registry) {
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}
