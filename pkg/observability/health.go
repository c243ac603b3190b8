package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/platinummonkey/protoc-gen-rpcdoc/pkg/httputil"
)

const (
	StatusHealthy   = "healthy"
	StatusStarting  = "starting"
	StatusUnhealthy = "unhealthy"
)

// HealthStatus represents the state of a watch session
type HealthStatus struct {
	Status     string        `json:"status"`
	Timestamp  time.Time     `json:"timestamp"`
	Version    string        `json:"version,omitempty"`
	LastRender *RenderStatus `json:"last_render,omitempty"`
}

// RenderStatus describes the most recent render
type RenderStatus struct {
	Succeeded bool          `json:"succeeded"`
	Message   string        `json:"message,omitempty"`
	Pages     int           `json:"pages"`
	Duration  time.Duration `json:"duration_ns"`
	Timestamp time.Time     `json:"timestamp"`
}

// HealthChecker reports readiness from the outcome of the last render
type HealthChecker struct {
	version string
	now     func() time.Time

	mu   sync.RWMutex
	last *RenderStatus
}

// NewHealthChecker creates a new health checker
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		version: version,
		now:     time.Now,
	}
}

// RecordRender stores the outcome of a render
func (h *HealthChecker) RecordRender(pages int, duration time.Duration, err error) {
	status := &RenderStatus{
		Succeeded: err == nil,
		Pages:     pages,
		Duration:  duration,
		Timestamp: h.now(),
	}
	if err != nil {
		status.Message = err.Error()
		status.Pages = 0
	}

	h.mu.Lock()
	h.last = status
	h.mu.Unlock()
}

// Check reports starting until the first render, then healthy or unhealthy
// depending on whether the last render succeeded.
func (h *HealthChecker) Check() HealthStatus {
	h.mu.RLock()
	last := h.last
	h.mu.RUnlock()

	status := HealthStatus{
		Status:    StatusHealthy,
		Timestamp: h.now(),
		Version:   h.version,
	}
	switch {
	case last == nil:
		status.Status = StatusStarting
	case !last.Succeeded:
		status.Status = StatusUnhealthy
	}
	if last != nil {
		copied := *last
		status.LastRender = &copied
	}
	return status
}

// Liveness always returns 200 while the process is serving
func (h *HealthChecker) Liveness(w http.ResponseWriter, r *http.Request) {
	httputil.WriteSuccess(w, map[string]interface{}{
		"status":    StatusHealthy,
		"timestamp": h.now(),
	})
}

// Readiness returns 503 until a render has succeeded and whenever the last
// render failed
func (h *HealthChecker) Readiness(w http.ResponseWriter, r *http.Request) {
	status := h.Check()
	code := http.StatusOK
	if status.Status != StatusHealthy {
		code = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, code, status)
}

// RegisterHealthRoutes registers health check endpoints
func RegisterHealthRoutes(router *mux.Router, checker *HealthChecker) {
	router.HandleFunc("/health", checker.Readiness).Methods(http.MethodGet)
	router.HandleFunc("/health/live", checker.Liveness).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", checker.Readiness).Methods(http.MethodGet)
}
