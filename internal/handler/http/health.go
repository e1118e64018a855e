// Package http provides the HTTP handlers and middleware of the article
// service: health probes, metrics, logging, recovery and rate limiting.
package http

import (
	"context"
	"net/http"
	"time"

	"news-extractor/internal/handler/http/respond"
)

// Component status values.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
	StatusDisabled  = "disabled"
)

// HealthResponse represents the JSON response for the health endpoint.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy", "degraded" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`
	Version   string                 `json:"version"`
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string         `json:"status"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Checker reports the state of one dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckStatus
}

type checkFunc struct {
	name string
	fn   func(ctx context.Context) CheckStatus
}

func (c checkFunc) Name() string                          { return c.name }
func (c checkFunc) Check(ctx context.Context) CheckStatus { return c.fn(ctx) }

// NewCheck adapts fn into a Checker.
func NewCheck(name string, fn func(ctx context.Context) CheckStatus) Checker {
	return checkFunc{name: name, fn: fn}
}

// BreakerCheck reports a dependency guarded by a circuit breaker. A
// dependency without credentials is degraded, since requests still succeed
// with a failed persistence outcome or a fallback summary.
func BreakerCheck(name string, configured bool, open func() bool) Checker {
	return NewCheck(name, func(context.Context) CheckStatus {
		switch {
		case !configured:
			return CheckStatus{Status: StatusDegraded, Message: "credentials not configured"}
		case open != nil && open():
			return CheckStatus{Status: StatusDegraded, Message: "circuit breaker open"}
		default:
			return CheckStatus{Status: StatusHealthy}
		}
	})
}

// DisabledCheck reports a component turned off by configuration.
func DisabledCheck(name string) Checker {
	return NewCheck(name, func(context.Context) CheckStatus {
		return CheckStatus{Status: StatusDisabled}
	})
}

// HealthHandler reports every component. It answers 503 only when a check
// is unhealthy; degraded components keep the service in rotation.
type HealthHandler struct {
	Version string
	Checks  []Checker
	Timeout time.Duration
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	timeout := h.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	checks := make(map[string]CheckStatus, len(h.Checks))
	status := StatusHealthy
	for _, c := range h.Checks {
		cs := c.Check(ctx)
		checks[c.Name()] = cs
		switch cs.Status {
		case StatusUnhealthy:
			status = StatusUnhealthy
		case StatusDegraded:
			if status == StatusHealthy {
				status = StatusDegraded
			}
		}
	}

	code := http.StatusOK
	if status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	respond.JSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	})
}

// ReadyHandler handles readiness probes. The service is ready once it is
// serving and no check reports unhealthy.
type ReadyHandler struct {
	Checks []Checker
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for _, c := range h.Checks {
		if cs := c.Check(ctx); cs.Status == StatusUnhealthy {
			http.Error(w, c.Name()+" not ready: "+cs.Message, http.StatusServiceUnavailable)
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// LiveHandler handles liveness probes.
type LiveHandler struct{}

func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("alive"))
}
