package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RunReport summarizes the most recent pass for /health/last-run.
type RunReport struct {
	StartedAt  time.Time `json:"started_at"`
	Duration   string    `json:"duration"`
	Pending    int       `json:"pending"`
	Updated    int64     `json:"updated"`
	Skipped    int64     `json:"skipped"`
	Failed     int64     `json:"failed"`
	FeedItems  int       `json:"feed_items"`
	Inserted   int       `json:"inserted"`
	Error      string    `json:"error,omitempty"`
	Successful bool      `json:"successful"`
}

// HealthServer serves the worker's probes and Prometheus metrics:
//   - GET /health: liveness, always 200
//   - GET /health/ready: 200 once SetReady(true) was called, else 503
//   - GET /health/last-run: the last RunReport, 404 before the first pass
//   - GET /metrics: Prometheus exposition
type HealthServer struct {
	addr    string
	logger  *slog.Logger
	isReady atomic.Bool
	server  *http.Server

	mu      sync.RWMutex
	lastRun *RunReport
}

type healthResponse struct {
	Status string `json:"status"`
}

// NewHealthServer creates a server that is not ready yet.
func NewHealthServer(addr string, logger *slog.Logger) *HealthServer {
	return &HealthServer{addr: addr, logger: logger}
}

// Handler returns the server's routes.
func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.handleLiveness)
	mux.HandleFunc("GET /health/ready", h.handleReadiness)
	mux.HandleFunc("GET /health/last-run", h.handleLastRun)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// Start serves until ctx is cancelled, then shuts down within 5 seconds.
// It returns http.ErrServerClosed after a graceful shutdown.
func (h *HealthServer) Start(ctx context.Context) error {
	h.server = &http.Server{
		Addr:         h.addr,
		Handler:      h.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		h.logger.Info("health server starting", slog.String("addr", h.addr))
		if err := h.server.ListenAndServe(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		h.logger.Info("health server shutting down")
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			h.logger.Error("health server shutdown failed", slog.Any("error", err))
			return err
		}
		return http.ErrServerClosed

	case err := <-errChan:
		if !errors.Is(err, http.ErrServerClosed) {
			h.logger.Error("health server failed", slog.Any("error", err))
		}
		return err
	}
}

// SetReady sets the readiness state reported by /health/ready.
func (h *HealthServer) SetReady(ready bool) {
	h.isReady.Store(ready)
	h.logger.Info("health server readiness changed", slog.Bool("ready", ready))
}

// RecordRun stores the report of the pass that just finished.
func (h *HealthServer) RecordRun(report RunReport) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastRun = &report
}

func (h *HealthServer) handleLiveness(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (h *HealthServer) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if h.isReady.Load() {
		h.writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
		return
	}
	h.writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "not ready"})
}

func (h *HealthServer) handleLastRun(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	last := h.lastRun
	h.mu.RUnlock()

	if last == nil {
		h.writeJSON(w, http.StatusNotFound, healthResponse{Status: "no run yet"})
		return
	}
	h.writeJSON(w, http.StatusOK, last)
}

func (h *HealthServer) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}
