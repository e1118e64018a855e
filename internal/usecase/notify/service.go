// Package notify dispatches persistence-failure alerts to the configured
// chat channels without blocking the request that raised them.
package notify

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"news-extractor/internal/infra/notifier"
	"news-extractor/internal/resilience/circuitbreaker"
)

const (
	workerPoolTimeout   = 5 * time.Second  // Timeout for acquiring worker slot
	notificationTimeout = 30 * time.Second // Timeout for individual notification
)

// Service dispatches alerts to multiple channels.
type Service interface {
	// NotifyPersistenceFailure dispatches alert to every enabled channel.
	// It returns immediately; delivery happens in background goroutines and
	// failures are logged and counted, never returned.
	NotifyPersistenceFailure(ctx context.Context, alert notifier.Alert)

	// GetChannelHealth returns the breaker state of every channel.
	GetChannelHealth() []ChannelHealthStatus

	// Shutdown stops accepting alerts and waits for in-flight deliveries
	// until ctx is done.
	Shutdown(ctx context.Context) error
}

// ChannelHealthStatus represents the health status of a notification channel.
type ChannelHealthStatus struct {
	Name               string
	Enabled            bool
	CircuitBreakerOpen bool
}

type channel struct {
	notifier notifier.Notifier
	breaker  *circuitbreaker.CircuitBreaker
}

type service struct {
	channels       []channel
	workerPool     chan struct{} // Semaphore for limiting concurrent deliveries
	wg             sync.WaitGroup
	mu             sync.Mutex // guards closed and wg.Add against Shutdown
	closed         bool
	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

// NewService creates a dispatcher over the given notifiers. Disabled
// notifiers are kept for health reporting but never called.
func NewService(notifiers []notifier.Notifier, maxConcurrent int) Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	svc := &service{
		workerPool:     make(chan struct{}, maxConcurrent),
		shutdownCtx:    shutdownCtx,
		shutdownCancel: shutdownCancel,
	}

	enabled := 0
	for _, n := range notifiers {
		svc.channels = append(svc.channels, channel{
			notifier: n,
			breaker:  circuitbreaker.New(circuitbreaker.DefaultConfig("alert-" + n.Name())),
		})
		if n.IsEnabled() {
			enabled++
		}
	}
	SetChannelsEnabled(float64(enabled))

	return svc
}

// NotifyPersistenceFailure implements Service.
func (s *service) NotifyPersistenceFailure(ctx context.Context, alert notifier.Alert) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		slog.WarnContext(ctx, "alert dropped after shutdown", slog.String("url", alert.Record.URL))
		return
	}

	for _, ch := range s.channels {
		if !ch.notifier.IsEnabled() {
			continue
		}
		s.wg.Add(1)
		go s.notifyChannel(ch, alert)
	}
}

// notifyChannel delivers alert to a single channel in a goroutine.
func (s *service) notifyChannel(ch channel, alert notifier.Alert) {
	defer s.wg.Done()

	name := ch.notifier.Name()

	IncrementActiveGoroutines()
	defer DecrementActiveGoroutines()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in alert channel",
				slog.String("request_id", alert.RequestID),
				slog.String("channel", name),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
	}()

	select {
	case s.workerPool <- struct{}{}:
		defer func() { <-s.workerPool }()
	case <-time.After(workerPoolTimeout):
		slog.Warn("alert dropped: worker pool full",
			slog.String("request_id", alert.RequestID),
			slog.String("channel", name))
		RecordDropped(name, "pool_full")
		return
	case <-s.shutdownCtx.Done():
		RecordDropped(name, "shutdown")
		return
	}

	ctx, cancel := context.WithTimeout(s.shutdownCtx, notificationTimeout)
	defer cancel()

	start := time.Now()
	RecordDispatch(name)

	_, err := ch.breaker.Execute(func() (interface{}, error) {
		return nil, ch.notifier.Notify(ctx, alert)
	})
	duration := time.Since(start)

	if circuitbreaker.IsOpenError(err) {
		slog.Warn("channel temporarily disabled by circuit breaker",
			slog.String("request_id", alert.RequestID),
			slog.String("channel", name))
		RecordDropped(name, "circuit_open")
		return
	}
	if err != nil {
		RecordFailure(name, duration)
		slog.Warn("alert delivery failed",
			slog.String("request_id", alert.RequestID),
			slog.String("channel", name),
			slog.String("url", alert.Record.URL),
			slog.Duration("send_duration", duration),
			slog.Any("error", err))
		return
	}
	RecordSuccess(name, duration)
}

// GetChannelHealth implements Service.
func (s *service) GetChannelHealth() []ChannelHealthStatus {
	statuses := make([]ChannelHealthStatus, 0, len(s.channels))
	for _, ch := range s.channels {
		statuses = append(statuses, ChannelHealthStatus{
			Name:               ch.notifier.Name(),
			Enabled:            ch.notifier.IsEnabled(),
			CircuitBreakerOpen: ch.breaker.State() == gobreaker.StateOpen,
		})
	}
	return statuses
}

// Shutdown implements Service.
func (s *service) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down notification service")
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.shutdownCancel()
		slog.Info("Notification service shutdown complete")
		return nil
	case <-ctx.Done():
		s.shutdownCancel()
		slog.Warn("Notification service shutdown timeout")
		return ctx.Err()
	}
}
