// Package circuitbreaker guards outbound calls with github.com/sony/gobreaker
// and exports breaker state as Prometheus metrics.
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

var (
	stateGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Circuit breaker state by name (0=closed, 1=half-open, 2=open)",
	}, []string{"name"})

	rejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circuit_breaker_rejections_total",
		Help: "Calls rejected without reaching the dependency, by breaker name",
	}, []string{"name"})
)

// Config describes when a breaker trips and how it recovers.
type Config struct {
	Name string

	// MaxRequests is how many trial calls pass while half-open.
	MaxRequests uint32

	// Interval resets the counts while closed. Zero never resets.
	Interval time.Duration

	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration

	// The breaker trips once at least MinRequests calls were counted and
	// the share of failures reaches FailureThreshold (0.6 = 60%).
	FailureThreshold float64
	MinRequests      uint32

	// Healthy reports errors that say nothing about the dependency, such
	// as a caller asking for something that does not exist. They count as
	// successes. Nil counts every error except context.Canceled.
	Healthy func(error) bool
}

// DefaultConfig trips at 60% failures over at least five calls and probes
// again after a minute.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          time.Minute,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// LLMConfig is used for remote text-generation backends.
func LLMConfig(name string) Config {
	return DefaultConfig(name)
}

// ContentFetchConfig guards article page fetching. Single sites fail all
// the time, so only a sustained 80% failure rate trips it.
func ContentFetchConfig() Config {
	return Config{
		Name:             "content-fetch",
		MaxRequests:      5,
		Interval:         time.Minute,
		Timeout:          2 * time.Minute,
		FailureThreshold: 0.8,
		MinRequests:      10,
	}
}

// PersistenceConfig guards the record store. It probes again after 30s
// because persistence is best effort and a long open period drops rows.
func PersistenceConfig(name string) Config {
	cfg := DefaultConfig(name)
	cfg.MaxRequests = 2
	cfg.Interval = time.Minute
	cfg.Timeout = 30 * time.Second
	return cfg
}

// FeedFetchConfig guards RSS and Atom polling in the worker.
func FeedFetchConfig() Config {
	cfg := ContentFetchConfig()
	cfg.Name = "feed-fetch"
	cfg.FailureThreshold = 0.7
	return cfg
}

// CircuitBreaker is a named gobreaker.CircuitBreaker.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

// New builds a breaker from cfg. Calls that fail only because the caller
// canceled its context count as successes, as do errors cfg.Healthy accepts.
func New(cfg Config) *CircuitBreaker {
	stateGauge.WithLabelValues(cfg.Name).Set(stateValue(gobreaker.StateClosed))

	return &CircuitBreaker{
		name: cfg.Name,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        cfg.Name,
			MaxRequests: cfg.MaxRequests,
			Interval:    cfg.Interval,
			Timeout:     cfg.Timeout,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.Requests >= cfg.MinRequests &&
					float64(c.TotalFailures)/float64(c.Requests) >= cfg.FailureThreshold
			},
			IsSuccessful: func(err error) bool {
				if err == nil || errors.Is(err, context.Canceled) {
					return true
				}
				return cfg.Healthy != nil && cfg.Healthy(err)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				stateGauge.WithLabelValues(name).Set(stateValue(to))
				slog.Warn("circuit breaker state changed",
					slog.String("circuit", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()))
			},
		}),
	}
}

// Execute runs fn through the breaker. While open it returns
// gobreaker.ErrOpenState without calling fn.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	res, err := cb.breaker.Execute(fn)
	if IsOpenError(err) {
		rejectionsTotal.WithLabelValues(cb.name).Inc()
	}
	return res, err
}

// Run is Execute with a typed result.
func Run[T any](cb *CircuitBreaker, fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	v, _ := res.(T)
	return v, nil
}

func (cb *CircuitBreaker) State() gobreaker.State { return cb.breaker.State() }

func (cb *CircuitBreaker) Name() string { return cb.name }

// IsOpen reports whether calls are currently being rejected outright.
// Half-open counts as not open.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}

// IsOpenError reports whether err means the breaker rejected the call,
// either open or half-open with its trial quota used up.
func IsOpenError(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
