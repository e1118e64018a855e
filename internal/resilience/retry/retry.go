// Package retry re-runs failing operations with fixed or exponential backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net"
	"net/http"
	"syscall"
	"time"
)

// Policy describes how an operation is retried.
type Policy struct {
	// Attempts is the total number of calls, including the first. Values
	// below 1 are treated as 1.
	Attempts int

	// Delay is the wait before the second call. Each later wait is
	// multiplied by Multiplier and capped at MaxDelay.
	Delay      time.Duration
	MaxDelay   time.Duration
	Multiplier float64

	// Jitter adds up to this fraction of each wait at random, in [0, 1].
	Jitter float64

	// Retryable decides whether an error is worth another call.
	// Nil means Transient.
	Retryable func(error) bool
}

// Default backs off exponentially from 1s to 30s over three attempts.
func Default() Policy {
	return Policy{
		Attempts:   3,
		Delay:      time.Second,
		MaxDelay:   30 * time.Second,
		Multiplier: 2,
		Jitter:     0.1,
	}
}

// Feed is Default with five attempts. Feed hosts are flaky and a skipped
// poll costs a whole cron interval.
func Feed() Policy {
	p := Default()
	p.Attempts = 5
	return p
}

// Fixed waits the same delay between every attempt and retries anything
// that is not Permanent or a context error. The remote summarizer uses it.
func Fixed(attempts int, delay time.Duration) Policy {
	return Policy{
		Attempts:   attempts,
		Delay:      delay,
		MaxDelay:   delay,
		Multiplier: 1,
		Retryable:  UnlessPermanent,
	}
}

// Backoff returns the wait after the given failed attempt, counted from 1,
// before jitter.
func (p Policy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(p.Delay)
	if p.Multiplier > 0 {
		d *= math.Pow(p.Multiplier, float64(attempt-1))
	}
	if p.MaxDelay > 0 && d > float64(p.MaxDelay) {
		return p.MaxDelay
	}
	return time.Duration(d)
}

// Do calls fn until it succeeds, returns a non-retryable error, the
// attempts run out or ctx is done. The last error is wrapped in the result.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := max(p.Attempts, 1)
	retryable := p.Retryable
	if retryable == nil {
		retryable = Transient
	}

	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			if attempt > 1 {
				slog.Info("operation succeeded after retry", slog.Int("attempt", attempt))
			}
			return nil
		}
		if !retryable(err) {
			slog.Warn("non-retryable error, aborting",
				slog.Int("attempt", attempt),
				slog.Any("error", err))
			return err
		}
		if attempt == attempts {
			return fmt.Errorf("gave up after %d attempts: %w", attempts, err)
		}

		wait := jitter(p.Backoff(attempt), p.Jitter)
		slog.Warn("operation failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Duration("delay", wait),
			slog.Any("error", err))

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted: %w", errors.Join(ctx.Err(), err))
		}
	}
}

// Transient reports whether err looks like a passing network or server
// condition: timeouts, refused or reset connections, and 408, 429 or 5xx
// responses carried as *StatusError.
func Transient(err error) bool {
	if err == nil || isContextErr(err) || IsPermanent(err) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT, syscall.ENETUNREACH} {
		if errors.Is(err, errno) {
			return true
		}
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	return false
}

// UnlessPermanent retries everything except context errors and errors
// marked with Permanent.
func UnlessPermanent(err error) bool {
	return err != nil && !isContextErr(err) && !IsPermanent(err)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err so that no policy retries it. Permanent(nil) is nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err, or anything it wraps, was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// StatusError is a non-2xx HTTP response from an upstream service.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether the status is worth retrying.
func (e *StatusError) Temporary() bool {
	switch {
	case e.StatusCode >= 500 && e.StatusCode < 600:
		return true
	case e.StatusCode == http.StatusTooManyRequests, e.StatusCode == http.StatusRequestTimeout:
		return true
	}
	return false
}

func jitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 || d <= 0 {
		return d
	}
	fraction = min(fraction, 1)
	// #nosec G404 -- backoff jitter does not need cryptographic randomness.
	return d + time.Duration(rand.Float64()*float64(d)*fraction)
}
