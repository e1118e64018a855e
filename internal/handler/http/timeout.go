package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"news-extractor/internal/handler/http/requestid"
	"news-extractor/internal/handler/http/respond"
)

var httpTimeoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "http_request_timeouts_total",
	Help: "Requests answered with 504 by the timeout middleware",
})

// Timeout returns middleware that answers 504 when the handler has not
// written a response within duration. The request context is cancelled so
// the pipeline stops its outbound calls. A non-positive duration disables
// the timeout.
//
// Only one of the handler and the timeout path ever writes the response;
// the handler's later writes fail with http.ErrHandlerTimeout.
func Timeout(duration time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if duration <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), duration)
			defer cancel()
			r = r.WithContext(ctx)

			tw := &timeoutResponseWriter{w: w, header: make(http.Header)}
			done := make(chan struct{})
			panicked := make(chan any, 1)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicked <- p
					}
				}()
				next.ServeHTTP(tw, r)
				close(done)
			}()

			select {
			case p := <-panicked:
				panic(p)
			case <-done:
				tw.mu.Lock()
				defer tw.mu.Unlock()
				if !tw.wroteHeader {
					tw.writeHeaderLocked(http.StatusOK)
				}
			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.timedOut = true
				if tw.wroteHeader {
					return
				}
				httpTimeoutsTotal.Inc()
				slog.Warn("request timed out",
					slog.String("request_id", requestid.FromContext(r.Context())),
					slog.String("path", r.URL.Path),
					slog.Duration("timeout", duration))
				respond.Error(w, http.StatusGatewayTimeout, "request timeout")
			}
		})
	}
}

// timeoutResponseWriter buffers headers in its own map so that the handler
// goroutine never touches the real header map concurrently with the
// timeout path.
type timeoutResponseWriter struct {
	w           http.ResponseWriter
	header      http.Header
	mu          sync.Mutex
	timedOut    bool
	wroteHeader bool
}

func (tw *timeoutResponseWriter) Header() http.Header { return tw.header }

func (tw *timeoutResponseWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut || tw.wroteHeader {
		return
	}
	tw.writeHeaderLocked(code)
}

func (tw *timeoutResponseWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if !tw.wroteHeader {
		tw.writeHeaderLocked(http.StatusOK)
	}
	return tw.w.Write(b)
}

func (tw *timeoutResponseWriter) writeHeaderLocked(code int) {
	dst := tw.w.Header()
	for k, vv := range tw.header {
		dst[k] = vv
	}
	tw.wroteHeader = true
	tw.w.WriteHeader(code)
}
