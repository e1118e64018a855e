package notifier

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"news-extractor/internal/domain/entity"
)

func testAlert() Alert {
	return Alert{
		RequestID: "req-1",
		Record: entity.Record{
			URL:      "https://example.com/news/1",
			Headline: "Apple unveils new AI chip",
			Date:     "2024-05-01",
			Country:  "USA",
			Category: "Technology",
			Summary:  "Summary unavailable.",
		},
		Outcome: entity.PersistOutcome{
			Status:     entity.PersistFailed,
			StatusCode: 422,
			Error:      "INVALID_VALUE_FOR_COLUMN",
		},
		OccurredAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newTestWebhook(url string) *webhook {
	w := newWebhook("Test", url, 5*time.Second, NewRateLimiter(1000, 10))
	w.baseDelay = 10 * time.Millisecond
	return w
}

func TestWebhook_send(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		header    map[string]string
		body      string
		checkFunc func(t *testing.T, err error)
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   "ok",
			checkFunc: func(t *testing.T, err error) {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
			},
		},
		{
			name:   "no content",
			status: http.StatusNoContent,
			checkFunc: func(t *testing.T, err error) {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
			},
		},
		{
			name:   "rate limited with json retry_after",
			status: http.StatusTooManyRequests,
			body:   `{"message":"You are being rate limited.","retry_after":1.5}`,
			checkFunc: func(t *testing.T, err error) {
				var rl *RateLimitError
				if !errors.As(err, &rl) {
					t.Fatalf("expected RateLimitError, got %T", err)
				}
				if rl.RetryAfter != 1500*time.Millisecond {
					t.Errorf("expected retry after 1.5s, got %v", rl.RetryAfter)
				}
			},
		},
		{
			name:   "rate limited with header",
			status: http.StatusTooManyRequests,
			header: map[string]string{"Retry-After": "3"},
			checkFunc: func(t *testing.T, err error) {
				var rl *RateLimitError
				if !errors.As(err, &rl) {
					t.Fatalf("expected RateLimitError, got %T", err)
				}
				if rl.RetryAfter != 3*time.Second {
					t.Errorf("expected retry after 3s, got %v", rl.RetryAfter)
				}
			},
		},
		{
			name:   "client error",
			status: http.StatusNotFound,
			body:   "no_service",
			checkFunc: func(t *testing.T, err error) {
				var ce *ClientError
				if !errors.As(err, &ce) {
					t.Fatalf("expected ClientError, got %T", err)
				}
				if ce.StatusCode != http.StatusNotFound {
					t.Errorf("expected 404, got %d", ce.StatusCode)
				}
				if isRetryableError(err) {
					t.Error("client errors must not be retryable")
				}
			},
		},
		{
			name:   "server error",
			status: http.StatusBadGateway,
			checkFunc: func(t *testing.T, err error) {
				var se *ServerError
				if !errors.As(err, &se) {
					t.Fatalf("expected ServerError, got %T", err)
				}
				if !isRetryableError(err) {
					t.Error("server errors must be retryable")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("expected JSON content type, got %q", r.Header.Get("Content-Type"))
				}
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			tt.checkFunc(t, newTestWebhook(server.URL).send(context.Background(), map[string]string{"text": "hi"}))
		})
	}
}

func TestWebhook_deliver(t *testing.T) {
	t.Run("retries server errors then succeeds", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		if err := newTestWebhook(server.URL).deliver(context.Background(), testAlert(), struct{}{}); err != nil {
			t.Fatalf("expected success after retry, got %v", err)
		}
		if calls.Load() != 2 {
			t.Errorf("expected 2 calls, got %d", calls.Load())
		}
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		err := newTestWebhook(server.URL).deliver(context.Background(), testAlert(), struct{}{})
		if err == nil {
			t.Fatal("expected error")
		}
		if calls.Load() != 1 {
			t.Errorf("expected 1 call, got %d", calls.Load())
		}
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		err := newTestWebhook(server.URL).deliver(context.Background(), testAlert(), struct{}{})
		if err == nil || !strings.Contains(err.Error(), "failed after 2 attempts") {
			t.Fatalf("expected exhausted error, got %v", err)
		}
		if calls.Load() != webhookMaxAttempts {
			t.Errorf("expected %d calls, got %d", webhookMaxAttempts, calls.Load())
		}
	})

	t.Run("respects context cancellation during backoff", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		wh := newTestWebhook(server.URL)
		wh.baseDelay = time.Hour

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		err := wh.deliver(ctx, testAlert(), struct{}{})
		if err == nil || !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline error, got %v", err)
		}
	})
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		max    int
		suffix string
		want   string
	}{
		{name: "short", in: "abc", max: 5, suffix: "...", want: "abc"},
		{name: "exact", in: "abcde", max: 5, suffix: "...", want: "abcde"},
		{name: "truncated", in: "abcdefgh", max: 5, suffix: "...", want: "ab..."},
		{name: "multibyte", in: "日本語のテキスト", max: 5, suffix: "...", want: "日本..."},
		{name: "suffix longer than max", in: "abcdef", max: 2, suffix: "...", want: "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.max, tt.suffix); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}
