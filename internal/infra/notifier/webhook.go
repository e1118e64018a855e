package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	webhookMaxAttempts = 2
	webhookBaseDelay   = 5 * time.Second
	defaultRetryAfter  = 5 * time.Second
)

// webhook posts JSON payloads to one incoming-webhook URL with rate limiting
// and retries. Slack and Discord share it and differ only in payload shape.
type webhook struct {
	service     string
	url         string
	httpClient  *http.Client
	rateLimiter *RateLimiter
	baseDelay   time.Duration
}

func newWebhook(service, url string, timeout time.Duration, limiter *RateLimiter) *webhook {
	return &webhook{
		service:     service,
		url:         url,
		httpClient:  &http.Client{Timeout: timeout},
		rateLimiter: limiter,
		baseDelay:   webhookBaseDelay,
	}
}

// webhookErrorResponse covers the retry hint both services return on 429.
type webhookErrorResponse struct {
	Message    string  `json:"message"`
	RetryAfter float64 `json:"retry_after"` // In seconds
}

// send performs a single POST.
//
// Error types:
//   - 429: *RateLimitError (retryable after RetryAfter)
//   - 4xx (non-429): *ClientError (non-retryable)
//   - 5xx: *ServerError (retryable)
//   - Network error: retryable
func (w *webhook) send(ctx context.Context, payload any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{
			Message:    fmt.Sprintf("%s rate limit exceeded", w.service),
			RetryAfter: extractRetryAfter(resp, body),
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s API client error: %s", w.service, string(body)),
		}
	case resp.StatusCode >= 500:
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s API server error: %s", w.service, string(body)),
		}
	}
	return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
}

// extractRetryAfter reads retry_after from a JSON body, then the Retry-After
// header, defaulting to 5s.
func extractRetryAfter(resp *http.Response, body []byte) time.Duration {
	var errResp webhookErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.RetryAfter > 0 {
		return time.Duration(errResp.RetryAfter * float64(time.Second))
	}

	if retryAfterHeader := resp.Header.Get("Retry-After"); retryAfterHeader != "" {
		if seconds, err := strconv.Atoi(retryAfterHeader); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}

	return defaultRetryAfter
}

// deliver rate-limits, then sends with retries.
//
// Retry strategy:
//   - Max attempts: 2
//   - 429 errors: wait for retry_after
//   - Server errors (5xx) and network errors: linear backoff from baseDelay
//   - Client errors (4xx): no retry
func (w *webhook) deliver(ctx context.Context, alert Alert, payload any) error {
	requestID := alert.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	if err := w.rateLimiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= webhookMaxAttempts; attempt++ {
		err := w.send(ctx, payload)
		if err == nil {
			slog.Info("alert delivered",
				slog.String("request_id", requestID),
				slog.String("channel", w.service),
				slog.String("url", alert.Record.URL),
				slog.Int("attempt", attempt))
			return nil
		}
		lastErr = err

		if rateLimitErr, ok := is429Error(err); ok {
			slog.Warn("webhook rate limit hit, backing off",
				slog.String("request_id", requestID),
				slog.String("channel", w.service),
				slog.Duration("retry_after", rateLimitErr.RetryAfter),
				slog.Int("attempt", attempt))

			select {
			case <-time.After(rateLimitErr.RetryAfter):
				continue
			case <-ctx.Done():
				return fmt.Errorf("context canceled during rate limit backoff: %w", ctx.Err())
			}
		}

		if !isRetryableError(err) {
			slog.Error("alert failed with non-retryable error",
				slog.String("request_id", requestID),
				slog.String("channel", w.service),
				slog.Any("error", err),
				slog.Int("attempt", attempt))
			return err
		}

		if attempt < webhookMaxAttempts {
			delay := w.baseDelay * time.Duration(attempt)
			slog.Warn("webhook request failed, retrying",
				slog.String("request_id", requestID),
				slog.String("channel", w.service),
				slog.Any("error", err),
				slog.Int("attempt", attempt),
				slog.Duration("delay", delay))

			select {
			case <-time.After(delay):
				continue
			case <-ctx.Done():
				return fmt.Errorf("context canceled during retry backoff: %w", ctx.Err())
			}
		}
	}

	slog.Error("alert failed after all retries",
		slog.String("request_id", requestID),
		slog.String("channel", w.service),
		slog.Any("error", lastErr),
		slog.Int("max_attempts", webhookMaxAttempts))

	return fmt.Errorf("%s alert failed after %d attempts: %w", w.service, webhookMaxAttempts, lastErr)
}
