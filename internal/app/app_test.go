package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hhttp "news-extractor/internal/handler/http"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// minimalEnv turns off every outbound dependency.
func minimalEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PERSISTENCE_BACKEND", "none")
	t.Setenv("SUMMARIZER_TYPE", "none")
	t.Setenv("CLASSIFIER_RULES_FILE", "")
	t.Setenv("SLACK_ENABLED", "false")
	t.Setenv("DISCORD_ENABLED", "false")
}

func TestBuild_Minimal(t *testing.T) {
	minimalEnv(t)

	c, err := Build(context.Background(), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close(context.Background()) })

	require.NotNil(t, c.Pipeline)
	assert.Nil(t, c.Pipeline.Store)
	assert.Nil(t, c.Pending)

	names := make(map[string]bool)
	for _, check := range c.Checks {
		names[check.Name()] = true
	}
	for _, want := range []string{"extractor", "summarizer", "persistence", "alerts"} {
		assert.True(t, names[want], "missing check %s", want)
	}
}

func TestBuild_AirtableExposesPending(t *testing.T) {
	minimalEnv(t)
	t.Setenv("PERSISTENCE_BACKEND", "airtable")
	t.Setenv("AIRTABLE_API_KEY", "")
	t.Setenv("AIRTABLE_BASE_ID", "")

	c, err := Build(context.Background(), discardLogger())
	require.NoError(t, err, "missing credentials must not fail startup")
	t.Cleanup(func() { _ = c.Close(context.Background()) })

	assert.NotNil(t, c.Pending)
	assert.NotNil(t, c.Pipeline.Store)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "unknown backend",
			env:  map[string]string{"PERSISTENCE_BACKEND": "postgres"},
			want: "PERSISTENCE_BACKEND",
		},
		{
			name: "unknown summarizer",
			env:  map[string]string{"SUMMARIZER_TYPE": "llama"},
			want: "SUMMARIZER_TYPE",
		},
		{
			name: "missing vocabulary",
			env:  map[string]string{"CLASSIFIER_RULES_FILE": filepath.Join(t.TempDir(), "missing.yaml")},
			want: "classifier",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			minimalEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Build(context.Background(), discardLogger())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuild_CustomVocabulary(t *testing.T) {
	minimalEnv(t)
	path := filepath.Join(t.TempDir(), "rules.yaml")
	vocab := `countries:
  - label: Japan
    keywords: [tokyo]
categories:
  - label: Sports
    keywords: [baseball]
`
	require.NoError(t, os.WriteFile(path, []byte(vocab), 0o600))
	t.Setenv("CLASSIFIER_RULES_FILE", path)

	c, err := Build(context.Background(), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close(context.Background()) })

	got := c.Pipeline.Classifier.Classify("Tokyo hosts the baseball final")
	assert.Equal(t, "Japan", got.Country)
	assert.Equal(t, "Sports", got.Category)
}

func TestHandler_Routes(t *testing.T) {
	minimalEnv(t)

	c, err := Build(context.Background(), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close(context.Background()) })

	cfg := ServerConfig{Version: "test", MaxBodyBytes: 1 << 20}
	handler, limiter := c.Handler(cfg, discardLogger())
	assert.Nil(t, limiter)

	t.Run("live", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("health degraded stays 200", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		var body hhttp.HealthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "test", body.Version)
		assert.Equal(t, hhttp.StatusDisabled, body.Checks["persistence"].Status)
		assert.Equal(t, hhttp.StatusDisabled, body.Checks["summarizer"].Status)
	})

	t.Run("metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("process rejects non-json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/process_url", strings.NewReader("url=x"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("process validates url", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/process_url", strings.NewReader(`{"url":"ftp://example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get on process is not allowed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/process_url", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestHandler_RateLimitAndAuth(t *testing.T) {
	minimalEnv(t)

	c, err := Build(context.Background(), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close(context.Background()) })

	cfg := ServerConfig{
		Version:      "test",
		JWTSecret:    []byte(strings.Repeat("k", 32)),
		MaxBodyBytes: 1 << 20,
	}
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.RPS = 0.001
	cfg.RateLimit.Burst = 1

	handler, limiter := c.Handler(cfg, discardLogger())
	require.NotNil(t, limiter)

	send := func() int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/process_url", strings.NewReader(`{"url":"https://example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "198.51.100.1:1234"
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, send(), "missing token")
	assert.Equal(t, http.StatusTooManyRequests, send(), "unauthenticated calls spend the budget")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "probes are neither limited nor authenticated")
}
