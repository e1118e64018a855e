package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticCheck(name, status string) Checker {
	return NewCheck(name, func(context.Context) CheckStatus {
		return CheckStatus{Status: status}
	})
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		checks         []Checker
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "no checks",
			expectedStatus: http.StatusOK,
			expectedBody:   StatusHealthy,
		},
		{
			name: "all healthy",
			checks: []Checker{
				staticCheck("persistence", StatusHealthy),
				staticCheck("summarizer", StatusHealthy),
			},
			expectedStatus: http.StatusOK,
			expectedBody:   StatusHealthy,
		},
		{
			name: "disabled does not degrade",
			checks: []Checker{
				staticCheck("persistence", StatusDisabled),
			},
			expectedStatus: http.StatusOK,
			expectedBody:   StatusHealthy,
		},
		{
			name: "degraded keeps 200",
			checks: []Checker{
				staticCheck("persistence", StatusDegraded),
				staticCheck("summarizer", StatusHealthy),
			},
			expectedStatus: http.StatusOK,
			expectedBody:   StatusDegraded,
		},
		{
			name: "unhealthy wins over degraded",
			checks: []Checker{
				staticCheck("persistence", StatusDegraded),
				staticCheck("extractor", StatusUnhealthy),
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &HealthHandler{Version: "test-version", Checks: tt.checks}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)

			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedBody, resp.Status)
			assert.Equal(t, "test-version", resp.Version)
			assert.Len(t, resp.Checks, len(tt.checks))
			assert.NotEmpty(t, resp.Timestamp)
		})
	}
}

func TestHealthHandler_CacheControl(t *testing.T) {
	handler := &HealthHandler{}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestBreakerCheck(t *testing.T) {
	tests := []struct {
		name       string
		configured bool
		open       func() bool
		want       string
	}{
		{name: "closed", configured: true, open: func() bool { return false }, want: StatusHealthy},
		{name: "open", configured: true, open: func() bool { return true }, want: StatusDegraded},
		{name: "no credentials", configured: false, open: func() bool { return false }, want: StatusDegraded},
		{name: "nil probe", configured: true, open: nil, want: StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := BreakerCheck("persistence", tt.configured, tt.open)
			assert.Equal(t, "persistence", c.Name())
			assert.Equal(t, tt.want, c.Check(context.Background()).Status)
		})
	}
}

func TestReadyHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		checks         []Checker
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "ready",
			checks:         []Checker{staticCheck("persistence", StatusDegraded)},
			expectedStatus: http.StatusOK,
			expectedBody:   "ready",
		},
		{
			name:           "not ready",
			checks:         []Checker{staticCheck("extractor", StatusUnhealthy)},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &ReadyHandler{Checks: tt.checks}

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), "extractor not ready")
			}
		})
	}
}

func TestLiveHandler_ServeHTTP(t *testing.T) {
	handler := &LiveHandler{}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alive", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
}
