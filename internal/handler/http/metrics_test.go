package http

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"news-extractor/internal/handler/http/pathutil"
	"news-extractor/internal/observability/metrics"
)

// TestMetricsMiddleware_PathNormalization checks that requests are counted
// under their normalized route label.
func TestMetricsMiddleware_PathNormalization(t *testing.T) {
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}))

	tests := []struct {
		name         string
		path         string
		expectedPath string
	}{
		{
			name:         "known route unchanged",
			path:         "/health",
			expectedPath: "/health",
		},
		{
			name:         "swagger asset collapses",
			path:         "/swagger/index.html",
			expectedPath: "/swagger/*",
		},
		{
			name:         "unknown path collapses",
			path:         "/admin/config.php",
			expectedPath: pathutil.OtherPath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, tt.expectedPath, "200")
			before := testutil.ToFloat64(counter)

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rr.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", rr.Code)
			}
			if got := testutil.ToFloat64(counter); got != before+1 {
				t.Errorf("counter for %s = %v, want %v", tt.expectedPath, got, before+1)
			}
		})
	}
}

func TestMetricsMiddleware_StatusCodes(t *testing.T) {
	codes := []int{http.StatusOK, http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusInternalServerError}

	for _, code := range codes {
		t.Run(http.StatusText(code), func(t *testing.T) {
			handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
			}))
			counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodPost, "/process_url", strconv.Itoa(code))
			before := testutil.ToFloat64(counter)

			handler.ServeHTTP(httptest.NewRecorder(),
				httptest.NewRequest(http.MethodPost, "/process_url", strings.NewReader(`{"url":"x"}`)))

			if got := testutil.ToFloat64(counter); got != before+1 {
				t.Errorf("counter = %v, want %v", got, before+1)
			}
		})
	}
}

func TestMetricsMiddleware_InFlightReturnsToZero(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsInFlight)

	var during float64
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = testutil.ToFloat64(httpRequestsInFlight)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/live", nil))

	if during != before+1 {
		t.Errorf("in-flight during request = %v, want %v", during, before+1)
	}
	if after := testutil.ToFloat64(httpRequestsInFlight); after != before {
		t.Errorf("in-flight after request = %v, want %v", after, before)
	}
}

func TestMetricsHandler(t *testing.T) {
	// Touch a metric so the exposition is non-empty.
	metrics.RecordHTTPRequest(http.MethodGet, "/health", "200", 0, 0, 0)

	rr := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Errorf("expected status OK; got %v", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "http_requests_total") {
		t.Error("metrics endpoint does not expose http_requests_total")
	}
}
