// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestSize measures HTTP request body size in bytes
	HTTPRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)
)

// Pipeline metrics track article processing outcomes
var (
	// PipelineRequestsTotal counts processed URLs by outcome
	PipelineRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_requests_total",
			Help: "Total number of article URLs processed by outcome",
		},
		[]string{"outcome"}, // outcome: success, invalid, extraction_failed, internal_error
	)

	// PipelineDuration measures end-to-end processing time of one URL
	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_duration_seconds",
			Help:    "Time taken to process one article URL",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
	)

	// ExtractionFailuresTotal counts extraction failures by reason
	ExtractionFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_extraction_failures_total",
			Help: "Total number of article extraction failures",
		},
		[]string{"reason"},
	)

	// ExtractionDuration measures time to fetch and parse an article
	ExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "article_extraction_duration_seconds",
			Help:    "Time taken to fetch and parse an article",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)

	// ClassificationsTotal counts assigned classifications
	ClassificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "article_classifications_total",
			Help: "Total number of classifications by country and category",
		},
		[]string{"country", "category"},
	)

	// PersistenceTotal counts persistence pushes by status
	PersistenceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "persistence_requests_total",
			Help: "Total number of persistence pushes by status",
		},
		[]string{"backend", "status"}, // status: ok, failed, disabled
	)

	// PersistenceDuration measures time spent pushing a record
	PersistenceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "persistence_duration_seconds",
			Help:    "Time taken to push a record to the persistence service",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"backend"},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, requestSize, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if requestSize > 0 {
		HTTPRequestSize.WithLabelValues(method, path).Observe(float64(requestSize))
	}
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}
