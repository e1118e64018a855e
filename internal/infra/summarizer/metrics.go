package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SummaryMetricsRecorder records summarization metrics. The interface lets
// tests inject a recorder instead of the Prometheus one.
type SummaryMetricsRecorder interface {
	// RecordLength records the length of a produced summary in runes.
	RecordLength(length int)

	// RecordDuration records the end-to-end time to produce a summary.
	RecordDuration(duration time.Duration)

	// RecordBackend counts a summary by the backend that produced it.
	RecordBackend(backend string)

	// RecordPrimaryFailure counts a primary call that exhausted its retries.
	RecordPrimaryFailure(provider string)

	// RecordPlaceholder counts summaries replaced by the placeholder.
	RecordPlaceholder()
}

// PrometheusSummaryMetrics implements SummaryMetricsRecorder using Prometheus metrics.
type PrometheusSummaryMetrics struct {
	lengthHistogram    prometheus.Histogram
	durationHistogram  prometheus.Histogram
	backendCounter     *prometheus.CounterVec
	failureCounter     *prometheus.CounterVec
	placeholderCounter prometheus.Counter
}

var (
	prometheusMetricsInstance *PrometheusSummaryMetrics
	prometheusMetricsOnce     sync.Once
)

// getOrCreateHistogram gets an existing histogram or creates a new one if it doesn't exist
func getOrCreateHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	h := prometheus.NewHistogram(opts)
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Histogram)
		}
		return promauto.NewHistogram(opts)
	}
	return h
}

// getOrCreateCounter gets an existing counter or creates a new one if it doesn't exist
func getOrCreateCounter(opts prometheus.CounterOpts) prometheus.Counter {
	c := prometheus.NewCounter(opts)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Counter)
		}
		return promauto.NewCounter(opts)
	}
	return c
}

// getOrCreateCounterVec gets an existing counter vector or creates a new one
func getOrCreateCounterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	c := prometheus.NewCounterVec(opts, labels)
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return promauto.NewCounterVec(opts, labels)
	}
	return c
}

// NewPrometheusSummaryMetrics returns the process-wide Prometheus recorder.
// Uses singleton pattern to avoid duplicate metric registration in tests.
func NewPrometheusSummaryMetrics() *PrometheusSummaryMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusSummaryMetrics{
			lengthHistogram: getOrCreateHistogram(prometheus.HistogramOpts{
				Name:    "article_summary_length_characters",
				Help:    "Distribution of summary lengths in characters (Unicode runes)",
				Buckets: []float64{50, 100, 250, 500, 750, 1000, 1500, 2000},
			}),
			durationHistogram: getOrCreateHistogram(prometheus.HistogramOpts{
				Name:    "article_summarization_duration_seconds",
				Help:    "Time taken to produce a summary including retries and fallback",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
			}),
			backendCounter: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "article_summaries_total",
				Help: "Total summaries produced, by backend (primary or fallback)",
			}, []string{"backend"}),
			failureCounter: getOrCreateCounterVec(prometheus.CounterOpts{
				Name: "article_summary_primary_failures_total",
				Help: "Total primary summarizer calls that failed after retries",
			}, []string{"provider"}),
			placeholderCounter: getOrCreateCounter(prometheus.CounterOpts{
				Name: "article_summary_placeholder_total",
				Help: "Total summaries replaced by the unavailable placeholder",
			}),
		}
	})
	return prometheusMetricsInstance
}

// RecordLength implements SummaryMetricsRecorder.RecordLength
func (p *PrometheusSummaryMetrics) RecordLength(length int) {
	p.lengthHistogram.Observe(float64(length))
}

// RecordDuration implements SummaryMetricsRecorder.RecordDuration
func (p *PrometheusSummaryMetrics) RecordDuration(duration time.Duration) {
	p.durationHistogram.Observe(duration.Seconds())
}

// RecordBackend implements SummaryMetricsRecorder.RecordBackend
func (p *PrometheusSummaryMetrics) RecordBackend(backend string) {
	p.backendCounter.WithLabelValues(backend).Inc()
}

// RecordPrimaryFailure implements SummaryMetricsRecorder.RecordPrimaryFailure
func (p *PrometheusSummaryMetrics) RecordPrimaryFailure(provider string) {
	p.failureCounter.WithLabelValues(provider).Inc()
}

// RecordPlaceholder implements SummaryMetricsRecorder.RecordPlaceholder
func (p *PrometheusSummaryMetrics) RecordPlaceholder() {
	p.placeholderCounter.Inc()
}
