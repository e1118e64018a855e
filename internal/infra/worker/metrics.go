package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"news-extractor/internal/pkg/config"
)

// WorkerMetrics provides Prometheus metrics for the backfill worker.
// It embeds ConfigMetrics for configuration monitoring.
//
// Worker-specific metrics:
//   - worker_job_runs_total{status}: pass runs by success/failure
//   - worker_job_duration_seconds: duration of a pass
//   - worker_rows_total{result}: pending rows updated, skipped or failed
//   - worker_feed_items_total{result}: feed items inserted, duplicated or failed
//   - worker_job_last_success_timestamp: Unix time of the last successful pass
//
// NewWorkerMetrics registers on the default registry and must only be called
// once per process.
type WorkerMetrics struct {
	*config.ConfigMetrics

	JobRunsTotal         *prometheus.CounterVec
	JobDurationSeconds   prometheus.Histogram
	RowsTotal            *prometheus.CounterVec
	FeedItemsTotal       *prometheus.CounterVec
	LastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates and registers the worker metrics.
func NewWorkerMetrics() *WorkerMetrics {
	return NewWorkerMetricsWith(prometheus.DefaultRegisterer)
}

// NewWorkerMetricsWith registers the worker metrics on reg.
func NewWorkerMetricsWith(reg prometheus.Registerer) *WorkerMetrics {
	factory := promauto.With(reg)
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetricsWith(reg, "worker"),

		JobRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_job_runs_total",
			Help: "Total number of backfill passes by status (success/failure)",
		}, []string{"status"}),

		JobDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of a backfill pass in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800},
		}),

		RowsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_rows_total",
			Help: "Pending rows processed by result (updated/skipped/failed)",
		}, []string{"result"}),

		FeedItemsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_feed_items_total",
			Help: "Feed items seen by result (inserted/duplicated/failed)",
		}, []string{"result"}),

		LastSuccessTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "worker_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful backfill pass",
		}),
	}
}

// RecordJob records one pass. A nil err counts as success and updates the
// last-success timestamp.
func (m *WorkerMetrics) RecordJob(duration time.Duration, err error) {
	m.JobDurationSeconds.Observe(duration.Seconds())
	if err != nil {
		m.JobRunsTotal.WithLabelValues("failure").Inc()
		return
	}
	m.JobRunsTotal.WithLabelValues("success").Inc()
	m.LastSuccessTimestamp.SetToCurrentTime()
}

// RecordRows adds the per-row results of a backfill run.
func (m *WorkerMetrics) RecordRows(updated, skipped, failed int64) {
	m.RowsTotal.WithLabelValues("updated").Add(float64(updated))
	m.RowsTotal.WithLabelValues("skipped").Add(float64(skipped))
	m.RowsTotal.WithLabelValues("failed").Add(float64(failed))
}

// RecordFeedItems adds the per-item results of a seed run.
func (m *WorkerMetrics) RecordFeedItems(inserted, duplicated, failed int) {
	m.FeedItemsTotal.WithLabelValues("inserted").Add(float64(inserted))
	m.FeedItemsTotal.WithLabelValues("duplicated").Add(float64(duplicated))
	m.FeedItemsTotal.WithLabelValues("failed").Add(float64(failed))
}
