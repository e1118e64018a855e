package worker

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewWorkerMetrics(t *testing.T) {
	metrics := globalTestMetrics

	if metrics.ConfigMetrics == nil {
		t.Error("ConfigMetrics is nil")
	}
	if metrics.JobRunsTotal == nil {
		t.Error("JobRunsTotal is nil")
	}
	if metrics.JobDurationSeconds == nil {
		t.Error("JobDurationSeconds is nil")
	}
	if metrics.RowsTotal == nil {
		t.Error("RowsTotal is nil")
	}
	if metrics.FeedItemsTotal == nil {
		t.Error("FeedItemsTotal is nil")
	}
	if metrics.LastSuccessTimestamp == nil {
		t.Error("LastSuccessTimestamp is nil")
	}
}

// isolatedMetrics builds WorkerMetrics on a private registry.
func isolatedMetrics(t *testing.T) *WorkerMetrics {
	t.Helper()
	return NewWorkerMetricsWith(prometheus.NewRegistry())
}

func TestWorkerMetrics_RecordJob(t *testing.T) {
	metrics := isolatedMetrics(t)

	metrics.RecordJob(2*time.Second, nil)
	metrics.RecordJob(time.Second, nil)
	metrics.RecordJob(time.Second, errors.New("list failed"))

	if got := testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues("success")); got != 2 {
		t.Errorf("success runs = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.JobRunsTotal.WithLabelValues("failure")); got != 1 {
		t.Errorf("failure runs = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(metrics.JobDurationSeconds); got != 1 {
		t.Errorf("histogram series = %d, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.LastSuccessTimestamp); got <= 0 {
		t.Errorf("last success timestamp = %v, want > 0", got)
	}
}

func TestWorkerMetrics_FailureKeepsLastSuccess(t *testing.T) {
	metrics := isolatedMetrics(t)

	metrics.RecordJob(time.Second, errors.New("boom"))

	if got := testutil.ToFloat64(metrics.LastSuccessTimestamp); got != 0 {
		t.Errorf("last success timestamp = %v, want 0 after a failure", got)
	}
}

func TestWorkerMetrics_RecordRows(t *testing.T) {
	metrics := isolatedMetrics(t)

	metrics.RecordRows(5, 2, 1)
	metrics.RecordRows(1, 0, 0)

	tests := []struct {
		result string
		want   float64
	}{
		{"updated", 6},
		{"skipped", 2},
		{"failed", 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(metrics.RowsTotal.WithLabelValues(tt.result)); got != tt.want {
			t.Errorf("rows{%s} = %v, want %v", tt.result, got, tt.want)
		}
	}
}

func TestWorkerMetrics_RecordFeedItems(t *testing.T) {
	metrics := isolatedMetrics(t)

	metrics.RecordFeedItems(3, 4, 1)

	if got := testutil.ToFloat64(metrics.FeedItemsTotal.WithLabelValues("inserted")); got != 3 {
		t.Errorf("inserted = %v, want 3", got)
	}
	if got := testutil.ToFloat64(metrics.FeedItemsTotal.WithLabelValues("duplicated")); got != 4 {
		t.Errorf("duplicated = %v, want 4", got)
	}
	if got := testutil.ToFloat64(metrics.FeedItemsTotal.WithLabelValues("failed")); got != 1 {
		t.Errorf("failed = %v, want 1", got)
	}
}
