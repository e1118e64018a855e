package slo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SLO targets for POST /process_url. Latency targets include the remote
// LLM call and its retry, so they are measured in seconds, not milliseconds.
const (
	// AvailabilitySLO is the target percentage of non-5xx responses.
	AvailabilitySLO = 99.5

	// LatencyP95SLO is the 95th percentile latency target in seconds.
	LatencyP95SLO = 20.0

	// LatencyP99SLO is the 99th percentile latency target in seconds.
	LatencyP99SLO = 60.0

	// ErrorRateSLO is the maximum acceptable 5xx ratio.
	ErrorRateSLO = 0.005
)

// SLO gauges are published by Tracker.Publish from the requests seen in the
// tracking window.
var (
	// SLOAvailability is the share of non-5xx responses (0-1).
	SLOAvailability = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_availability_ratio",
			Help: "Availability ratio (0-1) of /process_url over the tracking window, target: 0.995",
		},
	)

	SLOLatencyP95 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_latency_p95_seconds",
			Help: "p95 latency of /process_url in seconds over the tracking window, target: 20",
		},
	)

	SLOLatencyP99 = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_latency_p99_seconds",
			Help: "p99 latency of /process_url in seconds over the tracking window, target: 60",
		},
	)

	// SLOErrorRate is the share of 5xx responses (0-1).
	SLOErrorRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_error_rate_ratio",
			Help: "5xx ratio (0-1) of /process_url over the tracking window, target: 0.005",
		},
	)
)

// UpdateAvailability sets the availability gauge.
func UpdateAvailability(ratio float64) {
	SLOAvailability.Set(ratio)
}

// UpdateLatencyP95 sets the p95 latency gauge.
func UpdateLatencyP95(seconds float64) {
	SLOLatencyP95.Set(seconds)
}

// UpdateLatencyP99 sets the p99 latency gauge.
func UpdateLatencyP99(seconds float64) {
	SLOLatencyP99.Set(seconds)
}

// UpdateErrorRate sets the error rate gauge.
func UpdateErrorRate(ratio float64) {
	SLOErrorRate.Set(ratio)
}
