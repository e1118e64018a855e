package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// authRequestsTotal counts token checks by result.
	authRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Total authentication checks by result",
		},
		[]string{"result"}, // result: success | missing | invalid | expired
	)

	// authDuration tracks token validation duration.
	authDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "auth_duration_seconds",
			Help:    "Token validation duration",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
	)
)

func recordAuth(result string, d time.Duration) {
	authRequestsTotal.WithLabelValues(result).Inc()
	authDuration.Observe(d.Seconds())
}
