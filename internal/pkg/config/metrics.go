package config

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConfigMetrics exports the health of a component's configuration:
//
//	{component}_config_load_timestamp
//	{component}_config_validation_errors_total{field}
//	{component}_config_fallbacks_total{field}
//	{component}_config_fallback_active
//
// A non-zero fallback_active gauge means the component is running on at
// least one default because its environment was invalid.
type ConfigMetrics struct {
	LoadTimestamp         prometheus.Gauge
	ValidationErrorsTotal *prometheus.CounterVec
	FallbacksTotal        *prometheus.CounterVec
	FallbackActive        prometheus.Gauge
}

// NewConfigMetrics registers the metrics for component on the default
// registry. Call it once per component per process.
func NewConfigMetrics(component string) *ConfigMetrics {
	return NewConfigMetricsWith(prometheus.DefaultRegisterer, component)
}

// NewConfigMetricsWith registers the metrics on reg.
func NewConfigMetricsWith(reg prometheus.Registerer, component string) *ConfigMetrics {
	factory := promauto.With(reg)
	prefix := component + "_config_"

	return &ConfigMetrics{
		LoadTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "load_timestamp",
			Help: "Unix timestamp of the last " + component + " configuration load",
		}),
		ValidationErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "validation_errors_total",
			Help: "Invalid " + component + " configuration values by field",
		}, []string{"field"}),
		FallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "fallbacks_total",
			Help: "Defaults applied to " + component + " configuration by field",
		}, []string{"field"}),
		FallbackActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: prefix + "fallback_active",
			Help: "1 if any " + component + " configuration value fell back to its default",
		}),
	}
}

// RecordLoadTimestamp marks a completed load.
func (m *ConfigMetrics) RecordLoadTimestamp() {
	m.LoadTimestamp.SetToCurrentTime()
}

// RecordFallback counts an invalid value for field that was replaced by its default.
func (m *ConfigMetrics) RecordFallback(field string) {
	m.ValidationErrorsTotal.WithLabelValues(field).Inc()
	m.FallbacksTotal.WithLabelValues(field).Inc()
}

func (m *ConfigMetrics) SetFallbackActive(active bool) {
	if active {
		m.FallbackActive.Set(1)
		return
	}
	m.FallbackActive.Set(0)
}
