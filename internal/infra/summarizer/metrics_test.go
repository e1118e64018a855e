package summarizer

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewPrometheusSummaryMetrics_Singleton(t *testing.T) {
	m1 := NewPrometheusSummaryMetrics()
	m2 := NewPrometheusSummaryMetrics()
	assert.Same(t, m1, m2)
}

func TestPrometheusSummaryMetrics_Record(t *testing.T) {
	m := NewPrometheusSummaryMetrics()

	before := testutil.ToFloat64(m.backendCounter.WithLabelValues("fallback"))
	m.RecordBackend("fallback")
	assert.Equal(t, before+1, testutil.ToFloat64(m.backendCounter.WithLabelValues("fallback")))

	beforeFail := testutil.ToFloat64(m.failureCounter.WithLabelValues(ProviderClaude))
	m.RecordPrimaryFailure(ProviderClaude)
	assert.Equal(t, beforeFail+1, testutil.ToFloat64(m.failureCounter.WithLabelValues(ProviderClaude)))

	beforePlaceholder := testutil.ToFloat64(m.placeholderCounter)
	m.RecordPlaceholder()
	assert.Equal(t, beforePlaceholder+1, testutil.ToFloat64(m.placeholderCounter))

	assert.NotPanics(t, func() {
		m.RecordLength(120)
		m.RecordDuration(1500 * time.Millisecond)
	})
}
