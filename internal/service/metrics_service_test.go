package service

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsServiceCountsDomainEvents(t *testing.T) {
	m := NewMetricsService()

	m.RecordTopicToggle(true)
	m.RecordTopicToggle(true)
	m.RecordTopicToggle(false)
	m.RecordReportExport("pdf")
	m.RecordReportEmail(false)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.topicToggles.WithLabelValues("complete")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.topicToggles.WithLabelValues("incomplete")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.reportExports.WithLabelValues("pdf")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.reportEmails.WithLabelValues("failed")))
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	assert.NotPanics(t, func() {
		m.RecordTopicToggle(true)
		m.RecordCacheOperation(true, 0)
		m.ObserveCacheWrite(0)
		m.ObserveHTTPRequest("GET", "/", 200, 0)
	})
}

func TestMetricsServiceCacheHitRatio(t *testing.T) {
	m := NewMetricsService()
	m.RecordCacheOperation(true, 0)
	m.RecordCacheOperation(false, 0)

	assert.Equal(t, 0.5, testutil.ToFloat64(m.cacheHitRatio))
}
