package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ReadingLogged("glucose", true)
	m.ReadingLogged("glucose", false)
	m.FoodAnalyzed("rule_based", "diabetes")
	m.AIRequest("gemini", OutcomeRateLimited)
	m.AIFallback()
	m.DigestSent("sent")
	m.HTTPRequest("GET", "/api/v1/trends", "200", 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.readingsLogged.WithLabelValues("glucose")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.alertsRaised.WithLabelValues("glucose")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.foodAnalyses.WithLabelValues("rule_based", "diabetes")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.aiRequests.WithLabelValues("gemini", OutcomeRateLimited)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.aiFallbacks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.digestsSent.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/trends", "200")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ReadingLogged("glucose", true)
		m.FoodAnalyzed("gemini", "diabetes")
		m.AIRequest("gemini", OutcomeSuccess)
		m.AIFallback()
		m.DigestSent("failed")
		m.HTTPRequest("GET", "/", "500", 1)
	})
}
