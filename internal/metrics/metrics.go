// Package metrics exposes prometheus counters for logging, food analysis,
// AI calls and the HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "care_planner"

// AI call outcomes
const (
	OutcomeSuccess     = "success"
	OutcomeRateLimited = "rate_limited"
	OutcomeError       = "error"
	OutcomeCircuitOpen = "circuit_open"
)

// Metrics holds every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	readingsLogged *prometheus.CounterVec
	alertsRaised   *prometheus.CounterVec
	foodAnalyses   *prometheus.CounterVec
	aiRequests     *prometheus.CounterVec
	aiFallbacks    prometheus.Counter
	digestsSent    *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry, together with the Go
// runtime and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		readingsLogged: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_logged_total",
			Help:      "Readings stored, by metric type.",
		}, []string{"metric_type"}),
		alertsRaised: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_raised_total",
			Help:      "Threshold alerts attached to logged readings, by metric type.",
		}, []string{"metric_type"}),
		foodAnalyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "food_analyses_total",
			Help:      "Food analyses served, by source and condition.",
		}, []string{"source", "condition"}),
		aiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_requests_total",
			Help:      "Generative AI attempts, by provider and outcome.",
		}, []string{"provider", "outcome"}),
		aiFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_fallbacks_total",
			Help:      "Food analyses answered by the rule-based estimator after an AI failure.",
		}),
		digestsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weekly_digests_total",
			Help:      "Weekly digest deliveries, by outcome.",
		}, []string{"outcome"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.readingsLogged,
		m.alertsRaised,
		m.foodAnalyses,
		m.aiRequests,
		m.aiFallbacks,
		m.digestsSent,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) ReadingLogged(metricType string, alerted bool) {
	if m == nil {
		return
	}
	m.readingsLogged.WithLabelValues(metricType).Inc()
	if alerted {
		m.alertsRaised.WithLabelValues(metricType).Inc()
	}
}

func (m *Metrics) FoodAnalyzed(source, condition string) {
	if m == nil {
		return
	}
	m.foodAnalyses.WithLabelValues(source, condition).Inc()
}

func (m *Metrics) AIRequest(provider, outcome string) {
	if m == nil {
		return
	}
	m.aiRequests.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) AIFallback() {
	if m == nil {
		return
	}
	m.aiFallbacks.Inc()
}

func (m *Metrics) DigestSent(outcome string) {
	if m == nil {
		return
	}
	m.digestsSent.WithLabelValues(outcome).Inc()
}

func (m *Metrics) HTTPRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(seconds)
}
