// Ladle - AI-Assisted Recipe Suggestion Server
// Copyright 2026 Ladle contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ladle-app/ladle

// Package metrics defines Ladle's Prometheus collectors. All collectors
// are registered on the default registry and exposed via /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchesTotal counts search submissions by outcome:
	// ok, empty, validation_error, ai_error.
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ladle_searches_total",
			Help: "Recipe search submissions by outcome",
		},
		[]string{"outcome"},
	)

	// AIRequestDuration tracks Gemini call latency.
	AIRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ladle_ai_request_duration_seconds",
			Help:    "Duration of AI suggestion calls",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 45},
		},
	)

	// CircuitBreakerState tracks breaker state (0=closed, 1=half-open, 2=open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ladle_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// CircuitBreakerRequests counts breaker-wrapped requests by result:
	// success, failure, rejected.
	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ladle_circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker by result",
		},
		[]string{"name", "result"},
	)

	// CircuitBreakerTransitions counts breaker state transitions.
	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ladle_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// TierOps counts tiered-store operations by tier, op and outcome.
	TierOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ladle_tier_operations_total",
			Help: "Tiered store operations by tier, operation, and outcome",
		},
		[]string{"tier", "op", "outcome"},
	)

	// ImagesOmitted counts embedded images dropped by the size guard.
	ImagesOmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ladle_images_omitted_total",
			Help: "Embedded recipe images dropped to fit a tier budget",
		},
	)

	// HandoffsTotal counts navigation handoffs by result:
	// inline, stored, degraded, failed.
	HandoffsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ladle_handoffs_total",
			Help: "Navigation handoff preparations by result",
		},
		[]string{"result"},
	)

	// SavedOps counts saved-recipes registry operations by op and outcome.
	SavedOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ladle_saved_operations_total",
			Help: "Saved-recipes registry operations",
		},
		[]string{"op", "outcome"},
	)

	// APIRequestsTotal counts HTTP requests.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ladle_api_requests_total",
			Help: "HTTP requests by method, path, and status",
		},
		[]string{"method", "path", "status"},
	)

	// APIRequestDuration tracks HTTP request latency.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ladle_api_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// APIActiveRequests tracks in-flight HTTP requests.
	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ladle_api_active_requests",
			Help: "In-flight HTTP requests",
		},
	)
)

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, path, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordTierOp records one tiered-store operation.
func RecordTierOp(tier, op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	TierOps.WithLabelValues(tier, op, outcome).Inc()
}
