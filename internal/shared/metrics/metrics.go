// Package metrics exposes process-wide prometheus collectors (§B.9):
// request counters, a batch-grade duration histogram, an in-flight
// worker-pool gauge, and a quota-rejection counter. Registered once at
// startup and served on /metrics via promhttp.Handler().
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests per route and status class.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "duotopia_http_requests_total",
		Help: "Total HTTP requests by method, route, and status code.",
	}, []string{"method", "route", "status"})

	// BatchGradeDuration observes wall-clock duration of
	// batch_grade_assignment calls (§4.4).
	BatchGradeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "duotopia_batch_grade_duration_seconds",
		Help:    "Wall-clock duration of a batch_grade_assignment call.",
		Buckets: prometheus.DefBuckets,
	})

	// WorkerPoolInFlight gauges currently-dispatched items within the
	// bounded worker pool (§5).
	WorkerPoolInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "duotopia_worker_pool_in_flight",
		Help: "Number of items currently dispatched to the batch-grading worker pool.",
	})

	// QuotaRejectionsTotal counts daily_limit_exceeded rejections (§4.3.a, S6).
	QuotaRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "duotopia_quota_rejections_total",
		Help: "Total credential-issuance requests rejected for exceeding the daily quota.",
	})

	// ProviderCallsTotal counts calls to the external assessment
	// provider by outcome (success, timeout, provider_error,
	// breaker_open).
	ProviderCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "duotopia_provider_calls_total",
		Help: "Total calls to the external pronunciation-assessment provider by outcome.",
	}, []string{"outcome"})
)
