package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendRequestDuration tracks backend call latency per endpoint
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "perception_backend_request_duration_seconds",
			Help:    "Duration of backend API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// BackendRequests counts backend calls by endpoint and outcome ("success", "failure", "rejected")
	BackendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perception_backend_requests_total",
			Help: "Total number of backend API requests",
		},
		[]string{"endpoint", "outcome"},
	)

	CircuitBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "perception_backend_circuit_breaker_state",
			Help: "Backend circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// FetchCycles counts orchestrator cycles by final state ("ready", "error", "stale")
	FetchCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perception_fetch_cycles_total",
			Help: "Total number of dashboard fetch cycles by result",
		},
		[]string{"result"},
	)

	FetchCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "perception_fetch_cycle_duration_seconds",
			Help:    "Duration of complete dashboard fetch cycles in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SnapshotGeneration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "perception_snapshot_generation",
			Help: "Generation of the currently published snapshot",
		},
	)

	DigestsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "perception_digests_total",
			Help: "Total number of scheduled digests by outcome",
		},
		[]string{"outcome"},
	)
)
