package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendRequestsTotal tracks REST calls to the lottery backend per resource
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balldash_backend_requests_total",
			Help: "Total number of backend REST requests",
		},
		[]string{"resource", "status"},
	)

	// BackendLatency tracks backend request latency
	BackendLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "balldash_backend_latency_seconds",
			Help:    "Backend request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	// ChainRPCCallsTotal tracks JSON-RPC calls to the chain endpoint
	ChainRPCCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balldash_chain_rpc_calls_total",
			Help: "Total number of chain RPC calls",
		},
		[]string{"method", "status"},
	)

	// AggregationBranchFailures tracks failed branches of the dashboard aggregation
	AggregationBranchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balldash_aggregation_branch_failures_total",
			Help: "Total number of failed aggregation branches",
		},
		[]string{"branch"},
	)

	// SnapshotRefreshes tracks completed dashboard snapshot refreshes
	SnapshotRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balldash_snapshot_refreshes_total",
			Help: "Total number of dashboard snapshot refreshes",
		},
		[]string{"outcome"}, // full, partial, failed
	)

	// CountdownExpiries tracks countdown expirations per draw type
	CountdownExpiries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balldash_countdown_expiries_total",
			Help: "Total number of countdown expirations",
		},
		[]string{"draw_type"},
	)

	// TokenRefreshes tracks silent token refresh attempts
	TokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "balldash_token_refreshes_total",
			Help: "Total number of silent token refresh attempts",
		},
		[]string{"outcome"},
	)
)
