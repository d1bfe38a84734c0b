package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var ( //nolint:gochecknoglobals
	// SourceRequests counts balance-source calls by source name and outcome
	// ("ok", "empty", "error").
	SourceRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_source_requests_total",
			Help: "Balance source calls partitioned by source and outcome.",
		},
		[]string{"source", "outcome"},
	)

	// AggregationDuration observes wall-clock time of whole aggregation runs.
	AggregationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portfolio_aggregation_duration_seconds",
			Help:    "Duration of full portfolio aggregation runs.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	// PriceFetchDuration observes the batched quote request latency.
	PriceFetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portfolio_price_fetch_duration_seconds",
			Help:    "Duration of batched price quote requests.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// MustRegisterMetrics registers all collectors with the default registry.
// Call once at startup.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		SourceRequests,
		AggregationDuration,
		PriceFetchDuration,
	)
}
