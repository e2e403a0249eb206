// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics declares the Prometheus collectors for the recommendation
// pipeline and its external collaborators.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecommendRequests counts pipeline outcomes by kind (ok, no_match,
	// store_error, oracle_error, internal_error).
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	StoreQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_query_duration_seconds",
			Help:    "Duration of catalog queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	OracleCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "oracle_call_duration_seconds",
			Help:    "Duration of ranking oracle calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		},
		[]string{"provider", "status"},
	)

	// CandidateSetSize observes the filtered set size before truncation.
	CandidateSetSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "candidate_set_size",
			Help:    "Records surviving the filter cascade per request",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 500, 1000, 5000},
		},
	)

	// DroppedOracleIDs counts identifiers returned by the oracle that were
	// not in the candidate set or were repeated.
	DroppedOracleIDs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "oracle_dropped_ids_total",
			Help: "Oracle identifiers discarded during result assembly",
		},
	)

	// BreakerState is 0 closed, 1 half-open, 2 open.
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "oracle_circuit_breaker_state",
			Help: "Ranking oracle circuit breaker state",
		},
		[]string{"name"},
	)
)
