package gorevalidate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EvaluationOutcomes counts conditional-request decisions by outcome
	// (pass, not-modified, precondition-failed).
	EvaluationOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "revalidate_evaluations_total",
			Help: "Total conditional request evaluations by outcome",
		},
		[]string{"outcome"},
	)

	// StoreErrors counts failed validator store operations by operation
	// (get, set, delete). A failed operation degrades to a cache miss, so
	// this is the only place such failures stay visible.
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "revalidate_store_errors_total",
			Help: "Total validator store operation errors",
		},
		[]string{"operation"},
	)

	// InvalidationsConsumed counts invalidation marks consumed by reads.
	InvalidationsConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "revalidate_invalidations_consumed_total",
			Help: "Total invalidation marks consumed by validator reads",
		},
	)
)
