// Package metrics provides Prometheus metrics for the cost API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "costmanagement"

// HTTP metrics
var (
	// HTTPRequestsTotal counts HTTP requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)

// Cost engine metrics
var (
	// AggregationsTotal counts cost aggregations by scope (module, project, rollup).
	AggregationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cost",
			Name:      "aggregations_total",
			Help:      "Total cost aggregations computed",
		},
		[]string{"scope"},
	)

	// AggregationDuration tracks how long an aggregation takes.
	AggregationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "cost",
			Name:      "aggregation_duration_seconds",
			Help:      "Cost aggregation latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"scope"},
	)

	// AssignmentsSkippedTotal counts batch members left out by operation and reason.
	AssignmentsSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cost",
			Name:      "assignments_skipped_total",
			Help:      "Employees skipped during batch assignment",
		},
		[]string{"operation", "reason"},
	)

	// ProjectCostIncrementsTotal counts running-total increments.
	ProjectCostIncrementsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cost",
			Name:      "project_cost_increments_total",
			Help:      "Total increments applied to project running totals",
		},
	)
)
