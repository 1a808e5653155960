// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoaderBatches counts bulk fetches dispatched by the batch loader, per edge.
	LoaderBatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialgraph_loader_batches_total",
		Help: "Total number of batched relationship fetches by edge",
	}, []string{"edge"})

	// LoaderBatchKeys records how many distinct keys each batch carried.
	LoaderBatchKeys = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialgraph_loader_batch_keys",
		Help:    "Distinct keys coalesced into one batched fetch",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 1000},
	}, []string{"edge"})

	// LoaderBatchErrors counts batches whose bulk fetch failed.
	LoaderBatchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialgraph_loader_batch_errors_total",
		Help: "Total number of failed batched fetches by edge",
	}, []string{"edge"})

	// GraphQLRequests counts executed GraphQL operations by type and outcome.
	GraphQLRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialgraph_graphql_requests_total",
		Help: "Total number of GraphQL operations by operation type and outcome",
	}, []string{"operation", "outcome"})

	// DatabaseQueryLatency records storage gateway latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialgraph_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "socialgraph_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// ObserveBatch records one dispatched loader batch.
func ObserveBatch(edge string, keys int, err error) {
	LoaderBatches.WithLabelValues(edge).Inc()
	LoaderBatchKeys.WithLabelValues(edge).Observe(float64(keys))
	if err != nil {
		LoaderBatchErrors.WithLabelValues(edge).Inc()
	}
}
