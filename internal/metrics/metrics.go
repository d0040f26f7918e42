// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// Feed Metrics
	FeedAssemblies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_assemblies_total",
			Help: "Total number of personalized feed assemblies by outcome",
		},
		[]string{"outcome"}, // "ok", "partial", "invalid", "not_found", "unavailable"
	)

	FeedAssemblyDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_assembly_duration_seconds",
			Help:    "Duration of personalized feed assembly in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	FeedItemsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_items_served_total",
			Help: "Total number of feed items served by source strategy",
		},
		[]string{"source"}, // "similarity", "exploration"
	)

	FeedSeedFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_seed_failures_total",
			Help: "Total number of degraded seed lookups",
		},
		[]string{"reason"}, // "timeout", "canceled", "unavailable", "sampler"
	)

	// Embedding Index Metrics
	IndexEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "embedding_index_entries",
			Help: "Number of items held by the embedding index",
		},
		[]string{"backend"},
	)

	IndexRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "embedding_index_refresh_duration_seconds",
			Help:    "Duration of embedding index rebuilds in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	IndexRefreshErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embedding_index_refresh_errors_total",
			Help: "Total number of failed embedding index rebuilds",
		},
	)

	IndexLastRefresh = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "embedding_index_last_refresh_timestamp",
			Help: "Unix timestamp of the last successful index rebuild",
		},
	)

	// Signal Store Metrics
	SignalWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_writes_total",
			Help: "Total number of like, unlike, dislike and closet writes",
		},
		[]string{"kind", "backend", "result"}, // result: "ok", "noop", "error"
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions",
		},
		[]string{"cache"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through the circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// NATS Metrics
	NATSMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_messages_published_total",
			Help: "Total number of messages published to NATS",
		},
		[]string{"topic"},
	)

	NATSMessagesConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_messages_consumed_total",
			Help: "Total number of messages consumed from NATS",
		},
		[]string{"topic"},
	)

	NATSMessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_messages_processed_total",
			Help: "Total number of messages successfully processed",
		},
		[]string{"topic"},
	)

	NATSMessagesParseFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_messages_parse_failed_total",
			Help: "Total number of messages that failed to parse",
		},
		[]string{"topic"},
	)

	NATSProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nats_message_processing_duration_seconds",
			Help:    "Duration of message processing in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	// Embedder Metrics
	EmbeddingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_requests_total",
			Help: "Total number of embedding API calls",
		},
		[]string{"result"},
	)

	EmbeddedItems = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "embedded_items_total",
			Help: "Total number of items that received an embedding",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table, classifyDBError(err)).Inc()
	}
}

// classifyDBError keeps the error_type label bounded.
func classifyDBError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "constraint"):
		return "constraint"
	case strings.Contains(msg, "context deadline exceeded"), strings.Contains(msg, "context canceled"):
		return "context"
	case strings.Contains(msg, "no rows"), strings.Contains(msg, "not found"):
		return "not_found"
	case strings.Contains(msg, "conversion"), strings.Contains(msg, "scan"):
		return "scan"
	default:
		return "other"
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordFeedAssembly records one feed assembly and the items it served.
func RecordFeedAssembly(outcome string, duration time.Duration, similarity, exploration int) {
	FeedAssemblies.WithLabelValues(outcome).Inc()
	FeedAssemblyDuration.Observe(duration.Seconds())
	if similarity > 0 {
		FeedItemsServed.WithLabelValues("similarity").Add(float64(similarity))
	}
	if exploration > 0 {
		FeedItemsServed.WithLabelValues("exploration").Add(float64(exploration))
	}
}

// RecordSeedFailure records a degraded seed lookup.
func RecordSeedFailure(reason string) {
	FeedSeedFailures.WithLabelValues(reason).Inc()
}

// RecordIndexRefresh records an index rebuild.
func RecordIndexRefresh(backend string, duration time.Duration, entries int, err error) {
	IndexRefreshDuration.Observe(duration.Seconds())
	if err != nil {
		IndexRefreshErrors.Inc()
		return
	}
	IndexEntries.WithLabelValues(backend).Set(float64(entries))
	IndexLastRefresh.Set(float64(time.Now().Unix()))
}

// RecordSignalWrite records a signal mutation. A write that changed nothing
// (a repeated like) is recorded as "noop".
func RecordSignalWrite(kind, backend string, changed bool, err error) {
	result := "ok"
	switch {
	case err != nil:
		result = "error"
	case !changed:
		result = "noop"
	}
	SignalWrites.WithLabelValues(kind, backend, result).Inc()
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(cache string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cache).Inc()
	} else {
		CacheMisses.WithLabelValues(cache).Inc()
	}
}

// RecordNATSPublish records a message published to topic
func RecordNATSPublish(topic string) {
	NATSMessagesPublished.WithLabelValues(topic).Inc()
}

// RecordNATSConsume records a message consumed from topic
func RecordNATSConsume(topic string) {
	NATSMessagesConsumed.WithLabelValues(topic).Inc()
}

// RecordNATSProcessed records a message processed successfully
func RecordNATSProcessed(topic string, duration time.Duration) {
	NATSMessagesProcessed.WithLabelValues(topic).Inc()
	NATSProcessingDuration.Observe(duration.Seconds())
}

// RecordNATSParseFailed records a message that failed to parse
func RecordNATSParseFailed(topic string) {
	NATSMessagesParseFailed.WithLabelValues(topic).Inc()
}

// RecordEmbeddingBatch records one call to the embeddings API.
func RecordEmbeddingBatch(items int, err error) {
	if err != nil {
		EmbeddingRequests.WithLabelValues("error").Inc()
		return
	}
	EmbeddingRequests.WithLabelValues("success").Inc()
	EmbeddedItems.Add(float64(items))
}
