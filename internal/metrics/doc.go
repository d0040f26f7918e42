// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

/*
Package metrics provides Prometheus metrics collection and export.

All collectors are registered on the default registry through promauto and
exposed at /metrics by the API router:

	curl http://localhost:8000/metrics

# Available Metrics

HTTP:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Feed:
  - feed_assemblies_total{outcome}: ok, partial, invalid, not_found, unavailable
  - feed_assembly_duration_seconds
  - feed_items_served_total{source}: similarity, exploration
  - feed_seed_failures_total{reason}: timeout, canceled, unavailable, sampler

Embedding index:
  - embedding_index_entries{backend}
  - embedding_index_refresh_duration_seconds
  - embedding_index_refresh_errors_total
  - embedding_index_last_refresh_timestamp

Signals:
  - signal_writes_total{kind, backend, result}: result is ok, noop or error

Database:
  - duckdb_query_duration_seconds{operation, table}
  - duckdb_query_errors_total{operation, table, error_type}

Circuit breakers:
  - circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total{name, result}
  - circuit_breaker_consecutive_failures{name}
  - circuit_breaker_state_transitions_total{name, from, to}

Caches, NATS and the embedder carry the usual hit/miss, message and request
counters.

# Usage

	start := time.Now()
	err := db.QueryRowContext(ctx, query).Scan(&v)
	metrics.RecordDBQuery("select", "items", time.Since(start), err)

# Example PromQL

Share of feeds that came back short:

	sum(rate(feed_assemblies_total{outcome="partial"}[5m]))
	  / sum(rate(feed_assemblies_total[5m]))

Seed failures by reason:

	sum by (reason) (rate(feed_seed_failures_total[5m]))
*/
package metrics
