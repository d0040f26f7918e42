// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

// Package index implements feed.EmbeddingIndex.
//
// Flat is an in-process brute-force index with a bounded heap, rebuilt from
// the catalog by the index refresh service and patched live by the catalog
// event consumer. Qdrant delegates the search to a Qdrant collection over
// gRPC. Breaker wraps either one with a circuit breaker so an unhealthy
// backend fails fast instead of eating every seed's timeout.
//
// All backends use Euclidean distance and break distance ties by catalog
// insertion sequence.
package index
