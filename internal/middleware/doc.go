// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

/*
Package middleware provides HTTP middleware shared by the API router.

  - RequestID: reuses or generates X-Request-ID and seeds the logging context
    with request and correlation ids.
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern.

Both are plain http.HandlerFunc decorators. The api package adapts them to
chi's func(http.Handler) http.Handler form.
*/
package middleware
