// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

/*
Package eventprocessor moves catalog and signal events over NATS JetStream
using Watermill.

Two flows run through a single stream (SWIPEWEAR_EVENTS):

  - Catalog changes arrive on the catalog topic (default "catalog.items").
    CatalogConsumer applies item upserts and deletes to DuckDB and keeps the
    in-process vector index in step. Consumers of the feed see a change on
    their next request; the API summary cache is invalidated through the
    OnChange hook.
  - Signal events leave on the signals topic (default "signals.events").
    SignalPublisher is installed on the signal service and publishes one
    event per like, unlike, closet hide or dislike that changed state.

Delivery is at least once. Publishers set Nats-Msg-Id to the event id so
the stream drops duplicate publishes within its duplicate window, and the
consumer remembers applied event ids in an LRU cache.

Components:

  - EmbeddedServer: in-process NATS server with JetStream
  - StreamInitializer: idempotent stream creation
  - Publisher: Watermill publisher with a gobreaker circuit breaker
  - NewSubscriber: durable queue-group subscriber bound to the stream
  - Router: Watermill router with poison queue, recoverer and retry
  - CatalogConsumer, SignalPublisher: the domain adapters

Malformed payloads are counted and acknowledged. Store failures are
returned to the router, retried with backoff and finally routed to the
poison topic.
*/
package eventprocessor
