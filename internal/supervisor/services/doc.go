// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

/*
Package services provides suture.Service wrappers for the feed service's
long-running components.

Each wrapper translates a component lifecycle into suture's
Serve(ctx) error and implements fmt.Stringer for supervisor logs:

  - HTTPServerService: ListenAndServe with graceful Shutdown
  - IndexRefreshService: periodic rebuild of the flat vector index
  - EventConsumerService: the NATS catalog consumer, restarted on failure
  - NATSServerService: watches and stops the embedded NATS server

Returning ctx.Err() after cancellation is the normal shutdown path. Any
other error makes the supervisor restart the service with backoff, except
for errors wrapping suture.ErrDoNotRestart.
*/
package services
