// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

// Package testinfra starts real backing services in containers for
// integration tests.
//
// Redis backs the signals.RedisStore tests and Qdrant backs the
// index.Qdrant tests:
//
//	func TestRedisStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    redis, err := testinfra.StartRedis(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, redis)
//
//	    store, err := signals.NewRedisStore(ctx, redis.Addr, "", 0, "test")
//	    // ...
//	}
//
// All files carry the integration build tag; run them with
// go test -tags integration ./...
//
// # CI Considerations
//
// These tests require Docker and network access. They are skipped when
// Docker is unavailable. The first run downloads the images.
package testinfra
