// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

//go:build integration

package signals

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/swipewear/internal/testinfra"
)

func TestRedisStoreContract(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := testinfra.StartRedis(ctx)
	if err != nil {
		t.Fatalf("StartRedis() error = %v", err)
	}
	defer testinfra.CleanupContainer(t, context.Background(), container)

	// Each subtest gets its own key prefix on the shared server.
	var n atomic.Int64
	runStoreContract(t, func(t *testing.T) Store {
		store, err := NewRedisStore(ctx, container.Addr, "", 0, fmt.Sprintf("test%d", n.Add(1)))
		if err != nil {
			t.Fatalf("NewRedisStore() error = %v", err)
		}
		t.Cleanup(func() { _ = store.Close() })
		return store
	})
}

func TestRedisStoreUnavailable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewRedisStore(ctx, "127.0.0.1:1", "", 0, "")
	if err == nil {
		t.Fatal("expected error for unreachable redis")
	}
}
