// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("insert", "user_like_items", "constraint"))

	RecordDBQuery("select", "items", 10*time.Millisecond, nil)
	RecordDBQuery("insert", "user_like_items", time.Millisecond, errors.New("Constraint Error: duplicate key"))

	after := testutil.ToFloat64(DBQueryErrors.WithLabelValues("insert", "user_like_items", "constraint"))
	if after-before != 1 {
		t.Errorf("expected one constraint error, got %v", after-before)
	}
}

func TestClassifyDBError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  string
		want string
	}{
		{"Constraint Error: duplicate key \"u1, i1\"", "constraint"},
		{"context deadline exceeded", "context"},
		{"sql: no rows in result set", "not_found"},
		{"Conversion Error: could not convert", "scan"},
		{"IO Error: disk full", "other"},
	}
	for _, tt := range tests {
		if got := classifyDBError(errors.New(tt.err)); got != tt.want {
			t.Errorf("classifyDBError(%q) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestRecordFeedAssembly(t *testing.T) {
	okBefore := testutil.ToFloat64(FeedAssemblies.WithLabelValues("ok"))
	simBefore := testutil.ToFloat64(FeedItemsServed.WithLabelValues("similarity"))
	expBefore := testutil.ToFloat64(FeedItemsServed.WithLabelValues("exploration"))

	RecordFeedAssembly("ok", 5*time.Millisecond, 6, 4)

	if got := testutil.ToFloat64(FeedAssemblies.WithLabelValues("ok")) - okBefore; got != 1 {
		t.Errorf("ok assemblies delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(FeedItemsServed.WithLabelValues("similarity")) - simBefore; got != 6 {
		t.Errorf("similarity delta = %v, want 6", got)
	}
	if got := testutil.ToFloat64(FeedItemsServed.WithLabelValues("exploration")) - expBefore; got != 4 {
		t.Errorf("exploration delta = %v, want 4", got)
	}
}

func TestRecordSeedFailure(t *testing.T) {
	before := testutil.ToFloat64(FeedSeedFailures.WithLabelValues("timeout"))
	RecordSeedFailure("timeout")
	RecordSeedFailure("timeout")
	if got := testutil.ToFloat64(FeedSeedFailures.WithLabelValues("timeout")) - before; got != 2 {
		t.Errorf("timeout delta = %v, want 2", got)
	}
}

func TestRecordSignalWrite(t *testing.T) {
	tests := []struct {
		name    string
		changed bool
		err     error
		result  string
	}{
		{"new like", true, nil, "ok"},
		{"repeated like", false, nil, "noop"},
		{"store down", false, errors.New("redis: nil"), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := SignalWrites.WithLabelValues("like", "test", tt.result)
			before := testutil.ToFloat64(c)
			RecordSignalWrite("like", "test", tt.changed, tt.err)
			if got := testutil.ToFloat64(c) - before; got != 1 {
				t.Errorf("%s delta = %v, want 1", tt.result, got)
			}
		})
	}
}

func TestRecordIndexRefresh(t *testing.T) {
	errsBefore := testutil.ToFloat64(IndexRefreshErrors)

	RecordIndexRefresh("flat", 20*time.Millisecond, 1234, nil)
	if got := testutil.ToFloat64(IndexEntries.WithLabelValues("flat")); got != 1234 {
		t.Errorf("entries = %v, want 1234", got)
	}
	if testutil.ToFloat64(IndexLastRefresh) == 0 {
		t.Error("last refresh timestamp not set")
	}

	RecordIndexRefresh("flat", time.Millisecond, 0, errors.New("catalog read failed"))
	if got := testutil.ToFloat64(IndexRefreshErrors) - errsBefore; got != 1 {
		t.Errorf("refresh errors delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(IndexEntries.WithLabelValues("flat")); got != 1234 {
		t.Errorf("failed refresh must not reset entries, got %v", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests) - before; got != 1 {
		t.Errorf("active delta after inc = %v, want 1", got)
	}
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests) - before; got != 0 {
		t.Errorf("active delta after dec = %v, want 0", got)
	}
}

func TestConcurrentMetricRecording(t *testing.T) {
	c := CacheHits.WithLabelValues("concurrency-test")
	before := testutil.ToFloat64(c)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RecordCacheLookup("concurrency-test", true)
			RecordNATSPublish("signals.events")
			RecordAPIRequest("GET", "/api/v1/items/personalized-feed", "200", time.Millisecond)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(c) - before; got != 50 {
		t.Errorf("cache hits delta = %v, want 50", got)
	}
}

func TestRecordEmbeddingBatch(t *testing.T) {
	itemsBefore := testutil.ToFloat64(EmbeddedItems)
	errBefore := testutil.ToFloat64(EmbeddingRequests.WithLabelValues("error"))

	RecordEmbeddingBatch(32, nil)
	RecordEmbeddingBatch(32, errors.New("429 Too Many Requests"))

	if got := testutil.ToFloat64(EmbeddedItems) - itemsBefore; got != 32 {
		t.Errorf("embedded items delta = %v, want 32", got)
	}
	if got := testutil.ToFloat64(EmbeddingRequests.WithLabelValues("error")) - errBefore; got != 1 {
		t.Errorf("error delta = %v, want 1", got)
	}
}

func TestMetricsRegistration(t *testing.T) {
	t.Parallel()

	collectors := []prometheus.Collector{
		DBQueryDuration, DBQueryErrors,
		APIRequestsTotal, APIRequestDuration, APIActiveRequests, APIRateLimitHits,
		FeedAssemblies, FeedAssemblyDuration, FeedItemsServed, FeedSeedFailures,
		IndexEntries, IndexRefreshDuration, IndexRefreshErrors, IndexLastRefresh,
		SignalWrites,
		CacheHits, CacheMisses, CacheSize, CacheEvictions,
		CircuitBreakerState, CircuitBreakerRequests, CircuitBreakerConsecutiveFailures, CircuitBreakerTransitions,
		NATSMessagesPublished, NATSMessagesConsumed, NATSMessagesProcessed, NATSMessagesParseFailed, NATSProcessingDuration,
		EmbeddingRequests, EmbeddedItems,
	}
	for i, c := range collectors {
		if c == nil {
			t.Errorf("collector %d is nil", i)
		}
	}
}
