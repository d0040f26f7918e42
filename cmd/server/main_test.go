// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"

	"github.com/tomtom215/swipewear/internal/config"
	"github.com/tomtom215/swipewear/internal/database"
	"github.com/tomtom215/swipewear/internal/eventprocessor"
	"github.com/tomtom215/swipewear/internal/models"
	"github.com/tomtom215/swipewear/internal/signals"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(&config.DatabaseConfig{
		Path:                   ":memory:",
		MaxMemory:              "256MB",
		Threads:                1,
		PreserveInsertionOrder: true,
	})
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestInitSignalStore(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)
	ctx := context.Background()

	duck, err := initSignalStore(ctx, &config.SignalsConfig{Backend: "duckdb"}, db)
	if err != nil {
		t.Fatal(err)
	}
	if duck.backend != signals.BackendDuckDB || duck.check != nil {
		t.Errorf("duckdb store = %+v", duck)
	}

	badger, err := initSignalStore(ctx, &config.SignalsConfig{
		Backend:    "badger",
		BadgerPath: filepath.Join(t.TempDir(), "signals"),
	}, db)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := badger.store.Like(ctx, "u1", "i1", time.Now()); err != nil {
		t.Errorf("badger Like: %v", err)
	}
	if err := badger.close(); err != nil {
		t.Errorf("badger close: %v", err)
	}

	if _, err := initSignalStore(ctx, &config.SignalsConfig{Backend: "cassandra"}, db); err == nil {
		t.Error("unknown backend accepted")
	}
}

func TestInitIndex(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)

	flat, err := initIndex(&config.IndexConfig{Backend: "flat", Embedding: "coarse"}, db)
	if err != nil {
		t.Fatal(err)
	}
	if flat.flat == nil || flat.refresher == nil || flat.serving == nil || flat.check != nil {
		t.Errorf("flat components = %+v", flat)
	}

	// The gRPC client connects lazily, so no server is needed here.
	q, err := initIndex(&config.IndexConfig{Backend: "qdrant", QdrantHost: "127.0.0.1", QdrantPort: 6334, QdrantCollection: "items"}, db)
	if err != nil {
		t.Fatal(err)
	}
	if q.flat != nil || q.refresher != nil || q.check == nil || q.check.Name != "qdrant" {
		t.Errorf("qdrant components = %+v", q)
	}
	_ = q.close()

	if _, err := initIndex(&config.IndexConfig{Backend: "faiss"}, db); err == nil {
		t.Error("unknown backend accepted")
	}
}

func TestInitNATSDisabled(t *testing.T) {
	t.Parallel()

	c, err := InitNATS(context.Background(), &config.NATSConfig{Enabled: false}, watermill.NopLogger{})
	if c != nil || err != nil {
		t.Fatalf("InitNATS = %v, %v", c, err)
	}
	c.Shutdown(context.Background()) // nil receiver is a no-op
}

func TestCatalogRunner(t *testing.T) {
	t.Parallel()
	db := openTestDB(t)

	idx, err := initIndex(&config.IndexConfig{Backend: "flat", Embedding: "coarse"}, db)
	if err != nil {
		t.Fatal(err)
	}

	pubsub := gochannel.NewGoChannel(gochannel.Config{Persistent: true}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubsub.Close() })

	consumer := eventprocessor.NewCatalogConsumer(db, idx.flat, eventprocessor.CatalogConsumerConfig{
		Topic: "catalog.items",
	}, zerolog.Nop())
	changed := make(chan []string, 1)
	consumer.OnChange(func(ids ...string) { changed <- ids })

	publisher := eventprocessor.NewPublisherFrom(pubsub, nil)
	runner := &catalogRunner{
		topic:    "catalog.items",
		router:   eventprocessor.DefaultRouterConfig(),
		consumer: consumer,
		poison:   eventprocessor.NewPoisonPublisher(publisher),
		logger:   watermill.NopLogger{},
		newSubscriber: func() (message.Subscriber, error) {
			return pubsub, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	event := &models.CatalogEvent{
		EventID: "ev-1",
		Type:    models.CatalogItemUpserted,
		Item: &models.Item{
			ID:         "dress-1",
			Name:       "Silk Midi Dress",
			Categories: []string{"DRESSES"},
			Embedding:  []float32{0.1, 0.2},
		},
	}
	if err := publisher.PublishCatalogEvent(ctx, "catalog.items", event); err != nil {
		t.Fatal(err)
	}

	select {
	case ids := <-changed:
		if len(ids) != 1 || ids[0] != "dress-1" {
			t.Errorf("changed ids = %v", ids)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("catalog event was not applied")
	}
	if idx.flat.Len() != 1 {
		t.Errorf("flat index size = %d, want 1", idx.flat.Len())
	}
	if _, err := db.GetItem(context.Background(), "dress-1"); err != nil {
		t.Errorf("GetItem: %v", err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Run = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestCatalogRunnerSubscriberFailure(t *testing.T) {
	t.Parallel()

	runner := &catalogRunner{
		newSubscriber: func() (message.Subscriber, error) {
			return nil, errors.New("nats: no servers available for connection")
		},
	}
	if err := runner.Run(context.Background()); err == nil {
		t.Error("Run succeeded without a subscriber")
	}
}
