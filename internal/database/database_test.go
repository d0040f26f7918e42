// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/swipewear/internal/config"
	"github.com/tomtom215/swipewear/internal/models"
)

// testDBSemaphore serializes DuckDB tests. Concurrent CGO-heavy DuckDB
// instances under the race detector are slow enough to time out CI.
var testDBSemaphore = make(chan struct{}, 1)

// setupTestDB opens a fresh in-memory database for the duration of the test.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	db, err := New(&config.DatabaseConfig{
		Path:                   ":memory:",
		MaxMemory:              "512MB",
		Threads:                2,
		PreserveInsertionOrder: true,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})
	return db
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// seedItems upserts items in order so their Seq follows the slice.
func seedItems(t *testing.T, db *DB, items ...models.Item) {
	t.Helper()
	ctx := testContext(t)
	for i := range items {
		if err := db.UpsertItem(ctx, &items[i]); err != nil {
			t.Fatalf("UpsertItem(%s): %v", items[i].ID, err)
		}
	}
}

func seedUser(t *testing.T, db *DB, id string) {
	t.Helper()
	if _, err := db.CreateUser(testContext(t), &models.User{ID: id, Username: id}); err != nil {
		t.Fatalf("CreateUser(%s): %v", id, err)
	}
}

func TestNewCreatesSchema(t *testing.T) {
	db := setupTestDB(t)
	ctx := testContext(t)

	for _, table := range []string{
		"items", "categories", "item_category", "outfits", "item_outfit",
		"users", "user_like_items", "user_dislike_items",
	} {
		var n int
		err := db.Conn().QueryRowContext(ctx,
			`SELECT COUNT(*) FROM information_schema.tables WHERE table_name = ?`, table).Scan(&n)
		if err != nil {
			t.Fatalf("query information_schema: %v", err)
		}
		if n != 1 {
			t.Errorf("table %s missing", table)
		}
	}

	if err := db.Ping(ctx); err != nil {
		t.Errorf("Ping() = %v", err)
	}
}

func TestNewFileBacked(t *testing.T) {
	testDBSemaphore <- struct{}{}
	defer func() { <-testDBSemaphore }()

	path := filepath.Join(t.TempDir(), "nested", "swipewear.duckdb")
	cfg := &config.DatabaseConfig{Path: path, MaxMemory: "256MB", Threads: 1}

	db, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := db.UpsertItem(context.Background(), &models.Item{ID: "1", Name: "Linen Shirt"}); err != nil {
		t.Fatalf("UpsertItem() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database file not created: %v", err)
	}

	// Schema creation is idempotent and data survives a reopen.
	db, err = New(cfg)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer db.Close()
	n, err := db.CountItems(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("CountItems() = %d after reopen, want 1", n)
	}
}

func TestEnsureContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := ensureContext(context.Background())
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Error("expected default deadline")
	}

	parent, parentCancel := context.WithTimeout(context.Background(), time.Second)
	defer parentCancel()
	got, cancel2 := ensureContext(parent)
	defer cancel2()
	if got != parent {
		t.Error("context with deadline should be returned unchanged")
	}
}
