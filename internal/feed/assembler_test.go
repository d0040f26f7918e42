// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package feed_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/swipewear/internal/feed"
	"github.com/tomtom215/swipewear/internal/models"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// clusteredCatalog returns ten liked-candidate items L0..L9 at x=10i, each
// with two close neighbours N{i}a and N{i}b, plus twenty unembedded filler
// items. Even clusters are DRESSES, odd clusters TOPS.
func clusteredCatalog() []*models.Item {
	var items []*models.Item
	seq := int64(0)
	add := func(id string, x float32, embedded bool, cats ...string) {
		seq++
		it := &models.Item{ID: id, Seq: seq, Categories: cats}
		if embedded {
			it.Embedding = []float32{x, 0}
		}
		items = append(items, it)
	}

	for i := 0; i < 10; i++ {
		cat := "DRESSES"
		if i%2 == 1 {
			cat = "TOPS"
		}
		x := float32(10 * i)
		add(fmt.Sprintf("L%d", i), x, true, cat)
		add(fmt.Sprintf("N%da", i), x+1, true, cat)
		add(fmt.Sprintf("N%db", i), x+2, true, cat)
	}
	for i := 0; i < 20; i++ {
		cat := "DRESSES"
		if i%2 == 1 {
			cat = "SHOES"
		}
		add(fmt.Sprintf("F%02d", i), 0, false, cat)
	}
	return items
}

func newTestAssembler(t *testing.T, store *fakeStore, idx feed.EmbeddingIndex, mutate func(*feed.Config)) *feed.Assembler {
	t.Helper()

	cfg := feed.DefaultConfig()
	cfg.RNGSeed = 42
	if mutate != nil {
		mutate(cfg)
	}

	asm, err := feed.NewAssembler(cfg, feed.Deps{
		Users:       store,
		Preferences: store,
		Dislikes:    store,
		Index:       idx,
		Catalog:     store,
		Now:         func() time.Time { return testNow },
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	return asm
}

func assertFeedInvariants(t *testing.T, store *fakeStore, userID string, filter feed.CategorySet, res *feed.Result) {
	t.Helper()

	seen := feed.NewItemSet()
	preferred, _ := store.PreferredSet(context.Background(), userID)
	disliked, _ := store.DislikedSet(context.Background(), userID)

	for _, id := range res.Items {
		if !seen.Add(id) {
			t.Errorf("duplicate item %s in %v", id, res.Items)
		}
		if disliked.Has(id) {
			t.Errorf("disliked item %s returned", id)
		}
		if preferred.Has(id) {
			t.Errorf("preferred item %s returned", id)
		}
		if !filter.Matches(store.categoriesOf(id)) {
			t.Errorf("item %s (%v) outside filter %v", id, store.categoriesOf(id), filter.Slice())
		}
	}
	if res.SimilarityCount+res.ExplorationCount != len(res.Items) {
		t.Errorf("counts %d+%d do not add up to %d", res.SimilarityCount, res.ExplorationCount, len(res.Items))
	}
}

func TestAssemble_NoPreferencesIsAllExploration(t *testing.T) {
	t.Parallel()

	items := clusteredCatalog()
	store := newFakeStore(items)
	store.dislike("u1", "N0a")
	store.dislike("u1", "F03")
	asm := newTestAssembler(t, store, flatFrom(items), nil)

	res, err := asm.Assemble(context.Background(), feed.Request{UserID: "u1", Limit: 10, Weighted: true})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if len(res.Items) != 10 {
		t.Errorf("got %d items, want 10", len(res.Items))
	}
	if res.SeedCount != 0 || res.SimilarityCount != 0 {
		t.Errorf("seeds=%d similarity=%d, want 0/0", res.SeedCount, res.SimilarityCount)
	}
	if res.ExplorationCount != 10 {
		t.Errorf("exploration = %d, want 10", res.ExplorationCount)
	}
	assertFeedInvariants(t, store, "u1", nil, res)
}

func TestAssemble_TenRecentPreferences(t *testing.T) {
	t.Parallel()

	items := clusteredCatalog()
	store := newFakeStore(items)
	for i := 0; i < 10; i++ {
		store.like("u1", fmt.Sprintf("L%d", i), testNow.Add(-time.Duration(i+1)*time.Minute))
	}
	asm := newTestAssembler(t, store, flatFrom(items), nil)

	res, err := asm.Assemble(context.Background(), feed.Request{UserID: "u1", Limit: 10, Weighted: true})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if len(res.Items) != 10 {
		t.Fatalf("got %d items, want 10", len(res.Items))
	}
	if res.SeedCount != 3 {
		t.Errorf("seeds = %d, want 3", res.SeedCount)
	}
	if res.SimilarityCount < 3 {
		t.Errorf("similarity = %d, want at least 3", res.SimilarityCount)
	}
	if res.Partial {
		t.Error("full feed should not be partial")
	}

	// Similarity items come first and are the clustered neighbours.
	for _, id := range res.Items[:res.SimilarityCount] {
		if !strings.HasPrefix(id, "N") {
			t.Errorf("similarity block contains %s", id)
		}
	}
	assertFeedInvariants(t, store, "u1", nil, res)
}

func TestAssemble_CategoryFilterWithoutPreferences(t *testing.T) {
	t.Parallel()

	items := clusteredCatalog()
	store := newFakeStore(items)
	asm := newTestAssembler(t, store, flatFrom(items), nil)

	filter := feed.NewCategorySet("DRESSES")
	res, err := asm.Assemble(context.Background(), feed.Request{UserID: "u1", Categories: filter, Limit: 5})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(res.Items) != 5 {
		t.Fatalf("got %d items, want 5", len(res.Items))
	}
	assertFeedInvariants(t, store, "u1", filter, res)
}

func TestAssemble_SeedWithoutEmbeddingFallsBackToExploration(t *testing.T) {
	t.Parallel()

	items := clusteredCatalog()
	store := newFakeStore(items)
	store.like("u1", "F00", testNow.Add(-time.Hour)) // filler items have no embedding
	asm := newTestAssembler(t, store, flatFrom(items), nil)

	res, err := asm.Assemble(context.Background(), feed.Request{UserID: "u1", Limit: 10, Weighted: true})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if res.SeedCount != 1 {
		t.Errorf("seeds = %d, want 1", res.SeedCount)
	}
	if res.SimilarityCount != 0 {
		t.Errorf("similarity = %d, want 0", res.SimilarityCount)
	}
	if res.DegradedSeeds != 0 {
		t.Errorf("a missing embedding is not a failure, degraded = %d", res.DegradedSeeds)
	}
	if len(res.Items) != 10 {
		t.Errorf("exploration should fill the feed, got %d", len(res.Items))
	}
	assertFeedInvariants(t, store, "u1", nil, res)
}

func TestAssemble_RandomizedInvariants(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(99)) //nolint:gosec // test randomness
	items := clusteredCatalog()
	filters := []feed.CategorySet{nil, feed.NewCategorySet("DRESSES"), feed.NewCategorySet("TOPS", "SHOES")}

	for trial := 0; trial < 50; trial++ {
		store := newFakeStore(items)
		for _, it := range items {
			switch r := rng.Intn(10); {
			case r == 0:
				store.like("u1", it.ID, testNow.Add(-time.Duration(rng.Intn(100000))*time.Second))
			case r == 1:
				store.dislike("u1", it.ID)
			}
		}
		filter := filters[trial%len(filters)]
		limit := 1 + rng.Intn(30)

		asm := newTestAssembler(t, store, flatFrom(items), func(c *feed.Config) { c.RNGSeed = int64(trial + 1) })
		res, err := asm.Assemble(context.Background(), feed.Request{
			UserID: "u1", Categories: filter, Limit: limit, Weighted: trial%2 == 0,
		})
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		if len(res.Items) > limit {
			t.Fatalf("trial %d: %d items exceed limit %d", trial, len(res.Items), limit)
		}
		assertFeedInvariants(t, store, "u1", filter, res)
	}
}

func TestAssemble_IndexDownDegradesToExploration(t *testing.T) {
	t.Parallel()

	items := clusteredCatalog()
	store := newFakeStore(items)
	for i := 0; i < 5; i++ {
		store.like("u1", fmt.Sprintf("L%d", i), testNow.Add(-time.Hour))
	}
	asm := newTestAssembler(t, store, failingIndex{err: errors.New("dial tcp: connection refused")}, nil)

	res, err := asm.Assemble(context.Background(), feed.Request{UserID: "u1", Limit: 10, Weighted: true})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if res.DegradedSeeds != res.SeedCount || res.SeedCount != 3 {
		t.Errorf("degraded = %d, seeds = %d, want 3/3", res.DegradedSeeds, res.SeedCount)
	}
	if len(res.Items) != 10 || res.ExplorationCount != 10 {
		t.Errorf("items = %d, exploration = %d, want 10/10", len(res.Items), res.ExplorationCount)
	}
	assertFeedInvariants(t, store, "u1", nil, res)
}

func TestAssemble_SamplerDownStillExplores(t *testing.T) {
	t.Parallel()

	items := clusteredCatalog()
	store := newFakeStore(items)
	store.like("u1", "L0", testNow.Add(-time.Hour))
	store.listErr = errors.New("redis: connection pool timeout")
	asm := newTestAssembler(t, store, flatFrom(items), nil)

	res, err := asm.Assemble(context.Background(), feed.Request{UserID: "u1", Limit: 4})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if res.SeedCount != 0 || len(res.Items) != 4 {
		t.Errorf("seeds = %d, items = %d, want 0/4", res.SeedCount, len(res.Items))
	}
	assertFeedInvariants(t, store, "u1", nil, res)
}

func TestAssemble_EveryStrategyFails(t *testing.T) {
	t.Parallel()

	items := clusteredCatalog()
	store := newFakeStore(items)
	store.listErr = errors.New("sampler down")
	store.sampleErr = errors.New("catalog down")
	asm := newTestAssembler(t, store, failingIndex{err: errors.New("index down")}, nil)

	_, err := asm.Assemble(context.Background(), feed.Request{UserID: "u1", Limit: 5})
	if !errors.Is(err, feed.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestAssemble_ExclusionsUnavailable(t *testing.T) {
	t.Parallel()

	store := newFakeStore(clusteredCatalog())
	store.dislikeErr = errors.New("timeout")
	asm := newTestAssembler(t, store, feed.EmbeddingIndex(failingIndex{}), nil)

	_, err := asm.Assemble(context.Background(), feed.Request{UserID: "u1", Limit: 5})
	if !errors.Is(err, feed.ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestAssemble_ShortCatalogIsPartial(t *testing.T) {
	t.Parallel()

	items := clusteredCatalog()
	store := newFakeStore(items)
	asm := newTestAssembler(t, store, flatFrom(items), nil)

	// SHOES holds ten filler items only.
	res, err := asm.Assemble(context.Background(), feed.Request{UserID: "u1", Categories: feed.NewCategorySet("SHOES"), Limit: 25})
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(res.Items) != 10 || !res.Partial {
		t.Errorf("items = %d, partial = %v, want 10/true", len(res.Items), res.Partial)
	}
}

func TestAssemble_UnknownUser(t *testing.T) {
	t.Parallel()

	store := newFakeStore(clusteredCatalog())
	asm := newTestAssembler(t, store, failingIndex{}, nil)

	_, err := asm.Assemble(context.Background(), feed.Request{UserID: "ghost", Limit: 5})
	if !errors.Is(err, feed.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	var fe *feed.Error
	if !errors.As(err, &fe) || fe.Op != "assemble" {
		t.Errorf("expected *feed.Error with op assemble, got %#v", err)
	}
}

func TestAssemble_InvalidArgumentsTouchNoStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  feed.Request
	}{
		{"zero limit", feed.Request{UserID: "u1", Limit: 0}},
		{"negative limit", feed.Request{UserID: "u1", Limit: -3}},
		{"limit above max", feed.Request{UserID: "u1", Limit: 101}},
		{"empty category", feed.Request{UserID: "u1", Limit: 5, Categories: feed.NewCategorySet("")}},
		{"category with space", feed.Request{UserID: "u1", Limit: 5, Categories: feed.NewCategorySet("EVENING WEAR")}},
		{"category too long", feed.Request{UserID: "u1", Limit: 5, Categories: feed.NewCategorySet(strings.Repeat("A", 65))}},
		{"missing user", feed.Request{Limit: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := newFakeStore(clusteredCatalog())
			asm := newTestAssembler(t, store, failingIndex{}, nil)

			_, err := asm.Assemble(context.Background(), tt.req)
			if !errors.Is(err, feed.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
			if store.calls() != 0 {
				t.Errorf("store touched %d times", store.calls())
			}
		})
	}
}

func TestNewAssembler_RejectsBadConfig(t *testing.T) {
	t.Parallel()

	store := newFakeStore(nil)
	deps := feed.Deps{Users: store, Preferences: store, Dislikes: store, Index: failingIndex{}, Catalog: store}

	cfg := feed.DefaultConfig()
	cfg.SeedFraction = 1.5
	if _, err := feed.NewAssembler(cfg, deps, zerolog.Nop()); err == nil {
		t.Error("expected error for seed_fraction out of range")
	}

	deps.Catalog = nil
	if _, err := feed.NewAssembler(nil, deps, zerolog.Nop()); err == nil {
		t.Error("expected error for missing collaborator")
	}
}
