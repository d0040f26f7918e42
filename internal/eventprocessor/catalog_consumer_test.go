// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/swipewear/internal/database"
	"github.com/tomtom215/swipewear/internal/index"
	"github.com/tomtom215/swipewear/internal/models"
)

// fakeStore mimics the DuckDB catalog semantics the consumer relies on.
type fakeStore struct {
	mu        sync.Mutex
	items     map[string]models.Item
	outfits   map[string]models.Outfit
	seq       int64
	upsertErr error
	upserts   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[string]models.Item{}, outfits: map[string]models.Outfit{}}
}

func (s *fakeStore) UpsertItem(_ context.Context, item *models.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upserts++
	if s.upsertErr != nil {
		return s.upsertErr
	}
	if item.Name == "" {
		return fmt.Errorf("%w: name is required", database.ErrInvalidItem)
	}
	next := *item
	if old, ok := s.items[item.ID]; ok {
		next.Seq = old.Seq
		if next.Embedding == nil {
			next.Embedding = old.Embedding
		}
		if next.DetailedEmbedding == nil {
			next.DetailedEmbedding = old.DetailedEmbedding
		}
	} else {
		s.seq++
		next.Seq = s.seq
	}
	s.items[item.ID] = next
	return nil
}

func (s *fakeStore) UpsertOutfit(_ context.Context, o *models.Outfit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outfits[o.ID] = *o
	return nil
}

func (s *fakeStore) DeleteItem(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[id]
	delete(s.items, id)
	return ok, nil
}

func (s *fakeStore) GetItem(_ context.Context, id string) (*models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return nil, database.ErrItemNotFound
	}
	return &it, nil
}

func (s *fakeStore) item(id string) (models.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	return it, ok
}

func (s *fakeStore) upsertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upserts
}

func quietLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func newConsumer(store CatalogWriter, idx IndexWriter) *CatalogConsumer {
	return NewCatalogConsumer(store, idx, CatalogConsumerConfig{
		Topic:     "catalog.items",
		DedupSize: 100,
		DedupTTL:  time.Minute,
	}, quietLogger())
}

func upsertEvent(eventID, itemID string, vec []float32) *models.CatalogEvent {
	return &models.CatalogEvent{
		EventID: eventID,
		Type:    models.CatalogItemUpserted,
		ItemID:  itemID,
		Item: &models.Item{
			ID:         itemID,
			Name:       "Item " + itemID,
			Categories: []string{"DRESSES"},
			Embedding:  vec,
		},
	}
}

func eventMessage(t *testing.T, event *models.CatalogEvent) *message.Message {
	t.Helper()
	data, err := MarshalCatalogEvent(event)
	if err != nil {
		t.Fatalf("MarshalCatalogEvent: %v", err)
	}
	return message.NewMessage(event.EventID, data)
}

func TestCatalogConsumer_UpsertAndDelete(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	flat := index.NewFlat()
	c := newConsumer(store, flat)

	var changed []string
	c.OnChange(func(ids ...string) { changed = append(changed, ids...) })

	ev := upsertEvent("e1", "i1", []float32{1, 0})
	ev.Outfits = []models.Outfit{{ID: "o1", Name: "Weekend", ItemIDs: []string{"i1"}}}
	if err := c.Handle(eventMessage(t, ev)); err != nil {
		t.Fatalf("Handle upsert: %v", err)
	}
	if _, ok := store.item("i1"); !ok {
		t.Fatal("item not stored")
	}
	if _, ok := store.outfits["o1"]; !ok {
		t.Error("outfit not stored")
	}
	if flat.Len() != 1 {
		t.Errorf("index len = %d, want 1", flat.Len())
	}

	del := &models.CatalogEvent{EventID: "e2", Type: models.CatalogItemDeleted, ItemID: "i1"}
	if err := c.Handle(eventMessage(t, del)); err != nil {
		t.Fatalf("Handle delete: %v", err)
	}
	if _, ok := store.item("i1"); ok {
		t.Error("item still stored after delete")
	}
	if flat.Len() != 0 {
		t.Errorf("index len = %d, want 0", flat.Len())
	}
	if !reflect.DeepEqual(changed, []string{"i1", "i1"}) {
		t.Errorf("changed = %v", changed)
	}
}

func TestCatalogConsumer_KeepsStoredEmbedding(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	flat := index.NewFlat()
	c := newConsumer(store, flat)

	if err := c.Handle(eventMessage(t, upsertEvent("e1", "i1", []float32{1, 0}))); err != nil {
		t.Fatal(err)
	}
	// Re-import without a vector must not drop the item from the index.
	if err := c.Handle(eventMessage(t, upsertEvent("e2", "i1", nil))); err != nil {
		t.Fatal(err)
	}
	if flat.Len() != 1 {
		t.Errorf("index len = %d, want 1", flat.Len())
	}
	it, _ := store.item("i1")
	if len(it.Embedding) != 2 {
		t.Errorf("stored embedding = %v", it.Embedding)
	}
}

func TestCatalogConsumer_ItemWithoutEmbeddingNotIndexed(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	flat := index.NewFlat()
	c := NewCatalogConsumer(store, flat, CatalogConsumerConfig{Topic: "t", Detailed: true}, quietLogger())

	// Only the coarse vector is set; the detailed index skips the item.
	if err := c.Handle(eventMessage(t, upsertEvent("e1", "i1", []float32{1, 0}))); err != nil {
		t.Fatal(err)
	}
	if flat.Len() != 0 {
		t.Errorf("index len = %d, want 0", flat.Len())
	}
}

func TestCatalogConsumer_Dedup(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	c := newConsumer(store, nil)

	ev := upsertEvent("e1", "i1", nil)
	for i := 0; i < 3; i++ {
		if err := c.Handle(eventMessage(t, ev)); err != nil {
			t.Fatalf("Handle %d: %v", i, err)
		}
	}
	if n := store.upsertCount(); n != 1 {
		t.Errorf("upserts = %d, want 1", n)
	}
}

func TestCatalogConsumer_FailureIsRetried(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	store.upsertErr = errors.New("database is locked")
	c := newConsumer(store, nil)

	msg := eventMessage(t, upsertEvent("e1", "i1", nil))
	if err := c.Handle(msg); err == nil {
		t.Fatal("Handle returned nil for a store failure")
	}

	// The failed event id is not remembered, so redelivery applies it.
	store.mu.Lock()
	store.upsertErr = nil
	store.mu.Unlock()
	if err := c.Handle(msg); err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	if _, ok := store.item("i1"); !ok {
		t.Error("item not stored on redelivery")
	}
}

func TestCatalogConsumer_DropsMalformed(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	c := newConsumer(store, nil)

	payloads := map[string]string{
		"not json":         `{"event_id":`,
		"unknown type":     `{"event_id":"e1","type":"item_renamed","item_id":"i1"}`,
		"upsert w/o item":  `{"event_id":"e1","type":"item_upserted","item_id":"i1"}`,
		"missing event id": `{"type":"item_deleted","item_id":"i1"}`,
		"nameless item":    `{"event_id":"e1","type":"item_upserted","item":{"id":"i1"}}`,
	}
	for name, payload := range payloads {
		if err := c.Handle(message.NewMessage("m", []byte(payload))); err != nil {
			t.Errorf("%s: Handle = %v, want nil (ack and drop)", name, err)
		}
	}
	if n := store.upsertCount(); n != 0 {
		t.Errorf("upserts = %d, want 0", n)
	}
}

func TestCatalogConsumer_ApplySurfacesStoreValidation(t *testing.T) {
	t.Parallel()
	store := newFakeStore()
	c := newConsumer(store, nil)

	ev := upsertEvent("e1", "i1", nil)
	ev.Item.Name = ""
	// Bypass event validation to exercise the store's own check.
	if err := c.Apply(context.Background(), ev); !errors.Is(err, database.ErrInvalidItem) {
		t.Fatalf("Apply = %v, want ErrInvalidItem", err)
	}
}
