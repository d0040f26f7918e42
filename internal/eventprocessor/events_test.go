// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package eventprocessor

import (
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/swipewear/internal/config"
)

func TestUnmarshalCatalogEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		payload    string
		wantErr    bool
		wantItemID string
	}{
		{"delete", `{"event_id":"e1","type":"item_deleted","item_id":"i1"}`, false, "i1"},
		{"upsert", `{"event_id":"e1","type":"item_upserted","item_id":"i1","item":{"id":"i1","name":"Coat"}}`, false, "i1"},
		{"upsert takes id from item", `{"event_id":"e1","type":"item_upserted","item":{"id":"i2","name":"Coat"}}`, false, "i2"},
		{"mismatched ids", `{"event_id":"e1","type":"item_upserted","item_id":"i1","item":{"id":"i2","name":"Coat"}}`, true, ""},
		{"outfit without id", `{"event_id":"e1","type":"item_upserted","item":{"id":"i1","name":"Coat"},"outfits":[{"name":"x"}]}`, true, ""},
		{"delete without item id", `{"event_id":"e1","type":"item_deleted"}`, true, ""},
		{"empty object", `{}`, true, ""},
		{"array", `[]`, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			event, err := UnmarshalCatalogEvent([]byte(tt.payload))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEvent) {
					t.Errorf("err = %v, want ErrInvalidEvent", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if event.ItemID != tt.wantItemID {
				t.Errorf("ItemID = %q, want %q", event.ItemID, tt.wantItemID)
			}
		})
	}
}

func TestUnmarshalSignalEvent(t *testing.T) {
	t.Parallel()
	if _, err := UnmarshalSignalEvent([]byte(`{"event_id":"e","kind":"like","user_id":"u"}`)); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("missing item: err = %v", err)
	}
	ev, err := UnmarshalSignalEvent([]byte(`{"event_id":"e","kind":"dislike","user_id":"u","item_id":"i"}`))
	if err != nil || ev.Kind != "dislike" {
		t.Errorf("event = %+v, err = %v", ev, err)
	}
}

func TestSettingsFromConfig(t *testing.T) {
	t.Parallel()

	s := SettingsFromConfig(&config.NATSConfig{
		URL:            "nats://0.0.0.0:4333",
		EmbeddedServer: true,
		StoreDir:       "/tmp/js",
		CatalogTopic:   "catalog.items",
		SignalsTopic:   "signals.events",
		DurableName:    "feed-1",
		DedupTTL:       time.Minute,
	})

	if s.Server.Host != "0.0.0.0" || s.Server.Port != 4333 || s.Server.StoreDir != "/tmp/js" {
		t.Errorf("server = %+v", s.Server)
	}
	if s.Subscriber.DurableName != "feed-1" || s.Subscriber.StreamName != StreamName {
		t.Errorf("subscriber = %+v", s.Subscriber)
	}
	if s.Router.PoisonQueueTopic != "catalog.items.poison" {
		t.Errorf("poison topic = %q", s.Router.PoisonQueueTopic)
	}
	want := []string{"catalog.items", "catalog.items.poison", "signals.events"}
	if len(s.Stream.Subjects) != len(want) {
		t.Fatalf("subjects = %v", s.Stream.Subjects)
	}
	for i := range want {
		if s.Stream.Subjects[i] != want[i] {
			t.Errorf("subjects = %v, want %v", s.Stream.Subjects, want)
		}
	}
}
