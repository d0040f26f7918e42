// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package models

import "time"

// PreferenceRecord is the durable "user likes item" fact.
// There is at most one record per (UserID, ItemID).
//
// ShowInCloset is the closet-display overlay: a like starts visible, the
// closet-hide operation clears it, and unlike removes the whole record.
type PreferenceRecord struct {
	UserID       string    `json:"user_id"`
	ItemID       string    `json:"item_id"`
	SetAt        time.Time `json:"set_at"`
	ShowInCloset bool      `json:"show_in_closet"`
}

// DislikeRecord marks an item the user rejected. Dislikes are permanent.
type DislikeRecord struct {
	UserID    string    `json:"user_id"`
	ItemID    string    `json:"item_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SignalKind names a user signal for event publishing.
type SignalKind string

const (
	SignalLike       SignalKind = "like"
	SignalUnlike     SignalKind = "unlike"
	SignalDislike    SignalKind = "dislike"
	SignalClosetHide SignalKind = "closet_hide"
)

// SignalEvent is published after a signal mutation succeeds.
type SignalEvent struct {
	EventID    string     `json:"event_id"`
	Kind       SignalKind `json:"kind"`
	UserID     string     `json:"user_id"`
	ItemID     string     `json:"item_id"`
	OccurredAt time.Time  `json:"occurred_at"`
}

// CatalogEventType distinguishes catalog change events.
type CatalogEventType string

const (
	CatalogItemUpserted CatalogEventType = "item_upserted"
	CatalogItemDeleted  CatalogEventType = "item_deleted"
)

// CatalogEvent is consumed from the catalog topic. Item is required for
// upserts; deletes only need ItemID.
type CatalogEvent struct {
	EventID string           `json:"event_id"`
	Type    CatalogEventType `json:"type"`
	ItemID  string           `json:"item_id"`
	Item    *Item            `json:"item,omitempty"`
	Outfits []Outfit         `json:"outfits,omitempty"`
}
