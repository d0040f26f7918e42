// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package index

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/swipewear/internal/metrics"
	"github.com/tomtom215/swipewear/internal/models"
)

// ItemSource lists the catalog items that carry the selected embedding.
type ItemSource interface {
	EmbeddedItems(ctx context.Context, detailed bool) ([]models.Item, error)
}

// Entries converts items into index entries, skipping items without the
// selected embedding.
func Entries(items []models.Item, detailed bool) []Entry {
	out := make([]Entry, 0, len(items))
	for i := range items {
		if e, ok := EntryFromItem(&items[i], detailed); ok {
			out = append(out, e)
		}
	}
	return out
}

// Refresher rebuilds a Flat index from the catalog.
type Refresher struct {
	source   ItemSource
	flat     *Flat
	detailed bool
}

// NewRefresher creates a refresher for flat.
func NewRefresher(source ItemSource, flat *Flat, detailed bool) *Refresher {
	return &Refresher{source: source, flat: flat, detailed: detailed}
}

// Refresh replaces the index contents with the current catalog. On error
// the index is left untouched.
func (r *Refresher) Refresh(ctx context.Context) (n int, err error) {
	start := time.Now()
	defer func() { metrics.RecordIndexRefresh("flat", time.Since(start), n, err) }()

	items, err := r.source.EmbeddedItems(ctx, r.detailed)
	if err != nil {
		return 0, fmt.Errorf("load embedded items: %w", err)
	}
	entries := Entries(items, r.detailed)
	r.flat.Replace(entries)
	return len(entries), nil
}

// SyncQdrant pushes every embedded catalog item into the Qdrant collection
// in batches, creating the collection when needed.
func SyncQdrant(ctx context.Context, source ItemSource, q *Qdrant, detailed bool, batchSize int) (n int, err error) {
	start := time.Now()
	defer func() { metrics.RecordIndexRefresh("qdrant", time.Since(start), n, err) }()

	if batchSize <= 0 {
		batchSize = 256
	}

	items, err := source.EmbeddedItems(ctx, detailed)
	if err != nil {
		return 0, fmt.Errorf("load embedded items: %w", err)
	}
	entries := Entries(items, detailed)
	if len(entries) == 0 {
		return 0, nil
	}

	if err := q.EnsureCollection(ctx, len(entries[0].Vector)); err != nil {
		return 0, err
	}
	for lo := 0; lo < len(entries); lo += batchSize {
		hi := min(lo+batchSize, len(entries))
		if err := q.Upsert(ctx, entries[lo:hi]); err != nil {
			return lo, err
		}
	}
	return len(entries), nil
}
