// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

/*
Package cache provides a generic, thread-safe LRU cache with TTL expiry.

Two caches use it:
  - item_summary: hydrated feed cards in the API layer, invalidated when a
    catalog event changes the item
  - catalog_event_dedup: event ids already applied by the catalog consumer

Each cache is named; the name labels its Prometheus hit, miss, eviction and
size series.

	summaries := cache.NewLRU[string, models.ItemSummary]("item_summary", 10000, 10*time.Minute)
	summaries.Add(item.ID, item.Summary())
	if s, ok := summaries.Get(id); ok {
	    ...
	}
*/
package cache
