// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

/*
Package models defines the data structures shared across Swipewear.

Catalog models (Item, Category, Outfit) are written by the ingestion paths
(swipewearctl import and the NATS catalog consumer) and only read by the feed
engine. Signal models (PreferenceRecord, DislikeRecord) are written by the
like/unlike/dislike endpoints. API models (APIResponse, APIError, Metadata,
ItemSummary) form the HTTP contract.

Identifiers are strings throughout. Item ids come from the upstream product
catalog and are opaque; category ids are short slugs such as "DRESSES".
*/
package models
