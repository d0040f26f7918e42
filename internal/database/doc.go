// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

// Package database is the DuckDB-backed store for the catalog and user
// signals.
//
// # Overview
//
// The package owns the items, categories, outfits and users tables together
// with the like and dislike signal tables. It implements the feed engine's
// storage interfaces (PreferenceStore, DislikeStore, CatalogStore and
// UserResolver) and the catalog queries used by the HTTP API, the import
// tooling and the index rebuilds.
//
// File layout:
//   - database.go: connection lifecycle and pool configuration
//   - schema.go: table and index creation
//   - catalog.go: item, category and outfit CRUD
//   - sampling.go: uniform random sampling for feed exploration
//   - signals.go: likes, closet visibility and dislikes
//   - users.go: user registration and lookup
//   - embeddings.go: embedding backfill and index rebuild queries
//   - vectors.go: FLOAT[] encoding helpers
//
// # Embeddings
//
// Vectors live in FLOAT[] columns. They are bound as list literals through
// CAST(? AS FLOAT[]) and decoded from the driver's []any LIST
// representation. Re-importing an item without a vector keeps the stored one.
//
// # Ordering
//
// Every item gets a sequence number from item_seq on first insert. The
// number never changes on update and is the catalog order used to break
// similarity ties in the in-process index.
//
// # Thread Safety
//
// DB is safe for concurrent use. All connections from one DB share a single
// DuckDB instance, including the ":memory:" one used in tests.
package database
