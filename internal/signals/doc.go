// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

// Package signals records user likes, closet visibility and dislikes.
//
// Three Store backends exist: database.DB (DuckDB, the default), RedisStore
// and BadgerStore. All of them implement the feed engine's PreferenceStore
// and DislikeStore, so the feed reads signals from wherever they are
// written. Service sits in front of the Store for the HTTP API and checks
// that users and items exist, meters writes and publishes change events.
package signals
