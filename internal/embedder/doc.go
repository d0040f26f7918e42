// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

// Package embedder computes item embeddings through an OpenAI compatible
// embeddings API and backfills items that lack them.
package embedder
