// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package signals

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/swipewear/internal/feed"
)

// ErrUnavailable is returned when the backing signal store cannot be
// reached.
var ErrUnavailable = errors.New("signal store unavailable")

// Backend names accepted by signals.backend.
const (
	BackendDuckDB = "duckdb"
	BackendRedis  = "redis"
	BackendBadger = "badger"
)

// Store persists likes, closet visibility and dislikes. Mutations report
// whether they changed anything; repeating a like or dislike is a no-op
// that keeps the original timestamp.
//
// database.DB, RedisStore and BadgerStore implement Store.
type Store interface {
	feed.PreferenceStore
	feed.DislikeStore

	Like(ctx context.Context, userID, itemID string, at time.Time) (bool, error)
	Unlike(ctx context.Context, userID, itemID string) (bool, error)
	HideFromCloset(ctx context.Context, userID, itemID string) (bool, error)
	Dislike(ctx context.Context, userID, itemID string, at time.Time) (bool, error)

	// Closet returns the visible liked items, most recent first.
	Closet(ctx context.Context, userID string) ([]string, error)
	// Dislikes returns the disliked items, most recent first.
	Dislikes(ctx context.Context, userID string) ([]string, error)
}
