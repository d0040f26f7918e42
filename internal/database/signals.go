// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/swipewear/internal/feed"
	"github.com/tomtom215/swipewear/internal/models"
)

// Like records that the user likes the item and makes it visible in the
// closet. A repeated like is a no-op and keeps the existing timestamp and
// closet flag. Reports whether a row was inserted.
func (db *DB) Like(ctx context.Context, userID, itemID string, at time.Time) (changed bool, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("insert", "user_like_items", time.Now(), &err)

	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO user_like_items (user_id, item_id, set_at, show_in_closet)
		VALUES (?, ?, ?, TRUE)
		ON CONFLICT DO NOTHING`, userID, itemID, at.UTC())
	if err != nil {
		return false, fmt.Errorf("failed to like item %s: %w", itemID, err)
	}
	return rowsChanged(res)
}

// Unlike removes the preference record together with its closet flag.
func (db *DB) Unlike(ctx context.Context, userID, itemID string) (changed bool, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("delete", "user_like_items", time.Now(), &err)

	res, err := db.conn.ExecContext(ctx,
		`DELETE FROM user_like_items WHERE user_id = ? AND item_id = ?`, userID, itemID)
	if err != nil {
		return false, fmt.Errorf("failed to unlike item %s: %w", itemID, err)
	}
	return rowsChanged(res)
}

// HideFromCloset clears the closet flag. The preference itself stays and
// keeps steering the feed. Reports false when there was no visible like.
func (db *DB) HideFromCloset(ctx context.Context, userID, itemID string) (changed bool, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("update", "user_like_items", time.Now(), &err)

	res, err := db.conn.ExecContext(ctx, `
		UPDATE user_like_items SET show_in_closet = FALSE
		WHERE user_id = ? AND item_id = ? AND show_in_closet`, userID, itemID)
	if err != nil {
		return false, fmt.Errorf("failed to hide item %s: %w", itemID, err)
	}
	return rowsChanged(res)
}

// Dislike permanently excludes the item from the user's feeds. Repeats are
// no-ops.
func (db *DB) Dislike(ctx context.Context, userID, itemID string, at time.Time) (changed bool, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("insert", "user_dislike_items", time.Now(), &err)

	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO user_dislike_items (user_id, item_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT DO NOTHING`, userID, itemID, at.UTC())
	if err != nil {
		return false, fmt.Errorf("failed to dislike item %s: %w", itemID, err)
	}
	return rowsChanged(res)
}

// ListPreferences returns the user's preference records, most recent first.
func (db *DB) ListPreferences(ctx context.Context, userID string) (out []models.PreferenceRecord, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("select", "user_like_items", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `
		SELECT user_id, item_id, set_at, show_in_closet
		FROM user_like_items WHERE user_id = ?
		ORDER BY set_at DESC, item_id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer closeWithLog(rows, "preference rows")

	out = []models.PreferenceRecord{}
	for rows.Next() {
		var rec models.PreferenceRecord
		if err = rows.Scan(&rec.UserID, &rec.ItemID, &rec.SetAt, &rec.ShowInCloset); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		out = append(out, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate preferences: %w", err)
	}
	return out, nil
}

// PreferredSet returns every item the user likes, hidden or not.
func (db *DB) PreferredSet(ctx context.Context, userID string) (feed.ItemSet, error) {
	ids, err := db.itemIDs(ctx, "user_like_items",
		`SELECT item_id FROM user_like_items WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	return feed.NewItemSet(ids...), nil
}

// DislikedSet returns every item the user disliked.
func (db *DB) DislikedSet(ctx context.Context, userID string) (feed.ItemSet, error) {
	ids, err := db.itemIDs(ctx, "user_dislike_items",
		`SELECT item_id FROM user_dislike_items WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	return feed.NewItemSet(ids...), nil
}

// Closet returns the liked items still shown in the closet, most recent
// first.
func (db *DB) Closet(ctx context.Context, userID string) ([]string, error) {
	return db.itemIDs(ctx, "user_like_items", `
		SELECT item_id FROM user_like_items
		WHERE user_id = ? AND show_in_closet
		ORDER BY set_at DESC, item_id`, userID)
}

// Dislikes returns the disliked items, most recent first.
func (db *DB) Dislikes(ctx context.Context, userID string) ([]string, error) {
	return db.itemIDs(ctx, "user_dislike_items", `
		SELECT item_id FROM user_dislike_items
		WHERE user_id = ?
		ORDER BY created_at DESC, item_id`, userID)
}

func (db *DB) itemIDs(ctx context.Context, table, query string, args ...any) (ids []string, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("select", table, time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer closeWithLog(rows, table+" rows")

	ids = []string{}
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", table, err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", table, err)
	}
	return ids, nil
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func rowsChanged(res rowsAffecter) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}
