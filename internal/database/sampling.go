// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/swipewear/internal/feed"
	"github.com/tomtom215/swipewear/internal/models"
)

// RandomSample returns up to limit uniformly random item ids that are not in
// exclude and, when filter is non-empty, belong to at least one filtered
// category. A small catalog yields fewer ids, never an error.
func (db *DB) RandomSample(ctx context.Context, exclude feed.ItemSet, filter feed.CategorySet, limit int) (ids []string, err error) {
	if limit <= 0 {
		return []string{}, nil
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("sample", "items", time.Now(), &err)

	var (
		where []string
		args  []any
	)
	if cats := filter.Slice(); len(cats) > 0 {
		where = append(where, `EXISTS (
			SELECT 1 FROM item_category ic
			WHERE ic.item_id = i.id AND ic.category_id IN (`+placeholders(len(cats))+`))`)
		args = append(args, stringArgs(cats)...)
	}
	if excluded := exclude.Slice(); len(excluded) > 0 {
		where = append(where, `i.id NOT IN (`+placeholders(len(excluded))+`)`)
		args = append(args, stringArgs(excluded)...)
	}

	query := `SELECT i.id FROM items i`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY random() LIMIT ?`
	args = append(args, limit)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sample items: %w", err)
	}
	defer closeWithLog(rows, "sample rows")

	ids = make([]string, 0, limit)
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan sampled item: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sampled items: %w", err)
	}
	return ids, nil
}

// CategoryFeed is the non-personalized feed: random items, optionally
// restricted to one category.
func (db *DB) CategoryFeed(ctx context.Context, categoryID string, limit int) ([]models.ItemSummary, error) {
	var filter feed.CategorySet
	if categoryID != "" {
		filter = feed.NewCategorySet(categoryID)
	}
	ids, err := db.RandomSample(ctx, nil, filter, limit)
	if err != nil {
		return nil, err
	}
	return db.ItemSummaries(ctx, ids)
}
