// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/swipewear/internal/models"
)

func embeddingColumn(detailed bool) string {
	if detailed {
		return "detailed_embedding"
	}
	return "embedding"
}

// EmbeddedItems returns every item carrying the selected embedding, in
// insertion order, with Seq and Categories populated. It feeds index
// rebuilds.
func (db *DB) EmbeddedItems(ctx context.Context, detailed bool) (items []models.Item, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("select", "items", time.Now(), &err)

	col := embeddingColumn(detailed)
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, seq, `+col+` FROM items WHERE `+col+` IS NOT NULL ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to load embeddings: %w", err)
	}

	items = []models.Item{}
	for rows.Next() {
		var (
			it  models.Item
			raw any
		)
		if err = rows.Scan(&it.ID, &it.Seq, &raw); err != nil {
			closeQuietly(rows)
			return nil, fmt.Errorf("failed to scan embedding: %w", err)
		}
		vec, decErr := decodeVector(raw)
		if decErr != nil {
			closeQuietly(rows)
			err = fmt.Errorf("item %s: %w", it.ID, decErr)
			return nil, err
		}
		if detailed {
			it.DetailedEmbedding = vec
		} else {
			it.Embedding = vec
		}
		items = append(items, it)
	}
	if err = rows.Err(); err != nil {
		closeQuietly(rows)
		return nil, fmt.Errorf("failed to iterate embeddings: %w", err)
	}
	closeWithLog(rows, "embedding rows")

	cats, err := db.allCategories(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Categories = cats[items[i].ID]
	}
	return items, nil
}

// ItemsMissingEmbedding returns up to limit items without the selected
// embedding, in insertion order, with the text fields needed to embed them.
func (db *DB) ItemsMissingEmbedding(ctx context.Context, detailed bool, limit int) (items []models.Item, err error) {
	if limit <= 0 {
		return []models.Item{}, nil
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("select", "items", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, seq, name, designer_name, color
		FROM items WHERE `+embeddingColumn(detailed)+` IS NULL
		ORDER BY seq LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find unembedded items: %w", err)
	}

	items = []models.Item{}
	for rows.Next() {
		var (
			it              models.Item
			designer, color sql.NullString
		)
		if err = rows.Scan(&it.ID, &it.Seq, &it.Name, &designer, &color); err != nil {
			closeQuietly(rows)
			return nil, fmt.Errorf("failed to scan unembedded item: %w", err)
		}
		it.DesignerName = designer.String
		it.Color = color.String
		items = append(items, it)
	}
	if err = rows.Err(); err != nil {
		closeQuietly(rows)
		return nil, fmt.Errorf("failed to iterate unembedded items: %w", err)
	}
	closeWithLog(rows, "unembedded rows")

	if len(items) == 0 {
		return items, nil
	}
	ids := make([]string, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	cats, err := db.categoriesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Categories = cats[items[i].ID]
	}
	return items, nil
}

// SetEmbedding stores the selected embedding for an item. Returns
// ErrItemNotFound when the item does not exist.
func (db *DB) SetEmbedding(ctx context.Context, itemID string, vec []float32, detailed bool) (err error) {
	if len(vec) == 0 {
		return fmt.Errorf("%w: empty embedding for %s", ErrInvalidItem, itemID)
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("update", "items", time.Now(), &err)

	res, err := db.conn.ExecContext(ctx,
		`UPDATE items SET `+embeddingColumn(detailed)+` = CAST(? AS FLOAT[]) WHERE id = ?`,
		encodeVector(vec), itemID)
	if err != nil {
		return fmt.Errorf("failed to set embedding for %s: %w", itemID, err)
	}
	changed, err := rowsChanged(res)
	if err != nil {
		return err
	}
	if !changed {
		return ErrItemNotFound
	}
	return nil
}
