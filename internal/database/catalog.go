// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/swipewear/internal/models"
)

// UpsertItem inserts or updates an item and replaces its category
// membership. A nil embedding on update keeps the stored one, so a catalog
// re-import does not wipe backfilled vectors. The insertion sequence of an
// existing item never changes.
func (db *DB) UpsertItem(ctx context.Context, item *models.Item) (err error) {
	if item == nil || strings.TrimSpace(item.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidItem)
	}
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: name is required for item %s", ErrInvalidItem, item.ID)
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("upsert", "items", time.Now(), &err)

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	updatedAt := item.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO items (
			id, name, image_url_suffix, product_detail_url, designer_name,
			price, color, embedding, detailed_embedding, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, CAST(? AS FLOAT[]), CAST(? AS FLOAT[]), ?)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			image_url_suffix = EXCLUDED.image_url_suffix,
			product_detail_url = EXCLUDED.product_detail_url,
			designer_name = EXCLUDED.designer_name,
			price = EXCLUDED.price,
			color = EXCLUDED.color,
			embedding = COALESCE(EXCLUDED.embedding, embedding),
			detailed_embedding = COALESCE(EXCLUDED.detailed_embedding, detailed_embedding),
			updated_at = EXCLUDED.updated_at`,
		item.ID, item.Name, item.ImageURLSuffix, item.ProductDetailURL, item.DesignerName,
		item.Price, item.Color, encodeVector(item.Embedding), encodeVector(item.DetailedEmbedding), updatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert item %s: %w", item.ID, err)
	}

	if err = replaceItemCategories(ctx, tx, item.ID, item.Categories); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit item %s: %w", item.ID, err)
	}
	return nil
}

// replaceItemCategories makes the item's membership equal to categories.
// Rows that stay are left untouched; unknown categories are created with
// their id as the display name.
func replaceItemCategories(ctx context.Context, tx *sql.Tx, itemID string, categories []string) error {
	cats := normalizeIDs(categories)

	if len(cats) == 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM item_category WHERE item_id = ?`, itemID); err != nil {
			return fmt.Errorf("failed to clear categories for %s: %w", itemID, err)
		}
		return nil
	}

	args := append([]any{itemID}, stringArgs(cats)...)
	_, err := tx.ExecContext(ctx,
		`DELETE FROM item_category WHERE item_id = ? AND category_id NOT IN (`+placeholders(len(cats))+`)`,
		args...)
	if err != nil {
		return fmt.Errorf("failed to prune categories for %s: %w", itemID, err)
	}

	for _, cat := range cats {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (id, name) VALUES (?, ?) ON CONFLICT DO NOTHING`, cat, cat); err != nil {
			return fmt.Errorf("failed to ensure category %s: %w", cat, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO item_category (item_id, category_id) VALUES (?, ?) ON CONFLICT DO NOTHING`, itemID, cat); err != nil {
			return fmt.Errorf("failed to link %s to %s: %w", itemID, cat, err)
		}
	}
	return nil
}

// normalizeIDs trims, drops empties, dedups and sorts.
func normalizeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// UpsertCategory inserts or renames a category.
func (db *DB) UpsertCategory(ctx context.Context, c models.Category) (err error) {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("category id is required")
	}
	name := c.Name
	if name == "" {
		name = c.ID
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("upsert", "categories", time.Now(), &err)

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO categories (id, name) VALUES (?, ?) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
		c.ID, name)
	if err != nil {
		return fmt.Errorf("failed to upsert category %s: %w", c.ID, err)
	}
	return nil
}

// UpsertOutfit inserts or updates an outfit. ItemIDs order is kept as the
// outfit's display order.
func (db *DB) UpsertOutfit(ctx context.Context, o *models.Outfit) (err error) {
	if o == nil || strings.TrimSpace(o.ID) == "" {
		return errors.New("outfit id is required")
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("upsert", "outfits", time.Now(), &err)

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	name := o.Name
	if name == "" {
		name = o.ID
	}
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO outfits (id, name) VALUES (?, ?) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`,
		o.ID, name); err != nil {
		return fmt.Errorf("failed to upsert outfit %s: %w", o.ID, err)
	}

	// Keep first occurrence order.
	members := make([]string, 0, len(o.ItemIDs))
	seen := make(map[string]struct{}, len(o.ItemIDs))
	for _, id := range o.ItemIDs {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}

	if len(members) == 0 {
		_, err = tx.ExecContext(ctx, `DELETE FROM item_outfit WHERE outfit_id = ?`, o.ID)
	} else {
		args := append([]any{o.ID}, stringArgs(members)...)
		_, err = tx.ExecContext(ctx,
			`DELETE FROM item_outfit WHERE outfit_id = ? AND item_id NOT IN (`+placeholders(len(members))+`)`,
			args...)
	}
	if err != nil {
		return fmt.Errorf("failed to prune outfit %s: %w", o.ID, err)
	}

	for pos, itemID := range members {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO item_outfit (outfit_id, item_id, position) VALUES (?, ?, ?)
			ON CONFLICT (outfit_id, item_id) DO UPDATE SET position = EXCLUDED.position`,
			o.ID, itemID, pos); err != nil {
			return fmt.Errorf("failed to add %s to outfit %s: %w", itemID, o.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit outfit %s: %w", o.ID, err)
	}
	return nil
}

// DeleteItem removes an item with its category and outfit membership.
// User signals referencing the item are kept; they simply stop matching
// anything in the catalog. Returns false when the item did not exist.
func (db *DB) DeleteItem(ctx context.Context, id string) (deleted bool, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("delete", "items", time.Now(), &err)

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range []string{
		`DELETE FROM item_category WHERE item_id = ?`,
		`DELETE FROM item_outfit WHERE item_id = ?`,
	} {
		if _, err = tx.ExecContext(ctx, stmt, id); err != nil {
			return false, fmt.Errorf("failed to delete item %s: %w", id, err)
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete item %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit delete of %s: %w", id, err)
	}
	return n > 0, nil
}

// GetItem returns an item with its categories and embeddings.
func (db *DB) GetItem(ctx context.Context, id string) (item *models.Item, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("select", "items", time.Now(), &err)

	var (
		it                      models.Item
		image, detail, designer sql.NullString
		price, color            sql.NullString
		embedding, detailed     any
	)
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, seq, name, image_url_suffix, product_detail_url, designer_name,
		       price, color, embedding, detailed_embedding, updated_at
		FROM items WHERE id = ?`, id)
	if scanErr := row.Scan(&it.ID, &it.Seq, &it.Name, &image, &detail, &designer,
		&price, &color, &embedding, &detailed, &it.UpdatedAt); scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		err = fmt.Errorf("failed to get item %s: %w", id, scanErr)
		return nil, err
	}
	it.ImageURLSuffix = image.String
	it.ProductDetailURL = detail.String
	it.DesignerName = designer.String
	it.Price = price.String
	it.Color = color.String

	if it.Embedding, err = decodeVector(embedding); err != nil {
		return nil, fmt.Errorf("item %s embedding: %w", id, err)
	}
	if it.DetailedEmbedding, err = decodeVector(detailed); err != nil {
		return nil, fmt.Errorf("item %s detailed embedding: %w", id, err)
	}

	cats, err := db.categoriesFor(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	it.Categories = cats[id]
	if it.Categories == nil {
		it.Categories = []string{}
	}
	return &it, nil
}

// ItemExists reports whether id is in the catalog.
func (db *DB) ItemExists(ctx context.Context, id string) (exists bool, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("select", "items", time.Now(), &err)

	err = db.conn.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM items WHERE id = ?)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check item %s: %w", id, err)
	}
	return exists, nil
}

// CountItems returns the catalog size.
func (db *DB) CountItems(ctx context.Context) (n int, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("count", "items", time.Now(), &err)

	if err = db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return n, nil
}

// ItemSummaries hydrates ids into feed cards, preserving input order.
// Ids missing from the catalog are skipped.
func (db *DB) ItemSummaries(ctx context.Context, ids []string) (out []models.ItemSummary, err error) {
	if len(ids) == 0 {
		return []models.ItemSummary{}, nil
	}

	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("select", "items", time.Now(), &err)

	unique := normalizeIDs(ids)
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, image_url_suffix FROM items WHERE id IN (`+placeholders(len(unique))+`)`,
		stringArgs(unique)...)
	if err != nil {
		return nil, fmt.Errorf("failed to load item summaries: %w", err)
	}
	byID := make(map[string]models.ItemSummary, len(unique))
	for rows.Next() {
		var (
			s     models.ItemSummary
			image sql.NullString
		)
		if err = rows.Scan(&s.ID, &s.Name, &image); err != nil {
			closeQuietly(rows)
			return nil, fmt.Errorf("failed to scan item summary: %w", err)
		}
		s.ImageURLSuffix = image.String
		byID[s.ID] = s
	}
	if err = rows.Err(); err != nil {
		closeQuietly(rows)
		return nil, fmt.Errorf("failed to iterate item summaries: %w", err)
	}
	closeWithLog(rows, "item summary rows")

	cats, err := db.categoriesFor(ctx, unique)
	if err != nil {
		return nil, err
	}

	out = make([]models.ItemSummary, 0, len(ids))
	emitted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := emitted[id]; dup {
			continue
		}
		emitted[id] = struct{}{}
		s.Categories = cats[id]
		if s.Categories == nil {
			s.Categories = []string{}
		}
		out = append(out, s)
	}
	return out, nil
}

// categoriesFor returns sorted category ids per item.
func (db *DB) categoriesFor(ctx context.Context, ids []string) (map[string][]string, error) {
	out := make(map[string][]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT item_id, category_id FROM item_category
		 WHERE item_id IN (`+placeholders(len(ids))+`)
		 ORDER BY item_id, category_id`,
		stringArgs(ids)...)
	if err != nil {
		return nil, fmt.Errorf("failed to load item categories: %w", err)
	}
	defer closeWithLog(rows, "item category rows")

	for rows.Next() {
		var itemID, catID string
		if err := rows.Scan(&itemID, &catID); err != nil {
			return nil, fmt.Errorf("failed to scan item category: %w", err)
		}
		out[itemID] = append(out[itemID], catID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate item categories: %w", err)
	}
	return out, nil
}

// allCategories returns the membership of every item.
func (db *DB) allCategories(ctx context.Context) (map[string][]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT item_id, category_id FROM item_category ORDER BY item_id, category_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load item categories: %w", err)
	}
	defer closeWithLog(rows, "item category rows")

	out := make(map[string][]string)
	for rows.Next() {
		var itemID, catID string
		if err := rows.Scan(&itemID, &catID); err != nil {
			return nil, fmt.Errorf("failed to scan item category: %w", err)
		}
		out[itemID] = append(out[itemID], catID)
	}
	return out, rows.Err()
}

// ListCategories returns every category with its item count, ordered by id.
func (db *DB) ListCategories(ctx context.Context) (out []models.Category, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("select", "categories", time.Now(), &err)

	rows, err := db.conn.QueryContext(ctx, `
		SELECT c.id, c.name, COUNT(ic.item_id) AS item_count
		FROM categories c
		LEFT JOIN item_category ic ON ic.category_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer closeWithLog(rows, "category rows")

	out = []models.Category{}
	for rows.Next() {
		var c models.Category
		if err = rows.Scan(&c.ID, &c.Name, &c.ItemCount); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return out, nil
}

// GetCategory returns one category with its item count.
func (db *DB) GetCategory(ctx context.Context, id string) (cat *models.Category, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("select", "categories", time.Now(), &err)

	var c models.Category
	scanErr := db.conn.QueryRowContext(ctx, `
		SELECT c.id, c.name, (SELECT COUNT(*) FROM item_category ic WHERE ic.category_id = c.id)
		FROM categories c WHERE c.id = ?`, id).Scan(&c.ID, &c.Name, &c.ItemCount)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if scanErr != nil {
		err = fmt.Errorf("failed to get category %s: %w", id, scanErr)
		return nil, err
	}
	return &c, nil
}

// GetOutfit returns an outfit with its item ids in display order.
func (db *DB) GetOutfit(ctx context.Context, id string) (outfit *models.Outfit, err error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()
	defer observe("select", "outfits", time.Now(), &err)

	o := models.Outfit{ItemIDs: []string{}}
	scanErr := db.conn.QueryRowContext(ctx, `SELECT id, name FROM outfits WHERE id = ?`, id).Scan(&o.ID, &o.Name)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return nil, ErrOutfitNotFound
	}
	if scanErr != nil {
		err = fmt.Errorf("failed to get outfit %s: %w", id, scanErr)
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT io.item_id FROM item_outfit io
		JOIN items i ON i.id = io.item_id
		WHERE io.outfit_id = ?
		ORDER BY io.position, io.item_id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load outfit items: %w", err)
	}
	defer closeWithLog(rows, "outfit rows")

	for rows.Next() {
		var itemID string
		if err = rows.Scan(&itemID); err != nil {
			return nil, fmt.Errorf("failed to scan outfit item: %w", err)
		}
		o.ItemIDs = append(o.ItemIDs, itemID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outfit items: %w", err)
	}
	return &o, nil
}
