// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package embedder

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/swipewear/internal/metrics"
	"github.com/tomtom215/swipewear/internal/models"
)

// Store reads unembedded items and persists their vectors.
type Store interface {
	ItemsMissingEmbedding(ctx context.Context, detailed bool, limit int) ([]models.Item, error)
	SetEmbedding(ctx context.Context, itemID string, vec []float32, detailed bool) error
}

// Embedder turns texts into vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// BackfillOptions controls a backfill run.
type BackfillOptions struct {
	Detailed  bool
	BatchSize int
	// Limit caps the number of items embedded; zero means no cap.
	Limit int
}

// Backfill embeds every item missing the selected embedding, one batch at
// a time, and returns the number of items written. Existing embeddings are
// never recomputed.
func Backfill(ctx context.Context, store Store, emb Embedder, opts BackfillOptions, logger zerolog.Logger) (int, error) {
	batch := opts.BatchSize
	if batch <= 0 {
		batch = 64
	}

	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		want := batch
		if opts.Limit > 0 {
			if total >= opts.Limit {
				return total, nil
			}
			want = min(batch, opts.Limit-total)
		}

		items, err := store.ItemsMissingEmbedding(ctx, opts.Detailed, want)
		if err != nil {
			return total, fmt.Errorf("list unembedded items: %w", err)
		}
		if len(items) == 0 {
			return total, nil
		}

		texts := make([]string, len(items))
		for i := range items {
			texts[i] = Text(&items[i], opts.Detailed)
		}
		vecs, err := emb.Embed(ctx, texts)
		metrics.RecordEmbeddingBatch(len(items), err)
		if err != nil {
			return total, err
		}

		for i := range items {
			if err := store.SetEmbedding(ctx, items[i].ID, vecs[i], opts.Detailed); err != nil {
				return total, fmt.Errorf("store embedding for %s: %w", items[i].ID, err)
			}
		}
		total += len(items)
		logger.Info().Int("batch", len(items)).Int("total", total).Bool("detailed", opts.Detailed).Msg("Embedded items")
	}
}
