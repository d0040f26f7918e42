// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tomtom215/swipewear/internal/config"
	"github.com/tomtom215/swipewear/internal/embedder"
	"github.com/tomtom215/swipewear/internal/logging"
)

func newEmbedCmd(a *app) *cobra.Command {
	var opts embedder.BackfillOptions

	cmd := &cobra.Command{
		Use:   "embed",
		Short: "Compute embeddings for items that lack them",
		Long: `Backfill item embeddings through the OpenAI embeddings API.

The coarse embedding is computed from the item name. --detailed computes
the detailed embedding from name, designer, color and categories instead.
Items that already carry the selected embedding are never recomputed.

Requires OPENAI_API_KEY.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.ValidateEmbedder(); err != nil {
				return err
			}
			emb, err := embedder.New(&a.cfg.Embedder)
			if err != nil {
				return err
			}
			return runEmbed(cmd.Context(), a.cfg, emb, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "Compute the detailed embedding")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Maximum items to embed (0 = all)")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", 0, "Texts per API request (default: embedder.batch_size)")

	return cmd
}

func runEmbed(ctx context.Context, cfg *config.Config, emb embedder.Embedder, opts embedder.BackfillOptions, out io.Writer) error {
	if opts.BatchSize <= 0 {
		opts.BatchSize = cfg.Embedder.BatchSize
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeQuietly(db, "database")

	n, err := embedder.Backfill(ctx, db, emb, opts, logging.WithComponent("embed"))
	fmt.Fprintf(out, "embedded %d items\n", n)
	if err != nil {
		return fmt.Errorf("backfill stopped: %w", err)
	}
	return nil
}
