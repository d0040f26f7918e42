// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/swipewear/internal/index"
)

func newIndexCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Manage the embedding index",
	}
	cmd.AddCommand(newIndexSyncCmd(a))
	return cmd
}

func newIndexSyncCmd(a *app) *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push embedded catalog items into Qdrant",
		Long: `Upsert every item carrying the configured embedding into the Qdrant
collection, creating the collection when it does not exist.

The flat index is rebuilt by the server itself and needs no sync.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			if cfg.Index.Backend != "qdrant" {
				return fmt.Errorf("index sync needs INDEX_BACKEND=qdrant, got %q", cfg.Index.Backend)
			}

			db, err := openDB(cfg)
			if err != nil {
				return err
			}
			defer closeQuietly(db, "database")

			q, err := index.NewQdrant(cfg.Index.QdrantHost, cfg.Index.QdrantPort, cfg.Index.QdrantCollection)
			if err != nil {
				return err
			}
			defer closeQuietly(q, "qdrant")

			n, err := index.SyncQdrant(cmd.Context(), db, q, cfg.Index.Detailed(), batchSize)
			if err != nil {
				return fmt.Errorf("sync qdrant after %d items: %w", n, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "synced %d items into %s\n", n, cfg.Index.QdrantCollection)
			return nil
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", 256, "Points per upsert request")
	return cmd
}
