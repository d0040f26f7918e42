// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/swipewear/internal/config"
	"github.com/tomtom215/swipewear/internal/feed"
	"github.com/tomtom215/swipewear/internal/index"
	"github.com/tomtom215/swipewear/internal/logging"
	"github.com/tomtom215/swipewear/internal/models"
	"github.com/tomtom215/swipewear/internal/signals"
)

type feedOptions struct {
	userID     string
	limit      int
	categories []string
	weighted   *bool
	jsonOut    bool
}

// feedOutput is the --json form of an assembled feed.
type feedOutput struct {
	UserID           string               `json:"user_id"`
	Items            []models.ItemSummary `json:"items"`
	SimilarityCount  int                  `json:"similarity_count"`
	ExplorationCount int                  `json:"exploration_count"`
	SeedCount        int                  `json:"seed_count"`
	DegradedSeeds    int                  `json:"degraded_seeds"`
	Partial          bool                 `json:"partial"`
}

func newFeedCmd(a *app) *cobra.Command {
	var (
		opts     feedOptions
		weighted bool
	)

	cmd := &cobra.Command{
		Use:   "feed USER_ID",
		Short: "Assemble a feed for a user",
		Long: `Assemble one feed the way the server would and print it.

The flat index is built in memory from DuckDB for this run; with
INDEX_BACKEND=qdrant the remote collection is queried instead. Signals are
read from the configured signals backend.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.userID = args[0]
			if cmd.Flags().Changed("weighted") {
				opts.weighted = &weighted
			}
			return runFeed(cmd.Context(), a.cfg, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Feed length (default: feed.default_limit)")
	cmd.Flags().StringSliceVar(&opts.categories, "category", nil, "Restrict to categories (repeatable)")
	cmd.Flags().BoolVar(&weighted, "weighted", false, "Weight seed sampling toward recent likes (default: feed.weighted_default)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "Print JSON instead of a table")

	return cmd
}

func runFeed(ctx context.Context, cfg *config.Config, opts feedOptions, out io.Writer) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeQuietly(db, "database")

	backing, err := signals.Open(ctx, &cfg.Signals, db)
	if err != nil {
		return err
	}
	defer closeQuietly(closerFunc(backing.Close), "signal store")

	var idx feed.EmbeddingIndex
	switch cfg.Index.Backend {
	case "qdrant":
		q, err := index.NewQdrant(cfg.Index.QdrantHost, cfg.Index.QdrantPort, cfg.Index.QdrantCollection)
		if err != nil {
			return err
		}
		defer closeQuietly(q, "qdrant")
		idx = q
	default:
		flat := index.NewFlat()
		if _, err := index.NewRefresher(db, flat, cfg.Index.Detailed()).Refresh(ctx); err != nil {
			return err
		}
		idx = flat
	}

	assembler, err := feed.NewAssembler(feed.ConfigFrom(&cfg.Feed), feed.Deps{
		Users:       db,
		Preferences: backing.Store,
		Dislikes:    backing.Store,
		Index:       idx,
		Catalog:     db,
	}, logging.Logger())
	if err != nil {
		return err
	}

	req := feed.Request{
		UserID:     opts.userID,
		Categories: feed.NewCategorySet(opts.categories...),
		Limit:      opts.limit,
		Weighted:   cfg.Feed.WeightedDefault,
	}
	if req.Limit == 0 {
		req.Limit = cfg.Feed.DefaultLimit
	}
	if opts.weighted != nil {
		req.Weighted = *opts.weighted
	}

	result, err := assembler.Assemble(ctx, req)
	if err != nil {
		return err
	}
	items, err := db.ItemSummaries(ctx, result.Items)
	if err != nil {
		return err
	}

	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(feedOutput{
			UserID:           opts.userID,
			Items:            items,
			SimilarityCount:  result.SimilarityCount,
			ExplorationCount: result.ExplorationCount,
			SeedCount:        result.SeedCount,
			DegradedSeeds:    result.DegradedSeeds,
			Partial:          result.Partial,
		})
	}
	return printFeed(out, items, result)
}

func printFeed(out io.Writer, items []models.ItemSummary, result *feed.Result) error {
	similar := feed.NewItemSet(result.Items[:result.SimilarityCount]...)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tID\tNAME\tCATEGORIES\tSOURCE")
	for i, item := range items {
		source := "exploration"
		if similar.Has(item.ID) {
			source = "similar"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, item.ID, item.Name, strings.Join(item.Categories, ","), source)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "\nseeds=%d degraded=%d similar=%d exploration=%d partial=%t\n",
		result.SeedCount, result.DegradedSeeds, result.SimilarityCount, result.ExplorationCount, result.Partial)
	return err
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
