// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/swipewear/internal/catalogimport"
	"github.com/tomtom215/swipewear/internal/config"
	"github.com/tomtom215/swipewear/internal/eventprocessor"
	"github.com/tomtom215/swipewear/internal/logging"
	"github.com/tomtom215/swipewear/internal/signals"
)

type importOptions struct {
	catalogimport.Options
	publish     bool
	progressDir string
}

func newImportCmd(a *app) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import PATH",
		Short: "Import an NDJSON catalog file",
		Long: `Import catalog items from a newline-delimited JSON file.

Each line is one item with an optional inline "outfits" array. Items are
written straight into DuckDB, or published to the catalog topic with
--publish so a running server's consumer applies them.

Progress is saved per file under --progress-dir; an interrupted import
resumes after the last completed batch unless --fresh is given.

Examples:
  swipewearctl import catalog.ndjson
  swipewearctl import catalog.ndjson --dry-run
  swipewearctl import catalog.ndjson --publish --progress-dir /data/import`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			return runImport(cmd.Context(), a.cfg, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.publish, "publish", false, "Publish catalog events to NATS instead of writing DuckDB")
	cmd.Flags().IntVar(&opts.BatchSize, "batch-size", 500, "Records per batch")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Validate without writing")
	cmd.Flags().BoolVar(&opts.Fresh, "fresh", false, "Ignore saved progress and start at the first line")
	cmd.Flags().StringVar(&opts.progressDir, "progress-dir", "", "BadgerDB directory for resumable progress (default: in memory)")

	return cmd
}

func runImport(ctx context.Context, cfg *config.Config, opts importOptions, out io.Writer) error {
	var sink catalogimport.Sink
	if opts.publish {
		pub, err := eventprocessor.NewPublisher(
			eventprocessor.DefaultPublisherConfig(cfg.NATS.URL),
			watermill.NewSlogLogger(logging.NewSlogLogger()),
		)
		if err != nil {
			return err
		}
		defer closeQuietly(pub, "publisher")
		sink = catalogimport.NewPublishSink(pub, cfg.NATS.CatalogTopic)
	} else {
		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer closeQuietly(db, "database")
		sink = eventprocessor.NewCatalogConsumer(db, nil, eventprocessor.CatalogConsumerConfig{
			Topic:    cfg.NATS.CatalogTopic,
			Detailed: cfg.Index.Detailed(),
		}, logging.Logger())
	}

	var progress catalogimport.ProgressTracker = catalogimport.NewInMemoryProgress()
	if opts.progressDir != "" {
		pdb, err := signals.OpenBadger(opts.progressDir)
		if err != nil {
			return err
		}
		defer closeQuietly(pdb, "progress store")
		progress = catalogimport.NewBadgerProgress(pdb)
	}

	importer := catalogimport.NewImporter(sink, progress, logging.Logger())
	if _, err := importer.Import(ctx, opts.Options); err != nil {
		return fmt.Errorf("import %s: %w", opts.Path, err)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(importer.GetStats().ToSummary(false))
}
