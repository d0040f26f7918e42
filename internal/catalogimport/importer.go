// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package catalogimport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/swipewear/internal/models"
)

// ErrImportRunning is returned when Import is called while another import
// is active on the same Importer.
var ErrImportRunning = errors.New("import already in progress")

// Sink receives catalog upsert events.
// eventprocessor.CatalogConsumer implements it.
type Sink interface {
	Apply(ctx context.Context, event *models.CatalogEvent) error
}

// ProgressTracker persists import progress per source file.
type ProgressTracker interface {
	// Save persists the current import progress.
	Save(ctx context.Context, stats *ImportStats) error

	// Load retrieves the last saved progress for source, or nil.
	Load(ctx context.Context, source string) (*ImportStats, error)

	// Clear removes saved progress for source.
	Clear(ctx context.Context, source string) error
}

// Options configures one import.
type Options struct {
	Path      string
	BatchSize int
	DryRun    bool
	// Fresh ignores saved progress and starts at the first line.
	Fresh bool
}

// Importer loads NDJSON catalog files into a Sink.
type Importer struct {
	sink     Sink
	progress ProgressTracker
	mapper   *Mapper
	logger   zerolog.Logger

	mu       sync.RWMutex
	running  bool
	stats    *ImportStats
	stopChan chan struct{}
}

// NewImporter creates an importer. progress may be nil.
func NewImporter(sink Sink, progress ProgressTracker, logger zerolog.Logger) *Importer {
	return &Importer{
		sink:     sink,
		progress: progress,
		mapper:   NewMapper(),
		logger:   logger.With().Str("component", "catalog-import").Logger(),
		stopChan: make(chan struct{}),
	}
}

// Import reads opts.Path and applies every valid record. Decode and
// validation failures are skipped; sink failures are counted as errors and
// do not stop the import.
func (i *Importer) Import(ctx context.Context, opts Options) (*ImportStats, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 500
	}

	i.mu.Lock()
	if i.running {
		i.mu.Unlock()
		return nil, ErrImportRunning
	}
	i.running = true
	i.stats = &ImportStats{Source: opts.Path, StartTime: time.Now(), DryRun: opts.DryRun}
	stopChan := i.stopChan
	i.mu.Unlock()

	defer func() {
		i.mu.Lock()
		i.running = false
		i.stats.EndTime = time.Now()
		i.mu.Unlock()
	}()

	total, err := CountRecords(opts.Path)
	if err != nil {
		return i.GetStats(), err
	}
	i.mu.Lock()
	i.stats.TotalRecords = total
	i.mu.Unlock()

	startLine := i.resumeLine(ctx, opts)

	reader, err := OpenFile(opts.Path)
	if err != nil {
		return i.GetStats(), err
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			i.logger.Warn().Err(closeErr).Msg("Error closing import file")
		}
	}()

	i.logger.Info().
		Str("source", opts.Path).
		Int64("total_records", total).
		Int64("start_line", startLine).
		Bool("dry_run", opts.DryRun).
		Msg("Starting import")

	if err := i.processAllBatches(ctx, reader, startLine, opts, stopChan); err != nil {
		return i.GetStats(), err
	}

	stats := i.GetStats()
	if i.progress != nil && !opts.DryRun && stats.Errors == 0 {
		if err := i.progress.Clear(ctx, opts.Path); err != nil {
			i.logger.Warn().Err(err).Msg("Failed to clear import progress")
		}
	}

	i.logger.Info().
		Int64("imported", stats.Imported).
		Int64("skipped", stats.Skipped).
		Int64("errors", stats.Errors).
		Dur("duration", stats.Duration()).
		Msg("Import completed")
	return stats, nil
}

// resumeLine returns the line after which to start. Saved progress counts
// only when the previous run did not finish.
func (i *Importer) resumeLine(ctx context.Context, opts Options) int64 {
	if i.progress == nil {
		return 0
	}
	if opts.Fresh {
		if err := i.progress.Clear(ctx, opts.Path); err != nil {
			i.logger.Warn().Err(err).Msg("Failed to clear import progress")
		}
		return 0
	}
	prev, err := i.progress.Load(ctx, opts.Path)
	if err != nil {
		i.logger.Warn().Err(err).Msg("Failed to load import progress, starting from the beginning")
		return 0
	}
	if prev == nil {
		return 0
	}

	i.mu.Lock()
	i.stats.Processed = prev.Processed
	i.stats.Imported = prev.Imported
	i.stats.Skipped = prev.Skipped
	i.stats.Errors = prev.Errors
	i.stats.LastLine = prev.LastLine
	i.mu.Unlock()
	i.logger.Info().Int64("last_line", prev.LastLine).Msg("Resuming import")
	return prev.LastLine
}

func (i *Importer) processAllBatches(ctx context.Context, reader *Reader, startLine int64, opts Options, stopChan <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopChan:
			return errors.New("import canceled")
		default:
		}

		records, err := reader.ReadBatch(startLine, opts.BatchSize)
		if len(records) > 0 {
			i.processBatchAndUpdateStats(ctx, records, opts)
		}
		if err != nil {
			return fmt.Errorf("read batch: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
	}
}

func (i *Importer) processBatchAndUpdateStats(ctx context.Context, records []Record, opts Options) {
	imported, skipped, failed := i.processBatch(ctx, records, opts.DryRun)

	i.mu.Lock()
	i.stats.Processed += int64(len(records))
	i.stats.Imported += int64(imported)
	i.stats.Skipped += int64(skipped)
	i.stats.Errors += int64(failed)
	i.stats.LastLine = records[len(records)-1].Line
	stats := *i.stats
	i.mu.Unlock()

	if i.progress != nil && !opts.DryRun {
		if err := i.progress.Save(ctx, &stats); err != nil {
			i.logger.Warn().Err(err).Msg("Failed to save progress")
		}
	}

	i.logger.Info().
		Float64("progress_percent", stats.Progress()).
		Int64("processed", stats.Processed).
		Int64("total_records", stats.TotalRecords).
		Int64("imported", stats.Imported).
		Int64("skipped", stats.Skipped).
		Int64("errors", stats.Errors).
		Float64("records_per_second", stats.RecordsPerSecond()).
		Msg("Import progress")
}

func (i *Importer) processBatch(ctx context.Context, records []Record, dryRun bool) (imported, skipped, failed int) {
	valid, skipped := i.mapper.FilterValidRecords(records, func(rec *Record, err error) {
		i.logger.Warn().Err(err).Int64("line", rec.Line).Msg("Skipping invalid record")
	})

	for idx := range valid {
		if dryRun {
			imported++
			continue
		}
		event := i.mapper.ToCatalogEvent(&valid[idx])
		if err := i.sink.Apply(ctx, event); err != nil {
			i.logger.Error().Err(err).Int64("line", valid[idx].Line).Str("item_id", event.ItemID).Msg("Failed to import record")
			failed++
			continue
		}
		imported++
	}
	return imported, skipped, failed
}

// Stop cancels a running import.
func (i *Importer) Stop() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.running {
		return errors.New("no import in progress")
	}
	close(i.stopChan)
	i.stopChan = make(chan struct{})
	return nil
}

// GetStats returns a copy of the current statistics.
func (i *Importer) GetStats() *ImportStats {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.stats == nil {
		return &ImportStats{}
	}
	stats := *i.stats
	return &stats
}

// IsRunning reports whether an import is in progress.
func (i *Importer) IsRunning() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.running
}
