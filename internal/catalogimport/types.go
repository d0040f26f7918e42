// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package catalogimport

import (
	"time"

	"github.com/tomtom215/swipewear/internal/models"
)

// Record is one parsed NDJSON line.
type Record struct {
	// Line is the 1-based line number in the source file.
	Line int64
	// Raw is the line as read, used to derive the event id.
	Raw []byte

	Item    models.Item
	Outfits []models.Outfit

	// Err is set when the line could not be decoded.
	Err error
}

// ImportStats holds statistics about an import operation.
type ImportStats struct {
	// Source is the imported file.
	Source string `json:"source"`

	// TotalRecords is the number of non-blank lines in the file.
	TotalRecords int64 `json:"total_records"`

	// Processed is the number of records processed (including skipped).
	Processed int64 `json:"processed"`

	// Imported is the number of records handed to the sink successfully.
	Imported int64 `json:"imported"`

	// Skipped is the number of records that failed decoding or validation.
	Skipped int64 `json:"skipped"`

	// Errors is the number of records the sink rejected.
	Errors int64 `json:"errors"`

	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// LastLine is the last line number processed.
	LastLine int64 `json:"last_line"`

	// DryRun indicates that nothing was written.
	DryRun bool `json:"dry_run"`
}

// Duration returns the duration of the import operation.
func (s *ImportStats) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Progress returns the import progress as a percentage (0-100).
func (s *ImportStats) Progress() float64 {
	if s.TotalRecords == 0 {
		return 0
	}
	return float64(s.Processed) / float64(s.TotalRecords) * 100
}

// RecordsPerSecond returns the import rate.
func (s *ImportStats) RecordsPerSecond() float64 {
	duration := s.Duration().Seconds()
	if duration == 0 {
		return 0
	}
	return float64(s.Processed) / duration
}

// ProgressSummary is the printable form of ImportStats.
type ProgressSummary struct {
	Status         string    `json:"status"`
	Source         string    `json:"source"`
	Progress       float64   `json:"progress"`
	TotalRecords   int64     `json:"total_records"`
	Processed      int64     `json:"processed"`
	Imported       int64     `json:"imported"`
	Skipped        int64     `json:"skipped"`
	Errors         int64     `json:"errors"`
	RecordsPerSec  float64   `json:"records_per_second"`
	ElapsedSeconds float64   `json:"elapsed_seconds"`
	StartTime      time.Time `json:"start_time"`
	LastLine       int64     `json:"last_line"`
	DryRun         bool      `json:"dry_run"`
}

// ToSummary converts ImportStats to a ProgressSummary.
func (s *ImportStats) ToSummary(running bool) *ProgressSummary {
	summary := &ProgressSummary{
		Source:         s.Source,
		Progress:       s.Progress(),
		TotalRecords:   s.TotalRecords,
		Processed:      s.Processed,
		Imported:       s.Imported,
		Skipped:        s.Skipped,
		Errors:         s.Errors,
		RecordsPerSec:  s.RecordsPerSecond(),
		ElapsedSeconds: s.Duration().Seconds(),
		StartTime:      s.StartTime,
		LastLine:       s.LastLine,
		DryRun:         s.DryRun,
	}

	switch {
	case running:
		summary.Status = "running"
	case s.EndTime.IsZero():
		summary.Status = "pending"
	case s.Errors > 0:
		summary.Status = "completed_with_errors"
	default:
		summary.Status = "completed"
	}
	return summary
}
