// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package catalogimport

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/tomtom215/swipewear/internal/models"
)

// maxLineSize bounds one NDJSON line; embeddings make lines long.
const maxLineSize = 8 << 20

// line is the wire form of one record.
type line struct {
	models.Item
	Outfits []models.Outfit `json:"outfits,omitempty"`
}

// Reader reads Records from an NDJSON stream. Blank lines are skipped but
// still counted for line numbers.
type Reader struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int64
}

// OpenFile opens an NDJSON file.
func OpenFile(path string) (*Reader, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	r := NewReader(f)
	r.closer = f
	return r, nil
}

// NewReader reads from r.
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{scanner: scanner}
}

// Close closes the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// ReadBatch returns up to limit records after line afterLine. It returns
// an empty slice at end of input. Lines that fail to decode come back as
// records with Err set.
func (r *Reader) ReadBatch(afterLine int64, limit int) ([]Record, error) {
	out := make([]Record, 0, limit)
	for len(out) < limit && r.scanner.Scan() {
		r.line++
		raw := bytes.TrimSpace(r.scanner.Bytes())
		if len(raw) == 0 || r.line <= afterLine {
			continue
		}

		rec := Record{Line: r.line, Raw: append([]byte(nil), raw...)}
		var l line
		if err := json.Unmarshal(raw, &l); err != nil {
			rec.Err = fmt.Errorf("line %d: %w", r.line, err)
		} else {
			rec.Item = l.Item
			rec.Outfits = l.Outfits
		}
		out = append(out, rec)
	}
	if err := r.scanner.Err(); err != nil {
		return out, fmt.Errorf("read line %d: %w", r.line+1, err)
	}
	return out, nil
}

// CountRecords counts the non-blank lines of the file at path.
func CountRecords(path string) (int64, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only

	return countLines(f)
}

func countLines(r io.Reader) (int64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var n int64
	for scanner.Scan() {
		if len(bytes.TrimSpace(scanner.Bytes())) > 0 {
			n++
		}
	}
	if err := scanner.Err(); err != nil {
		return n, err
	}
	return n, nil
}
