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

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const progressKeyPrefix = "import:catalog:progress:"

func progressKey(source string) []byte {
	return []byte(progressKeyPrefix + source)
}

// BadgerProgress implements ProgressTracker on BadgerDB so an interrupted
// import resumes across runs.
type BadgerProgress struct {
	db *badger.DB
}

// NewBadgerProgress creates a progress tracker over db. The caller owns db.
func NewBadgerProgress(db *badger.DB) *BadgerProgress {
	return &BadgerProgress{db: db}
}

// Save persists stats under its Source.
func (p *BadgerProgress) Save(_ context.Context, stats *ImportStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Set(progressKey(stats.Source), data)
	})
}

// Load returns the saved progress for source, or nil, nil.
func (p *BadgerProgress) Load(_ context.Context, source string) (*ImportStats, error) {
	var (
		stats ImportStats
		found bool
	)
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(progressKey(source))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stats)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &stats, nil
}

// Clear removes saved progress for source.
func (p *BadgerProgress) Clear(_ context.Context, source string) error {
	return p.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(progressKey(source))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// InMemoryProgress implements ProgressTracker in memory.
type InMemoryProgress struct {
	mu    sync.Mutex
	stats map[string]ImportStats
}

// NewInMemoryProgress creates an in-memory progress tracker.
func NewInMemoryProgress() *InMemoryProgress {
	return &InMemoryProgress{stats: make(map[string]ImportStats)}
}

// Save stores a copy of stats.
func (p *InMemoryProgress) Save(_ context.Context, stats *ImportStats) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stats[stats.Source] = *stats
	return nil
}

// Load returns a copy of the stored progress, or nil.
func (p *InMemoryProgress) Load(_ context.Context, source string) (*ImportStats, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.stats[source]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// Clear removes the stored progress.
func (p *InMemoryProgress) Clear(_ context.Context, source string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.stats, source)
	return nil
}
