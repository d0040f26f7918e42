// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package feed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/swipewear/internal/models"
)

// minElapsed keeps a preference set "now" in the random draw.
const minElapsed = time.Second

// Sampler draws seeds from a user's preferences.
type Sampler struct {
	prefs PreferenceStore
	now   func() time.Time

	// Random source (protected by rngMu for concurrent access)
	rng   *rand.Rand
	rngMu sync.Mutex
}

// NewSampler creates a sampler. A zero seed seeds from the clock; a nil now
// uses time.Now.
func NewSampler(prefs PreferenceStore, seed int64, now func() time.Time) *Sampler {
	if now == nil {
		now = time.Now
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Sampler{
		prefs: prefs,
		now:   now,
		rng:   rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for feed sampling
	}
}

// Sample returns at most k preferred item ids for the user.
//
// In weighted mode every record gets the key elapsed*U(0,1), with elapsed
// clamped to at least one second, and the k smallest keys win. Recent
// preferences are favoured while every record keeps a non-zero chance. In
// unweighted mode the records are shuffled uniformly. An unknown user yields
// an empty sample.
func (s *Sampler) Sample(ctx context.Context, userID string, k int, weighted bool) ([]string, error) {
	if k < 0 {
		return nil, newError("sample", ErrInvalidArgument, fmt.Errorf("k must be non-negative, got %d", k))
	}
	if k == 0 {
		return []string{}, nil
	}

	records, err := s.prefs.ListPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []string{}, nil
		}
		return nil, newError("sample", ErrRetrievalUnavailable, err)
	}
	if len(records) == 0 {
		return []string{}, nil
	}

	var ordered []models.PreferenceRecord
	if weighted {
		ordered = s.weightedOrder(records)
	} else {
		ordered = s.shuffled(records)
	}

	out := make([]string, 0, min(k, len(ordered)))
	for _, rec := range truncateRecords(ordered, k) {
		out = append(out, rec.ItemID)
	}
	return out, nil
}

func (s *Sampler) weightedOrder(records []models.PreferenceRecord) []models.PreferenceRecord {
	now := s.now()

	type keyed struct {
		rec models.PreferenceRecord
		key float64
	}
	keys := make([]keyed, len(records))

	s.rngMu.Lock()
	for i, rec := range records {
		elapsed := now.Sub(rec.SetAt)
		if elapsed < minElapsed {
			elapsed = minElapsed
		}
		keys[i] = keyed{rec: rec, key: elapsed.Seconds() * s.rng.Float64()}
	}
	s.rngMu.Unlock()

	sort.SliceStable(keys, func(i, j int) bool { return keys[i].key < keys[j].key })

	out := make([]models.PreferenceRecord, len(keys))
	for i, k := range keys {
		out[i] = k.rec
	}
	return out
}

func (s *Sampler) shuffled(records []models.PreferenceRecord) []models.PreferenceRecord {
	out := make([]models.PreferenceRecord, len(records))
	copy(out, records)

	s.rngMu.Lock()
	s.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	s.rngMu.Unlock()

	return out
}

func truncateRecords(records []models.PreferenceRecord, n int) []models.PreferenceRecord {
	if len(records) > n {
		return records[:n]
	}
	return records
}
