// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package feed_test

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/tomtom215/swipewear/internal/feed"
	"github.com/tomtom215/swipewear/internal/index"
	"github.com/tomtom215/swipewear/internal/models"
)

// fakeStore implements the user, preference, dislike and catalog stores.
type fakeStore struct {
	mu       sync.Mutex
	users    map[string]bool
	prefs    map[string][]models.PreferenceRecord
	dislikes map[string]feed.ItemSet
	items    []*models.Item
	rng      *rand.Rand

	userErr      error
	listErr      error
	preferredErr error
	dislikeErr   error
	sampleErr    error

	storeCalls int
}

func newFakeStore(items []*models.Item) *fakeStore {
	return &fakeStore{
		users:    map[string]bool{"u1": true},
		prefs:    make(map[string][]models.PreferenceRecord),
		dislikes: make(map[string]feed.ItemSet),
		items:    items,
		rng:      rand.New(rand.NewSource(7)), //nolint:gosec // test randomness
	}
}

func (s *fakeStore) touch() {
	s.mu.Lock()
	s.storeCalls++
	s.mu.Unlock()
}

func (s *fakeStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storeCalls
}

func (s *fakeStore) like(userID, itemID string, at time.Time) {
	s.prefs[userID] = append(s.prefs[userID], models.PreferenceRecord{UserID: userID, ItemID: itemID, SetAt: at, ShowInCloset: true})
}

func (s *fakeStore) dislike(userID, itemID string) {
	if s.dislikes[userID] == nil {
		s.dislikes[userID] = feed.NewItemSet()
	}
	s.dislikes[userID].Add(itemID)
}

func (s *fakeStore) UserExists(_ context.Context, userID string) (bool, error) {
	s.touch()
	if s.userErr != nil {
		return false, s.userErr
	}
	return s.users[userID], nil
}

func (s *fakeStore) ListPreferences(_ context.Context, userID string) ([]models.PreferenceRecord, error) {
	s.touch()
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.prefs[userID], nil
}

func (s *fakeStore) PreferredSet(_ context.Context, userID string) (feed.ItemSet, error) {
	s.touch()
	if s.preferredErr != nil {
		return nil, s.preferredErr
	}
	set := feed.NewItemSet()
	for _, p := range s.prefs[userID] {
		set.Add(p.ItemID)
	}
	return set, nil
}

func (s *fakeStore) DislikedSet(_ context.Context, userID string) (feed.ItemSet, error) {
	s.touch()
	if s.dislikeErr != nil {
		return nil, s.dislikeErr
	}
	return feed.NewItemSet(s.dislikes[userID].Slice()...), nil
}

func (s *fakeStore) RandomSample(_ context.Context, exclude feed.ItemSet, filter feed.CategorySet, limit int) ([]string, error) {
	s.touch()
	if s.sampleErr != nil {
		return nil, s.sampleErr
	}

	var eligible []string
	for _, it := range s.items {
		if exclude.Has(it.ID) || !filter.Matches(it.Categories) {
			continue
		}
		eligible = append(eligible, it.ID)
	}

	s.mu.Lock()
	s.rng.Shuffle(len(eligible), func(i, j int) { eligible[i], eligible[j] = eligible[j], eligible[i] })
	s.mu.Unlock()

	if len(eligible) > limit {
		eligible = eligible[:limit]
	}
	return eligible, nil
}

func (s *fakeStore) categoriesOf(id string) []string {
	for _, it := range s.items {
		if it.ID == id {
			return it.Categories
		}
	}
	return nil
}

// failingIndex always reports the backend as down.
type failingIndex struct{ err error }

func (f failingIndex) KNN(context.Context, string, int, feed.ItemSet, feed.CategorySet) ([]string, error) {
	return nil, f.err
}

// flatFrom indexes every item that has a coarse embedding.
func flatFrom(items []*models.Item) *index.Flat {
	f := index.NewFlat()
	for _, it := range items {
		if e, ok := index.EntryFromItem(it, false); ok {
			f.Upsert(e)
		}
	}
	return f
}
