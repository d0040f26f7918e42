// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package signals

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/swipewear/internal/feed"
	"github.com/tomtom215/swipewear/internal/models"
)

// Key prefixes. User and item ids are joined with a NUL byte so a user id
// can never be a prefix of another user's keys.
const (
	prefKeyPrefix    = "pref:"
	closetKeyPrefix  = "closet:"
	dislikeKeyPrefix = "dislike:"
	keySep           = "\x00"
)

type signalValue struct {
	At time.Time `json:"at"`
}

// BadgerStore keeps signals in an embedded BadgerDB. Preference and
// dislike values hold the signal time; closet keys mark visible likes.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadger opens a BadgerDB at path. An empty path opens an in-memory
// database.
func OpenBadger(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %q: %w", path, err)
	}
	return db, nil
}

// NewBadgerStore wraps an open BadgerDB. The caller owns db.
func NewBadgerStore(db *badger.DB) *BadgerStore {
	return &BadgerStore{db: db}
}

func userPrefix(prefix, userID string) []byte {
	return []byte(prefix + userID + keySep)
}

func signalKey(prefix, userID, itemID string) []byte {
	return []byte(prefix + userID + keySep + itemID)
}

// setIfAbsent writes a signal value unless the key exists. Reports whether
// it wrote.
func setIfAbsent(txn *badger.Txn, key []byte, at time.Time) (bool, error) {
	_, err := txn.Get(key)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, badger.ErrKeyNotFound) {
		return false, err
	}
	data, err := json.Marshal(signalValue{At: at.UTC()})
	if err != nil {
		return false, fmt.Errorf("marshal signal: %w", err)
	}
	return true, txn.Set(key, data)
}

// deleteIfPresent removes key and reports whether it existed.
func deleteIfPresent(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, txn.Delete(key)
}

// Like implements Store.
func (s *BadgerStore) Like(_ context.Context, userID, itemID string, at time.Time) (bool, error) {
	var added bool
	err := s.db.Update(func(txn *badger.Txn) error {
		var err error
		added, err = setIfAbsent(txn, signalKey(prefKeyPrefix, userID, itemID), at)
		if err != nil || !added {
			return err
		}
		return txn.Set(signalKey(closetKeyPrefix, userID, itemID), []byte{})
	})
	if err != nil {
		return false, fmt.Errorf("like %s: %w", itemID, err)
	}
	return added, nil
}

// Unlike implements Store.
func (s *BadgerStore) Unlike(_ context.Context, userID, itemID string) (bool, error) {
	var removed bool
	err := s.db.Update(func(txn *badger.Txn) error {
		var err error
		if removed, err = deleteIfPresent(txn, signalKey(prefKeyPrefix, userID, itemID)); err != nil {
			return err
		}
		_, err = deleteIfPresent(txn, signalKey(closetKeyPrefix, userID, itemID))
		return err
	})
	if err != nil {
		return false, fmt.Errorf("unlike %s: %w", itemID, err)
	}
	return removed, nil
}

// HideFromCloset implements Store.
func (s *BadgerStore) HideFromCloset(_ context.Context, userID, itemID string) (bool, error) {
	var hidden bool
	err := s.db.Update(func(txn *badger.Txn) error {
		var err error
		hidden, err = deleteIfPresent(txn, signalKey(closetKeyPrefix, userID, itemID))
		return err
	})
	if err != nil {
		return false, fmt.Errorf("hide %s: %w", itemID, err)
	}
	return hidden, nil
}

// Dislike implements Store.
func (s *BadgerStore) Dislike(_ context.Context, userID, itemID string, at time.Time) (bool, error) {
	var added bool
	err := s.db.Update(func(txn *badger.Txn) error {
		var err error
		added, err = setIfAbsent(txn, signalKey(dislikeKeyPrefix, userID, itemID), at)
		return err
	})
	if err != nil {
		return false, fmt.Errorf("dislike %s: %w", itemID, err)
	}
	return added, nil
}

type timedID struct {
	id string
	at time.Time
}

// scan visits every signal under prefix for the user.
func scan(txn *badger.Txn, prefix, userID string, values bool, fn func(itemID string, v signalValue) error) error {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = values
	it := txn.NewIterator(opts)
	defer it.Close()

	p := userPrefix(prefix, userID)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		item := it.Item()
		itemID := string(item.Key()[len(p):])
		var v signalValue
		if values {
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &v)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", item.Key(), err)
			}
		}
		if err := fn(itemID, v); err != nil {
			return err
		}
	}
	return nil
}

// newestFirst orders by time descending, then id ascending.
func newestFirst(entries []timedID) []string {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].at.Equal(entries[j].at) {
			return entries[i].at.After(entries[j].at)
		}
		return entries[i].id < entries[j].id
	})
	ids := make([]string, len(entries))
	for i := range entries {
		ids[i] = entries[i].id
	}
	return ids
}

// ListPreferences implements feed.PreferenceStore.
func (s *BadgerStore) ListPreferences(_ context.Context, userID string) ([]models.PreferenceRecord, error) {
	out := []models.PreferenceRecord{}
	err := s.db.View(func(txn *badger.Txn) error {
		visible := feed.NewItemSet()
		if err := scan(txn, closetKeyPrefix, userID, false, func(itemID string, _ signalValue) error {
			visible.Add(itemID)
			return nil
		}); err != nil {
			return err
		}
		return scan(txn, prefKeyPrefix, userID, true, func(itemID string, v signalValue) error {
			out = append(out, models.PreferenceRecord{
				UserID:       userID,
				ItemID:       itemID,
				SetAt:        v.At,
				ShowInCloset: visible.Has(itemID),
			})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].SetAt.Equal(out[j].SetAt) {
			return out[i].SetAt.After(out[j].SetAt)
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out, nil
}

func (s *BadgerStore) idSet(prefix, userID string) (feed.ItemSet, error) {
	set := feed.NewItemSet()
	err := s.db.View(func(txn *badger.Txn) error {
		return scan(txn, prefix, userID, false, func(itemID string, _ signalValue) error {
			set.Add(itemID)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// PreferredSet implements feed.PreferenceStore.
func (s *BadgerStore) PreferredSet(_ context.Context, userID string) (feed.ItemSet, error) {
	set, err := s.idSet(prefKeyPrefix, userID)
	if err != nil {
		return nil, fmt.Errorf("preferred set: %w", err)
	}
	return set, nil
}

// DislikedSet implements feed.DislikeStore.
func (s *BadgerStore) DislikedSet(_ context.Context, userID string) (feed.ItemSet, error) {
	set, err := s.idSet(dislikeKeyPrefix, userID)
	if err != nil {
		return nil, fmt.Errorf("disliked set: %w", err)
	}
	return set, nil
}

// Closet implements Store.
func (s *BadgerStore) Closet(ctx context.Context, userID string) ([]string, error) {
	records, err := s.ListPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(records))
	for i := range records {
		if records[i].ShowInCloset {
			ids = append(ids, records[i].ItemID)
		}
	}
	return ids, nil
}

// Dislikes implements Store.
func (s *BadgerStore) Dislikes(_ context.Context, userID string) ([]string, error) {
	var entries []timedID
	err := s.db.View(func(txn *badger.Txn) error {
		return scan(txn, dislikeKeyPrefix, userID, true, func(itemID string, v signalValue) error {
			entries = append(entries, timedID{id: itemID, at: v.At})
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("dislikes: %w", err)
	}
	return newestFirst(entries), nil
}

var _ Store = (*BadgerStore)(nil)
