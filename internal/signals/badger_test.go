// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package signals

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestBadgerStore(t *testing.T) Store {
	t.Helper()
	db, err := OpenBadger("")
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewBadgerStore(db)
}

func TestBadgerStoreContract(t *testing.T) {
	runStoreContract(t, newTestBadgerStore)
}

func TestBadgerStoreUserPrefixIsolation(t *testing.T) {
	t.Parallel()
	s := newTestBadgerStore(t)
	ctx := context.Background()
	now := time.Now()

	if _, err := s.Like(ctx, "u1", "a", now); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Like(ctx, "u10", "b", now); err != nil {
		t.Fatal(err)
	}

	set, err := s.PreferredSet(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(set) != 1 || !set.Has("a") {
		t.Errorf("PreferredSet(u1) = %v, want [a]", set.Slice())
	}
}

func TestBadgerStorePersists(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "signals")
	ctx := context.Background()
	at := time.Date(2026, 5, 1, 8, 30, 0, 0, time.UTC)

	db, err := OpenBadger(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewBadgerStore(db).Like(ctx, "u1", "a", at); err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db, err = OpenBadger(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	prefs, err := NewBadgerStore(db).ListPreferences(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(prefs) != 1 || !prefs[0].SetAt.Equal(at) || !prefs[0].ShowInCloset {
		t.Errorf("ListPreferences() after reopen = %+v", prefs)
	}
}

func TestNewestFirst(t *testing.T) {
	t.Parallel()
	t0 := time.Unix(100, 0)
	got := newestFirst([]timedID{
		{id: "b", at: t0},
		{id: "c", at: t0.Add(time.Second)},
		{id: "a", at: t0},
	})
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("newestFirst() = %v, want %v", got, want)
		}
	}
}
