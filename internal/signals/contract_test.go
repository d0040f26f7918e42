// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package signals

import (
	"context"
	"reflect"
	"testing"
	"time"
)

// runStoreContract exercises the behaviour every Store must share.
// newStore must return an empty store.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("like is idempotent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		changed, err := s.Like(ctx, "u1", "a", base)
		if err != nil || !changed {
			t.Fatalf("first Like() = %v, %v", changed, err)
		}
		changed, err = s.Like(ctx, "u1", "a", base.Add(time.Hour))
		if err != nil || changed {
			t.Fatalf("second Like() = %v, %v; want false", changed, err)
		}

		prefs, err := s.ListPreferences(ctx, "u1")
		if err != nil {
			t.Fatal(err)
		}
		if len(prefs) != 1 {
			t.Fatalf("ListPreferences() = %+v", prefs)
		}
		if !prefs[0].SetAt.Equal(base) || !prefs[0].ShowInCloset {
			t.Errorf("record = %+v, want original time and visible", prefs[0])
		}
	})

	t.Run("preferences newest first", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		for i, id := range []string{"a", "b", "c"} {
			if _, err := s.Like(ctx, "u1", id, base.Add(time.Duration(i)*time.Minute)); err != nil {
				t.Fatal(err)
			}
		}
		if _, err := s.Like(ctx, "u10", "z", base); err != nil {
			t.Fatal(err)
		}

		prefs, err := s.ListPreferences(ctx, "u1")
		if err != nil {
			t.Fatal(err)
		}
		var ids []string
		for _, p := range prefs {
			ids = append(ids, p.ItemID)
			if p.UserID != "u1" {
				t.Errorf("record for wrong user: %+v", p)
			}
		}
		if !reflect.DeepEqual(ids, []string{"c", "b", "a"}) {
			t.Errorf("order = %v, want [c b a]", ids)
		}

		set, err := s.PreferredSet(ctx, "u1")
		if err != nil {
			t.Fatal(err)
		}
		if len(set) != 3 || set.Has("z") {
			t.Errorf("PreferredSet() = %v", set.Slice())
		}
	})

	t.Run("hide keeps preference", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		if _, err := s.Like(ctx, "u1", "a", base); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Like(ctx, "u1", "b", base.Add(time.Second)); err != nil {
			t.Fatal(err)
		}

		hidden, err := s.HideFromCloset(ctx, "u1", "a")
		if err != nil || !hidden {
			t.Fatalf("HideFromCloset() = %v, %v", hidden, err)
		}
		hidden, err = s.HideFromCloset(ctx, "u1", "a")
		if err != nil || hidden {
			t.Errorf("second HideFromCloset() = %v, %v", hidden, err)
		}

		closet, err := s.Closet(ctx, "u1")
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(closet, []string{"b"}) {
			t.Errorf("Closet() = %v, want [b]", closet)
		}
		set, err := s.PreferredSet(ctx, "u1")
		if err != nil {
			t.Fatal(err)
		}
		if !set.Has("a") {
			t.Error("hidden like dropped from PreferredSet")
		}

		// Re-liking a hidden item is still a no-op.
		changed, err := s.Like(ctx, "u1", "a", base.Add(time.Hour))
		if err != nil || changed {
			t.Errorf("Like() after hide = %v, %v", changed, err)
		}
	})

	t.Run("unlike removes record", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		if _, err := s.Like(ctx, "u1", "a", base); err != nil {
			t.Fatal(err)
		}

		removed, err := s.Unlike(ctx, "u1", "a")
		if err != nil || !removed {
			t.Fatalf("Unlike() = %v, %v", removed, err)
		}
		removed, err = s.Unlike(ctx, "u1", "a")
		if err != nil || removed {
			t.Errorf("second Unlike() = %v, %v", removed, err)
		}
		closet, err := s.Closet(ctx, "u1")
		if err != nil || len(closet) != 0 {
			t.Errorf("Closet() = %v, %v", closet, err)
		}

		// A fresh like after unlike is visible again.
		changed, err := s.Like(ctx, "u1", "a", base.Add(time.Hour))
		if err != nil || !changed {
			t.Errorf("Like() after unlike = %v, %v", changed, err)
		}
		closet, err = s.Closet(ctx, "u1")
		if err != nil || !reflect.DeepEqual(closet, []string{"a"}) {
			t.Errorf("Closet() = %v, %v", closet, err)
		}
	})

	t.Run("dislikes", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		changed, err := s.Dislike(ctx, "u1", "x", base)
		if err != nil || !changed {
			t.Fatalf("Dislike() = %v, %v", changed, err)
		}
		changed, err = s.Dislike(ctx, "u1", "x", base.Add(time.Hour))
		if err != nil || changed {
			t.Errorf("repeated Dislike() = %v, %v", changed, err)
		}
		if _, err := s.Dislike(ctx, "u1", "y", base.Add(time.Minute)); err != nil {
			t.Fatal(err)
		}

		set, err := s.DislikedSet(ctx, "u1")
		if err != nil {
			t.Fatal(err)
		}
		if len(set) != 2 || !set.Has("x") || !set.Has("y") {
			t.Errorf("DislikedSet() = %v", set.Slice())
		}
		list, err := s.Dislikes(ctx, "u1")
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(list, []string{"y", "x"}) {
			t.Errorf("Dislikes() = %v, want [y x]", list)
		}
	})

	t.Run("unknown user is empty", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		prefs, err := s.ListPreferences(ctx, "ghost")
		if err != nil || len(prefs) != 0 {
			t.Errorf("ListPreferences() = %v, %v", prefs, err)
		}
		set, err := s.DislikedSet(ctx, "ghost")
		if err != nil || len(set) != 0 {
			t.Errorf("DislikedSet() = %v, %v", set, err)
		}
	})
}
