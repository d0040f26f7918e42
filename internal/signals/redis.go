// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package signals

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/swipewear/internal/feed"
	"github.com/tomtom215/swipewear/internal/models"
)

// likeScript adds the preference only when absent and makes it visible in
// the closet in the same step.
var likeScript = redis.NewScript(`
local added = redis.call('ZADD', KEYS[1], 'NX', ARGV[1], ARGV[2])
if added == 1 then
  redis.call('SADD', KEYS[2], ARGV[2])
end
return added
`)

// RedisStore keeps signals in Redis:
//
//	<prefix>:prefs:<user>     ZSET item -> set time (unix seconds)
//	<prefix>:closet:<user>    SET  visible liked items
//	<prefix>:dislikes:<user>  ZSET item -> dislike time (unix seconds)
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore connects to addr and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int, prefix string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrUnavailable, addr, err)
	}
	return NewRedisStoreWithClient(client, prefix), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "swipewear"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) prefsKey(userID string) string    { return s.prefix + ":prefs:" + userID }
func (s *RedisStore) closetKey(userID string) string   { return s.prefix + ":closet:" + userID }
func (s *RedisStore) dislikesKey(userID string) string { return s.prefix + ":dislikes:" + userID }

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: redis %s: %v", ErrUnavailable, op, err)
}

func toScore(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}

func fromScore(score float64) time.Time {
	return time.UnixMicro(int64(math.Round(score * 1e6))).UTC()
}

// Like implements Store.
func (s *RedisStore) Like(ctx context.Context, userID, itemID string, at time.Time) (bool, error) {
	added, err := likeScript.Run(ctx, s.client,
		[]string{s.prefsKey(userID), s.closetKey(userID)},
		toScore(at), itemID).Int64()
	if err != nil {
		return false, unavailable("like", err)
	}
	return added == 1, nil
}

// Unlike implements Store.
func (s *RedisStore) Unlike(ctx context.Context, userID, itemID string) (bool, error) {
	var removed *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.ZRem(ctx, s.prefsKey(userID), itemID)
		pipe.SRem(ctx, s.closetKey(userID), itemID)
		return nil
	})
	if err != nil {
		return false, unavailable("unlike", err)
	}
	return removed.Val() > 0, nil
}

// HideFromCloset implements Store.
func (s *RedisStore) HideFromCloset(ctx context.Context, userID, itemID string) (bool, error) {
	n, err := s.client.SRem(ctx, s.closetKey(userID), itemID).Result()
	if err != nil {
		return false, unavailable("hide", err)
	}
	return n > 0, nil
}

// Dislike implements Store.
func (s *RedisStore) Dislike(ctx context.Context, userID, itemID string, at time.Time) (bool, error) {
	n, err := s.client.ZAddNX(ctx, s.dislikesKey(userID), redis.Z{Score: toScore(at), Member: itemID}).Result()
	if err != nil {
		return false, unavailable("dislike", err)
	}
	return n > 0, nil
}

// ListPreferences implements feed.PreferenceStore.
func (s *RedisStore) ListPreferences(ctx context.Context, userID string) ([]models.PreferenceRecord, error) {
	var (
		prefs  *redis.ZSliceCmd
		closet *redis.StringSliceCmd
	)
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		prefs = pipe.ZRevRangeWithScores(ctx, s.prefsKey(userID), 0, -1)
		closet = pipe.SMembers(ctx, s.closetKey(userID))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, unavailable("list preferences", err)
	}

	visible := feed.NewItemSet(closet.Val()...)
	out := make([]models.PreferenceRecord, 0, len(prefs.Val()))
	for _, z := range prefs.Val() {
		itemID, ok := z.Member.(string)
		if !ok {
			continue
		}
		out = append(out, models.PreferenceRecord{
			UserID:       userID,
			ItemID:       itemID,
			SetAt:        fromScore(z.Score),
			ShowInCloset: visible.Has(itemID),
		})
	}
	return out, nil
}

// PreferredSet implements feed.PreferenceStore.
func (s *RedisStore) PreferredSet(ctx context.Context, userID string) (feed.ItemSet, error) {
	ids, err := s.client.ZRange(ctx, s.prefsKey(userID), 0, -1).Result()
	if err != nil {
		return nil, unavailable("preferred set", err)
	}
	return feed.NewItemSet(ids...), nil
}

// DislikedSet implements feed.DislikeStore.
func (s *RedisStore) DislikedSet(ctx context.Context, userID string) (feed.ItemSet, error) {
	ids, err := s.client.ZRange(ctx, s.dislikesKey(userID), 0, -1).Result()
	if err != nil {
		return nil, unavailable("disliked set", err)
	}
	return feed.NewItemSet(ids...), nil
}

// Closet implements Store.
func (s *RedisStore) Closet(ctx context.Context, userID string) ([]string, error) {
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
func (s *RedisStore) Dislikes(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.client.ZRevRange(ctx, s.dislikesKey(userID), 0, -1).Result()
	if err != nil {
		return nil, unavailable("dislikes", err)
	}
	return ids, nil
}

// Ping checks connectivity for readiness probes.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Close releases the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
