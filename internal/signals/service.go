// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package signals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/swipewear/internal/feed"
	"github.com/tomtom215/swipewear/internal/metrics"
	"github.com/tomtom215/swipewear/internal/models"
)

// ItemChecker reports whether an item exists in the catalog.
type ItemChecker interface {
	ItemExists(ctx context.Context, itemID string) (bool, error)
}

// Publisher receives signal events after a mutation changed state.
// Returning an error never fails the mutation.
type Publisher interface {
	PublishSignal(ctx context.Context, event *models.SignalEvent) error
}

// Service validates and records user signals. It checks that the user and
// item exist, writes through the configured Store, meters every write and
// publishes events for writes that changed state.
type Service struct {
	store     Store
	backend   string
	users     feed.UserResolver
	items     ItemChecker
	publisher Publisher
	now       func() time.Time
	logger    zerolog.Logger
}

// NewService creates a signal service over store. backend labels metrics.
func NewService(store Store, backend string, users feed.UserResolver, items ItemChecker, logger zerolog.Logger) *Service {
	return &Service{
		store:   store,
		backend: backend,
		users:   users,
		items:   items,
		now:     time.Now,
		logger:  logger.With().Str("component", "signals").Logger(),
	}
}

// SetPublisher enables event publishing. nil disables it.
func (s *Service) SetPublisher(p Publisher) {
	s.publisher = p
}

// Store returns the underlying store, which also serves the feed engine.
func (s *Service) Store() Store {
	return s.store
}

func invalid(op, msg string) error {
	return &feed.Error{Op: op, Kind: feed.ErrInvalidArgument, Err: errors.New(msg)}
}

func notFound(op, what, id string) error {
	return &feed.Error{Op: op, Kind: feed.ErrNotFound, Err: fmt.Errorf("%s %q", what, id)}
}

func (s *Service) requireUser(ctx context.Context, op, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return invalid(op, "user id is required")
	}
	ok, err := s.users.UserExists(ctx, userID)
	if err != nil {
		return &feed.Error{Op: op, Kind: feed.ErrServiceUnavailable, Err: err}
	}
	if !ok {
		return notFound(op, "user", userID)
	}
	return nil
}

func (s *Service) requireItem(ctx context.Context, op, itemID string) error {
	if strings.TrimSpace(itemID) == "" {
		return invalid(op, "item id is required")
	}
	ok, err := s.items.ItemExists(ctx, itemID)
	if err != nil {
		return &feed.Error{Op: op, Kind: feed.ErrServiceUnavailable, Err: err}
	}
	if !ok {
		return notFound(op, "item", itemID)
	}
	return nil
}

// write runs a mutation after the existence checks and handles metrics and
// publishing.
func (s *Service) write(ctx context.Context, kind models.SignalKind, userID, itemID string, checkItem bool,
	fn func() (bool, error)) (bool, error) {
	op := string(kind)
	if err := s.requireUser(ctx, op, userID); err != nil {
		return false, err
	}
	if checkItem {
		if err := s.requireItem(ctx, op, itemID); err != nil {
			return false, err
		}
	} else if strings.TrimSpace(itemID) == "" {
		return false, invalid(op, "item id is required")
	}

	changed, err := fn()
	metrics.RecordSignalWrite(op, s.backend, changed, err)
	if err != nil {
		return false, &feed.Error{Op: op, Kind: feed.ErrServiceUnavailable, Err: err}
	}

	if changed {
		s.publish(ctx, kind, userID, itemID)
	}
	return changed, nil
}

func (s *Service) publish(ctx context.Context, kind models.SignalKind, userID, itemID string) {
	if s.publisher == nil {
		return
	}
	event := &models.SignalEvent{
		EventID:    uuid.NewString(),
		Kind:       kind,
		UserID:     userID,
		ItemID:     itemID,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishSignal(ctx, event); err != nil {
		s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("Failed to publish signal event")
	}
}

// Like records a preference and shows it in the closet. A repeated like
// reports false and keeps the original record.
func (s *Service) Like(ctx context.Context, userID, itemID string) (bool, error) {
	return s.write(ctx, models.SignalLike, userID, itemID, true, func() (bool, error) {
		return s.store.Like(ctx, userID, itemID, s.now())
	})
}

// Unlike removes a preference. The item need not exist any more.
func (s *Service) Unlike(ctx context.Context, userID, itemID string) (bool, error) {
	return s.write(ctx, models.SignalUnlike, userID, itemID, false, func() (bool, error) {
		return s.store.Unlike(ctx, userID, itemID)
	})
}

// HideFromCloset hides a liked item from the closet and keeps the
// preference.
func (s *Service) HideFromCloset(ctx context.Context, userID, itemID string) (bool, error) {
	return s.write(ctx, models.SignalClosetHide, userID, itemID, false, func() (bool, error) {
		return s.store.HideFromCloset(ctx, userID, itemID)
	})
}

// Dislike permanently excludes an item from the user's feeds.
func (s *Service) Dislike(ctx context.Context, userID, itemID string) (bool, error) {
	return s.write(ctx, models.SignalDislike, userID, itemID, true, func() (bool, error) {
		return s.store.Dislike(ctx, userID, itemID, s.now())
	})
}

// Closet lists the user's visible likes, most recent first.
func (s *Service) Closet(ctx context.Context, userID string) ([]string, error) {
	if err := s.requireUser(ctx, "closet", userID); err != nil {
		return nil, err
	}
	ids, err := s.store.Closet(ctx, userID)
	if err != nil {
		return nil, &feed.Error{Op: "closet", Kind: feed.ErrServiceUnavailable, Err: err}
	}
	return ids, nil
}

// Dislikes lists the user's dislikes, most recent first.
func (s *Service) Dislikes(ctx context.Context, userID string) ([]string, error) {
	if err := s.requireUser(ctx, "dislikes", userID); err != nil {
		return nil, err
	}
	ids, err := s.store.Dislikes(ctx, userID)
	if err != nil {
		return nil, &feed.Error{Op: "dislikes", Kind: feed.ErrServiceUnavailable, Err: err}
	}
	return ids, nil
}
