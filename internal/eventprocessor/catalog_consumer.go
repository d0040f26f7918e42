// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/swipewear/internal/cache"
	"github.com/tomtom215/swipewear/internal/database"
	"github.com/tomtom215/swipewear/internal/index"
	"github.com/tomtom215/swipewear/internal/metrics"
	"github.com/tomtom215/swipewear/internal/models"
)

// CatalogWriter is the catalog store the consumer applies events to.
type CatalogWriter interface {
	UpsertItem(ctx context.Context, item *models.Item) error
	UpsertOutfit(ctx context.Context, o *models.Outfit) error
	DeleteItem(ctx context.Context, id string) (bool, error)
	GetItem(ctx context.Context, id string) (*models.Item, error)
}

// IndexWriter is the in-process vector index kept in step with the catalog.
type IndexWriter interface {
	Upsert(e index.Entry)
	Delete(id string)
}

// CatalogConsumerConfig configures a CatalogConsumer.
type CatalogConsumerConfig struct {
	Topic string
	// Detailed selects the detailed embedding for the index.
	Detailed  bool
	DedupSize int
	DedupTTL  time.Duration
}

// CatalogConsumer applies catalog events to the store and the index.
//
// Events are deduplicated on EventID. An id is remembered only after the
// event was applied, so a failed attempt is retried on redelivery.
// Malformed events are counted and acknowledged without retry.
type CatalogConsumer struct {
	store    CatalogWriter
	index    IndexWriter
	cfg      CatalogConsumerConfig
	dedup    *cache.LRU[string, struct{}]
	onChange func(itemIDs ...string)
	logger   zerolog.Logger
}

// NewCatalogConsumer creates a consumer. idx may be nil when a remote index
// is used; the remote index is synced separately.
func NewCatalogConsumer(store CatalogWriter, idx IndexWriter, cfg CatalogConsumerConfig, logger zerolog.Logger) *CatalogConsumer {
	return &CatalogConsumer{
		store:  store,
		index:  idx,
		cfg:    cfg,
		dedup:  cache.NewLRU[string, struct{}]("catalog_event_dedup", cfg.DedupSize, cfg.DedupTTL),
		logger: logger.With().Str("component", "catalog_consumer").Logger(),
	}
}

// OnChange registers a hook called with the ids of items an event changed.
func (c *CatalogConsumer) OnChange(fn func(itemIDs ...string)) {
	c.onChange = fn
}

// Handle is the Watermill handler. Returning an error nacks the message.
func (c *CatalogConsumer) Handle(msg *message.Message) error {
	start := time.Now()
	metrics.RecordNATSConsume(c.cfg.Topic)

	event, err := UnmarshalCatalogEvent(msg.Payload)
	if err != nil {
		metrics.RecordNATSParseFailed(c.cfg.Topic)
		c.logger.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Dropping malformed catalog event")
		return nil
	}

	if _, seen := c.dedup.Get(event.EventID); seen {
		c.logger.Debug().Str("event_id", event.EventID).Msg("Skipping duplicate catalog event")
		return nil
	}

	if err := c.Apply(msg.Context(), event); err != nil {
		if errors.Is(err, database.ErrInvalidItem) {
			metrics.RecordNATSParseFailed(c.cfg.Topic)
			c.logger.Warn().Err(err).Str("event_id", event.EventID).Msg("Dropping invalid catalog item")
			return nil
		}
		return err
	}

	c.dedup.Add(event.EventID, struct{}{})
	metrics.RecordNATSProcessed(c.cfg.Topic, time.Since(start))
	return nil
}

// Apply writes one event through to the store and the index.
func (c *CatalogConsumer) Apply(ctx context.Context, event *models.CatalogEvent) error {
	switch event.Type {
	case models.CatalogItemUpserted:
		return c.upsert(ctx, event)
	case models.CatalogItemDeleted:
		return c.delete(ctx, event.ItemID)
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, event.Type)
	}
}

func (c *CatalogConsumer) upsert(ctx context.Context, event *models.CatalogEvent) error {
	if err := c.store.UpsertItem(ctx, event.Item); err != nil {
		return fmt.Errorf("upsert item %s: %w", event.ItemID, err)
	}
	for i := range event.Outfits {
		if err := c.store.UpsertOutfit(ctx, &event.Outfits[i]); err != nil {
			return fmt.Errorf("upsert outfit %s: %w", event.Outfits[i].ID, err)
		}
	}

	if c.index != nil {
		// Reload so a kept embedding and the stored sequence are indexed.
		stored, err := c.store.GetItem(ctx, event.ItemID)
		if err != nil {
			return fmt.Errorf("reload item %s: %w", event.ItemID, err)
		}
		if entry, ok := index.EntryFromItem(stored, c.cfg.Detailed); ok {
			c.index.Upsert(entry)
		} else {
			c.index.Delete(event.ItemID)
		}
	}

	c.logger.Debug().Str("item_id", event.ItemID).Int("outfits", len(event.Outfits)).Msg("Applied catalog upsert")
	c.changed(event.ItemID)
	return nil
}

func (c *CatalogConsumer) delete(ctx context.Context, itemID string) error {
	deleted, err := c.store.DeleteItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("delete item %s: %w", itemID, err)
	}
	if c.index != nil {
		c.index.Delete(itemID)
	}
	c.logger.Debug().Str("item_id", itemID).Bool("existed", deleted).Msg("Applied catalog delete")
	c.changed(itemID)
	return nil
}

func (c *CatalogConsumer) changed(ids ...string) {
	if c.onChange != nil {
		c.onChange(ids...)
	}
}
