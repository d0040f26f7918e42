// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package catalogimport

import (
	"context"

	"github.com/tomtom215/swipewear/internal/models"
)

// CatalogPublisher publishes catalog events.
// *eventprocessor.Publisher implements it.
type CatalogPublisher interface {
	PublishCatalogEvent(ctx context.Context, topic string, event *models.CatalogEvent) error
}

// PublishSink is a Sink that publishes every event to a topic.
type PublishSink struct {
	publisher CatalogPublisher
	topic     string
}

// NewPublishSink creates a sink publishing to topic.
func NewPublishSink(publisher CatalogPublisher, topic string) *PublishSink {
	return &PublishSink{publisher: publisher, topic: topic}
}

// Apply publishes event.
func (s *PublishSink) Apply(ctx context.Context, event *models.CatalogEvent) error {
	return s.publisher.PublishCatalogEvent(ctx, s.topic, event)
}
