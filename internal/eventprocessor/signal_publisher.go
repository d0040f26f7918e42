// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package eventprocessor

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/swipewear/internal/models"
)

// SignalPublisher publishes like, unlike, closet-hide and dislike events.
// It satisfies signals.Publisher.
type SignalPublisher struct {
	publisher *Publisher
	topic     string
}

// NewSignalPublisher creates a signal publisher writing to topic.
func NewSignalPublisher(publisher *Publisher, topic string) *SignalPublisher {
	return &SignalPublisher{publisher: publisher, topic: topic}
}

// PublishSignal publishes event. The event id is used as message id so a
// retried publish is deduplicated by the stream.
func (s *SignalPublisher) PublishSignal(ctx context.Context, event *models.SignalEvent) error {
	data, err := MarshalSignalEvent(event)
	if err != nil {
		return err
	}
	msg := message.NewMessage(event.EventID, data)
	msg.Metadata.Set("kind", string(event.Kind))
	msg.Metadata.Set("user_id", event.UserID)
	return s.publisher.Publish(ctx, s.topic, msg)
}
