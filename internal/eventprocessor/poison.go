// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package eventprocessor

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
)

// OriginalUUIDKey holds the failed message's UUID on a poisoned copy.
const OriginalUUIDKey = "original_uuid"

// PoisonPublisher adapts a Publisher to message.Publisher for the router's
// poison queue. Poisoned copies get a fresh UUID and Nats-Msg-Id, otherwise
// the stream's duplicate window would drop them as replays of the original.
type PoisonPublisher struct {
	publisher *Publisher
}

// NewPoisonPublisher wraps publisher. Closing the PoisonPublisher does not
// close publisher.
func NewPoisonPublisher(publisher *Publisher) *PoisonPublisher {
	return &PoisonPublisher{publisher: publisher}
}

// Publish republishes copies of msgs to topic.
func (p *PoisonPublisher) Publish(topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		out := message.NewMessage(watermill.NewUUID(), msg.Payload)
		for k, v := range msg.Metadata {
			if k != natsgo.MsgIdHdr {
				out.Metadata.Set(k, v)
			}
		}
		out.Metadata.Set(OriginalUUIDKey, msg.UUID)

		ctx := msg.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := p.publisher.Publish(ctx, topic, out); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op.
func (p *PoisonPublisher) Close() error {
	return nil
}
