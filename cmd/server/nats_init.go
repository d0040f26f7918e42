// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/tomtom215/swipewear/internal/api"
	"github.com/tomtom215/swipewear/internal/config"
	"github.com/tomtom215/swipewear/internal/eventprocessor"
	"github.com/tomtom215/swipewear/internal/logging"
)

// NATSComponents holds the event processing pieces created at startup.
// The catalog runner and the embedded server are handed to the supervisor;
// Shutdown releases the rest.
type NATSComponents struct {
	settings  eventprocessor.Settings
	server    *eventprocessor.EmbeddedServer
	conn      *natsgo.Conn
	streams   *eventprocessor.StreamInitializer
	publisher *eventprocessor.Publisher
	signals   *eventprocessor.SignalPublisher
	runner    *catalogRunner
}

// InitNATS starts the embedded server when configured, makes sure the
// event stream exists and creates the publishers. The catalog consumer is
// attached with AttachCatalogConsumer. Returns nil when NATS is disabled.
func InitNATS(ctx context.Context, cfg *config.NATSConfig, wmLogger watermill.LoggerAdapter) (*NATSComponents, error) {
	if !cfg.Enabled {
		logging.Info().Msg("NATS event processing disabled (NATS_ENABLED=false)")
		return nil, nil
	}

	logging.Info().Msg("Initializing NATS event processing...")
	c := &NATSComponents{settings: eventprocessor.SettingsFromConfig(cfg)}

	natsURL := cfg.URL
	if c.settings.Embedded {
		server, err := eventprocessor.NewEmbeddedServer(&c.settings.Server, 10*time.Second)
		if err != nil {
			return nil, err
		}
		c.server = server
		natsURL = server.ClientURL()
		c.settings.Publisher.URL = natsURL
		c.settings.Subscriber.URL = natsURL
		logging.Info().Str("url", natsURL).Str("store_dir", c.settings.Server.StoreDir).Msg("Embedded NATS server started")
	} else {
		logging.Info().Str("url", natsURL).Msg("Using external NATS server")
	}

	nc, err := natsgo.Connect(natsURL,
		natsgo.Name("swipewear-admin"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2*time.Second),
	)
	if err != nil {
		c.Shutdown(ctx)
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	c.conn = nc

	js, err := jetstream.New(nc)
	if err != nil {
		c.Shutdown(ctx)
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}
	c.streams, err = eventprocessor.NewStreamInitializer(js, &c.settings.Stream)
	if err != nil {
		c.Shutdown(ctx)
		return nil, err
	}
	stream, err := c.streams.EnsureStream(ctx)
	if err != nil {
		c.Shutdown(ctx)
		return nil, fmt.Errorf("ensure stream exists: %w", err)
	}
	info := stream.CachedInfo()
	logging.Info().
		Str("name", info.Config.Name).
		Strs("subjects", info.Config.Subjects).
		Dur("max_age", info.Config.MaxAge).
		Msg("JetStream stream ready")

	c.publisher, err = eventprocessor.NewPublisher(c.settings.Publisher, wmLogger)
	if err != nil {
		c.Shutdown(ctx)
		return nil, err
	}
	c.publisher.SetCircuitBreaker(eventprocessor.NewCircuitBreaker(c.settings.Breaker))
	c.signals = eventprocessor.NewSignalPublisher(c.publisher, c.settings.SignalsTopic)
	logging.Info().Str("topic", c.settings.SignalsTopic).Msg("Signal event publisher created")

	return c, nil
}

// AttachCatalogConsumer prepares the runner that feeds catalog events to
// consumer. Each run creates its own subscriber and router.
func (c *NATSComponents) AttachCatalogConsumer(consumer *eventprocessor.CatalogConsumer, wmLogger watermill.LoggerAdapter) {
	subCfg := c.settings.Subscriber
	subCfg.StreamName = c.settings.Stream.Name
	c.runner = &catalogRunner{
		topic:    c.settings.CatalogTopic,
		router:   c.settings.Router,
		consumer: consumer,
		poison:   eventprocessor.NewPoisonPublisher(c.publisher),
		logger:   wmLogger,
		newSubscriber: func() (message.Subscriber, error) {
			return eventprocessor.NewSubscriber(&subCfg, wmLogger)
		},
	}
}

// ReadinessCheck reports whether the event stream is reachable.
func (c *NATSComponents) ReadinessCheck() api.ReadinessCheck {
	return api.ReadinessCheck{Name: "nats", Check: func(ctx context.Context) error {
		if !c.streams.IsHealthy(ctx) {
			return fmt.Errorf("stream %s unavailable", c.settings.Stream.Name)
		}
		return nil
	}}
}

// Shutdown closes the publisher and the admin connection. The embedded
// server is stopped here only when the supervisor never took it over.
func (c *NATSComponents) Shutdown(ctx context.Context) {
	if c == nil {
		return
	}
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			logging.Warn().Err(err).Msg("Error closing NATS publisher")
		}
	}
	if c.conn != nil {
		c.conn.Close()
	}
	if c.server != nil && c.server.IsRunning() {
		if err := c.server.Shutdown(ctx); err != nil {
			logging.Warn().Err(err).Msg("Error stopping embedded NATS server")
		}
	}
}

// catalogRunner runs the catalog consumer on a fresh subscriber and router
// so the supervisor can restart it after a failure.
type catalogRunner struct {
	topic         string
	router        eventprocessor.RouterConfig
	consumer      *eventprocessor.CatalogConsumer
	poison        message.Publisher
	logger        watermill.LoggerAdapter
	newSubscriber func() (message.Subscriber, error)
}

// Run blocks until ctx is canceled or the router stops.
func (r *catalogRunner) Run(ctx context.Context) error {
	sub, err := r.newSubscriber()
	if err != nil {
		return fmt.Errorf("create catalog subscriber: %w", err)
	}

	router, err := eventprocessor.NewRouter(r.router, r.poison, r.logger)
	if err != nil {
		_ = sub.Close()
		return err
	}
	router.AddConsumerHandler("catalog-consumer", r.topic, sub, r.consumer.Handle)

	logging.Info().Str("topic", r.topic).Msg("Catalog consumer starting")
	err = router.Run(ctx)
	if closeErr := router.Close(); closeErr != nil {
		logging.Warn().Err(closeErr).Msg("Error closing catalog router")
	}
	return err
}
