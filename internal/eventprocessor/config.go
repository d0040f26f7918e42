// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package eventprocessor

import (
	"net/url"
	"strconv"
	"time"

	"github.com/tomtom215/swipewear/internal/config"
)

// StreamName is the JetStream stream carrying catalog and signal events.
const StreamName = "SWIPEWEAR_EVENTS"

// ServerConfig holds embedded NATS server configuration.
type ServerConfig struct {
	Host              string
	Port              int
	StoreDir          string
	JetStreamMaxMem   int64
	JetStreamMaxStore int64
}

// DefaultServerConfig returns production defaults for the embedded server.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:              "127.0.0.1",
		Port:              4222,
		StoreDir:          "/data/nats/jetstream",
		JetStreamMaxMem:   256 << 20, // 256MB
		JetStreamMaxStore: 2 << 30,   // 2GB
	}
}

// PublisherConfig holds publisher configuration.
type PublisherConfig struct {
	URL              string
	MaxReconnects    int
	ReconnectWait    time.Duration
	ReconnectBuffer  int
	EnableTrackMsgID bool // nolint:revive // ID is correct per Go conventions
}

// DefaultPublisherConfig returns production defaults for publisher.
func DefaultPublisherConfig(natsURL string) PublisherConfig {
	return PublisherConfig{
		URL:              natsURL,
		MaxReconnects:    -1, // Unlimited
		ReconnectWait:    2 * time.Second,
		ReconnectBuffer:  8 * 1024 * 1024, // 8MB
		EnableTrackMsgID: true,
	}
}

// SubscriberConfig holds subscriber configuration.
type SubscriberConfig struct {
	URL              string
	DurableName      string
	QueueGroup       string
	SubscribersCount int
	AckWaitTimeout   time.Duration
	MaxDeliver       int
	MaxAckPending    int
	CloseTimeout     time.Duration
	MaxReconnects    int
	ReconnectWait    time.Duration
	// StreamName binds the subscriber to an existing stream and disables
	// auto provisioning.
	StreamName string
}

// DefaultSubscriberConfig returns production defaults for subscriber.
func DefaultSubscriberConfig(natsURL string) SubscriberConfig {
	return SubscriberConfig{
		URL:              natsURL,
		DurableName:      "swipewear-catalog",
		QueueGroup:       "swipewear",
		SubscribersCount: 1, // catalog events are applied in order
		AckWaitTimeout:   30 * time.Second,
		MaxDeliver:       5,
		MaxAckPending:    1000,
		CloseTimeout:     30 * time.Second,
		MaxReconnects:    -1,
		ReconnectWait:    2 * time.Second,
		StreamName:       StreamName,
	}
}

// StreamConfig defines the event stream settings.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	MaxBytes        int64
	MaxMsgs         int64
	DuplicateWindow time.Duration
	Replicas        int
}

// DefaultStreamConfig returns the stream covering the given topics.
func DefaultStreamConfig(topics ...string) StreamConfig {
	return StreamConfig{
		Name:            StreamName,
		Subjects:        topics,
		MaxAge:          7 * 24 * time.Hour,
		MaxBytes:        1 << 30, // 1GB
		MaxMsgs:         -1,
		DuplicateWindow: 2 * time.Minute,
		Replicas:        1,
	}
}

// RouterConfig holds message router middleware settings.
type RouterConfig struct {
	CloseTimeout         time.Duration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMultiplier      float64
	// PoisonQueueTopic receives messages that still fail after retries.
	// Empty disables the poison queue.
	PoisonQueueTopic string
}

// DefaultRouterConfig returns production defaults for the router.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         30 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     5 * time.Second,
		RetryMultiplier:      2.0,
	}
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	Name             string
	MaxRequests      uint32        // Allowed in half-open state
	Interval         time.Duration // Reset interval for counts
	Timeout          time.Duration // Time to stay open
	FailureThreshold uint32        // Failures before opening
}

// DefaultCircuitBreakerConfig returns production defaults.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		FailureThreshold: 5,
	}
}

// Settings is the resolved event processing configuration.
type Settings struct {
	Embedded     bool
	Server       ServerConfig
	Publisher    PublisherConfig
	Subscriber   SubscriberConfig
	Stream       StreamConfig
	Router       RouterConfig
	Breaker      CircuitBreakerConfig
	CatalogTopic string
	SignalsTopic string
	DedupTTL     time.Duration
}

// SettingsFromConfig maps the application NATS section onto component
// configurations. For an embedded server the host and port are taken from
// the URL so that clients and server agree.
func SettingsFromConfig(cfg *config.NATSConfig) Settings {
	server := DefaultServerConfig()
	if cfg.StoreDir != "" {
		server.StoreDir = cfg.StoreDir
	}
	if u, err := url.Parse(cfg.URL); err == nil {
		if h := u.Hostname(); h != "" {
			server.Host = h
		}
		if p, err := strconv.Atoi(u.Port()); err == nil {
			server.Port = p
		}
	}

	sub := DefaultSubscriberConfig(cfg.URL)
	if cfg.DurableName != "" {
		sub.DurableName = cfg.DurableName
	}

	router := DefaultRouterConfig()
	if cfg.CatalogTopic != "" {
		router.PoisonQueueTopic = cfg.CatalogTopic + ".poison"
	}

	return Settings{
		Embedded:     cfg.EmbeddedServer,
		Server:       server,
		Publisher:    DefaultPublisherConfig(cfg.URL),
		Subscriber:   sub,
		Stream:       DefaultStreamConfig(cfg.CatalogTopic, cfg.CatalogTopic+".poison", cfg.SignalsTopic),
		Router:       router,
		Breaker:      DefaultCircuitBreakerConfig("nats-publisher"),
		CatalogTopic: cfg.CatalogTopic,
		SignalsTopic: cfg.SignalsTopic,
		DedupTTL:     cfg.DedupTTL,
	}
}
