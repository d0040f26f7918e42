// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/thejerf/suture/v4"
)

// EventRunner is a restartable event consumer. Run blocks until ctx is
// canceled or consumption fails; each call sets up its own subscription.
type EventRunner interface {
	Run(ctx context.Context) error
}

// EventConsumerService supervises the catalog event consumer.
type EventConsumerService struct {
	runner EventRunner
	name   string
}

// NewEventConsumerService wraps runner.
func NewEventConsumerService(runner EventRunner) *EventConsumerService {
	return &EventConsumerService{runner: runner, name: "catalog-consumer"}
}

// Serve implements suture.Service. A nil return from Run while ctx is
// still live is reported as an error so the supervisor restarts it.
func (s *EventConsumerService) Serve(ctx context.Context) error {
	err := s.runner.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		return errors.New("catalog consumer stopped unexpectedly")
	}
	return fmt.Errorf("catalog consumer failed: %w", err)
}

func (s *EventConsumerService) String() string {
	return s.name
}

// NATSServer is the embedded NATS server lifecycle.
type NATSServer interface {
	IsRunning() bool
	Shutdown(ctx context.Context) error
}

// NATSServerService owns an already started embedded server: it watches
// that the server stays up and shuts it down with the tree.
type NATSServerService struct {
	server          NATSServer
	checkInterval   time.Duration
	shutdownTimeout time.Duration
	name            string
}

// NewNATSServerService wraps server.
func NewNATSServerService(server NATSServer, shutdownTimeout time.Duration) *NATSServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &NATSServerService{
		server:          server,
		checkInterval:   5 * time.Second,
		shutdownTimeout: shutdownTimeout,
		name:            "nats-server",
	}
}

// Serve implements suture.Service. The server cannot be restarted in
// place, so a stopped server is reported and marked done.
func (s *NATSServerService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
			defer cancel()
			if err := s.server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("nats server shutdown failed: %w", err)
			}
			return ctx.Err()
		case <-ticker.C:
			if !s.server.IsRunning() {
				return fmt.Errorf("embedded nats server stopped: %w", suture.ErrDoNotRestart)
			}
		}
	}
}

func (s *NATSServerService) String() string {
	return s.name
}
