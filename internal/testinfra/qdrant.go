// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultQdrantImage is the Qdrant image used by index tests.
	DefaultQdrantImage = "qdrant/qdrant:v1.16.2"

	// DefaultQdrantGRPCPort is Qdrant's gRPC port.
	DefaultQdrantGRPCPort = "6334"

	// DefaultQdrantHTTPPort is Qdrant's REST port, used for readiness.
	DefaultQdrantHTTPPort = "6333"
)

// QdrantContainer is a running Qdrant server reachable over gRPC.
type QdrantContainer struct {
	testcontainers.Container
	Host string
	Port int
}

// StartQdrant starts a Qdrant container.
func StartQdrant(ctx context.Context) (*QdrantContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        DefaultQdrantImage,
		ExposedPorts: []string{DefaultQdrantGRPCPort + "/tcp", DefaultQdrantHTTPPort + "/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(DefaultQdrantGRPCPort+"/tcp"),
			wait.ForHTTP("/readyz").WithPort(DefaultQdrantHTTPPort+"/tcp"),
		).WithStartupTimeout(90 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create qdrant container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}
	mapped, err := container.MappedPort(ctx, DefaultQdrantGRPCPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}
	port, err := strconv.Atoi(mapped.Port())
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("parse mapped port %q: %w", mapped.Port(), err)
	}

	return &QdrantContainer{Container: container, Host: host, Port: port}, nil
}
