// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

/*
Package main is the entry point for the Swipewear feed server.

Swipewear serves personalized fashion feeds: a user's liked items seed a
nearest-neighbour expansion over item embeddings, topped up with random
exploration. The server also records likes and dislikes and exposes the
catalog.

# Application Architecture

Long-running components run under a Suture v4 supervisor tree:

	RootSupervisor ("swipewear")
	├── IndexSupervisor ("index-layer")
	│   └── Index refresh (flat backend only)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── Embedded NATS server (optional)
	│   └── Catalog event consumer (optional)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Database: DuckDB catalog, users and default signal store
 4. Signal store: duckdb, redis or badger
 5. Embedding index: in-process flat index or Qdrant, behind a circuit breaker
 6. Feed assembler and signal service
 7. NATS (optional): embedded server, JetStream stream, publishers
 8. HTTP Server: Chi router with middleware stack
 9. Supervisor Tree: Suture v4 process supervision

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	HTTP_PORT=8000
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	# Storage
	DUCKDB_PATH=/data/swipewear.duckdb
	SIGNALS_BACKEND=duckdb       # duckdb, redis or badger
	INDEX_BACKEND=flat           # flat or qdrant

	# Authentication
	AUTH_MODE=none               # none or jwt
	JWT_SECRET=<32+ chars>       # Required for JWT mode

	# Events
	NATS_ENABLED=false
	NATS_EMBEDDED=true

See internal/config for the complete reference.

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:
  - Stops accepting new connections
  - Waits for in-flight requests to complete (10s timeout)
  - Stops the catalog consumer and the embedded NATS server
  - Closes the signal store, the index and the database
*/
package main
