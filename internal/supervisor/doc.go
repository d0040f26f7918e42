// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

/*
Package supervisor provides suture-based process supervision.

The tree has three layers under a root supervisor:

	swipewear
	├── index-layer      IndexRefreshService
	├── messaging-layer  NATSServerService, EventConsumerService
	└── api-layer        HTTPServerService

Each layer restarts its own services with exponential backoff. Events are
logged through sutureslog into the zerolog-backed slog logger from the
logging package:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))
	err = tree.Serve(ctx)

Service wrappers live in the services subpackage.
*/
package supervisor
