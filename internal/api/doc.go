// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

/*
Package api provides the HTTP REST API for Swipewear.

Routes are served by a Chi router (see Router.SetupChi) and every response
uses the models.APIResponse envelope encoded with goccy/go-json.

Endpoint groups:

  - /api/v1/health/live, /api/v1/health/ready: probes, no authentication
  - /api/v1/items/personalized-feed: the personalized feed (GET and POST)
  - /api/v1/items/feed: random category feed
  - /api/v1/items/{itemID}, /api/v1/items/{itemID}/similar: catalog reads
  - /api/v1/categories, /api/v1/outfits/{outfitID}: catalog reads
  - /api/v1/likes, /api/v1/preferences, /api/v1/dislikes: user signals
  - /metrics: Prometheus exposition

Middleware stack, outermost first:

	RequestIDWithLogging -> RealIP -> Recoverer -> CORS -> Compress
	  /api/v1: RateLimit -> APISecurityHeaders -> PrometheusMetrics -> Authenticate

Error mapping is centralised in respondFeedError: feed.ErrNotFound is 404,
feed.ErrInvalidArgument 400, feed.ErrServiceUnavailable 503 and anything
else 500. In JWT mode, acting on another user's data is 403.

Example:

	handler := api.NewHandler(api.HandlerDeps{Catalog: db, Assembler: assembler, ...})
	router := api.NewRouter(handler, authMiddleware, &cfg.Security)
	http.ListenAndServe(":8000", router.SetupChi())
*/
package api
