// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/swipewear/internal/auth"
	"github.com/tomtom215/swipewear/internal/config"
	"github.com/tomtom215/swipewear/internal/middleware"
)

// Router wires handlers and middleware into a Chi router.
type Router struct {
	handler       *Handler
	middleware    *auth.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil auth middleware disables authentication.
func NewRouter(handler *Handler, authMiddleware *auth.Middleware, security *config.SecurityConfig) *Router {
	if authMiddleware == nil {
		authMiddleware = auth.NewMiddleware(nil, auth.ModeNone)
	}
	return &Router{
		handler:       handler,
		middleware:    authMiddleware,
		chiMiddleware: NewChiMiddleware(ChiMiddlewareConfigFromSecurity(security)),
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(AccessLog())
	r.Use(router.chiMiddleware.CORS()) // must be global to answer OPTIONS preflight
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// ========================
	// Feed, catalog and signals
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(router.middleware.Authenticate))

		r.Route("/items", func(r chi.Router) {
			r.Get("/personalized-feed", router.handler.PersonalizedFeed)
			r.Post("/personalized-feed", router.handler.PersonalizedFeedPost)
			r.Get("/feed", router.handler.CategoryFeed)
			r.Get("/{itemID}", router.handler.GetItem)
			r.Get("/{itemID}/similar", router.handler.SimilarItems)
		})

		r.Get("/categories", router.handler.ListCategories)
		r.Get("/categories/{categoryID}", router.handler.GetCategory)
		r.Get("/outfits/{outfitID}", router.handler.GetOutfit)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitWrite())
			r.Post("/likes", router.handler.Like)
			r.Delete("/likes", router.handler.Unlike)
			r.Post("/likes/closet/hide", router.handler.HideFromCloset)
			r.Post("/preferences", router.handler.Like)
			r.Post("/dislikes", router.handler.Dislike)
		})
		r.Get("/likes/{userID}", router.handler.Closet)
		r.Get("/dislikes/{userID}", router.handler.Dislikes)
	})

	// ========================
	// Prometheus
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	return r
}
