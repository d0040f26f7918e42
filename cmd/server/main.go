// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/tomtom215/swipewear/internal/api"
	"github.com/tomtom215/swipewear/internal/auth"
	"github.com/tomtom215/swipewear/internal/config"
	"github.com/tomtom215/swipewear/internal/database"
	"github.com/tomtom215/swipewear/internal/eventprocessor"
	"github.com/tomtom215/swipewear/internal/feed"
	"github.com/tomtom215/swipewear/internal/logging"
	"github.com/tomtom215/swipewear/internal/signals"
	"github.com/tomtom215/swipewear/internal/supervisor"
	"github.com/tomtom215/swipewear/internal/supervisor/services"
)

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Str("auth_mode", cfg.Security.AuthMode).
		Str("index_backend", cfg.Index.Backend).
		Str("signals_backend", cfg.Signals.Backend).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Msg("Starting Swipewear with supervisor tree")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	store, err := initSignalStore(ctx, &cfg.Signals, db)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize signal store")
	}
	defer func() {
		if err := store.close(); err != nil {
			logging.Error().Err(err).Msg("Error closing signal store")
		}
	}()

	idx, err := initIndex(&cfg.Index, db)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize embedding index")
	}
	defer func() {
		if err := idx.close(); err != nil {
			logging.Error().Err(err).Msg("Error closing embedding index")
		}
	}()

	assembler, err := feed.NewAssembler(feed.ConfigFrom(&cfg.Feed), feed.Deps{
		Users:       db,
		Preferences: store.store,
		Dislikes:    store.store,
		Index:       idx.serving,
		Catalog:     db,
	}, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create feed assembler")
	}

	signalService := signals.NewService(store.store, store.backend, db, db, logging.Logger())

	var jwtManager *auth.JWTManager
	if cfg.Security.AuthMode == auth.ModeJWT {
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		logging.Info().Msg("JWT authentication enabled")
	} else {
		logging.Warn().Msg("Authentication is DISABLED (AUTH_MODE=none); user ids are trusted as given")
	}
	authMiddleware := auth.NewMiddleware(jwtManager, cfg.Security.AuthMode)

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin while authentication is enabled; set CORS_ORIGINS in production")
	}

	wmLogger := watermill.NewSlogLogger(logging.NewSlogLogger())
	natsComponents, err := InitNATS(ctx, &cfg.NATS, wmLogger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize NATS")
	}
	defer natsComponents.Shutdown(context.Background())

	// The publisher must be set before the HTTP server starts serving.
	if natsComponents != nil {
		signalService.SetPublisher(natsComponents.signals)
	}

	var checks []api.ReadinessCheck
	if store.check != nil {
		checks = append(checks, *store.check)
	}
	if idx.check != nil {
		checks = append(checks, *idx.check)
	}
	if natsComponents != nil {
		checks = append(checks, natsComponents.ReadinessCheck())
	}

	handler := api.NewHandler(api.HandlerDeps{
		Catalog:   db,
		Assembler: assembler,
		Signals:   signalService,
		Index:     idx.serving,
		Auth:      authMiddleware,
		Feed:      &cfg.Feed,
		Checks:    checks,
	})

	if natsComponents != nil {
		var writer eventprocessor.IndexWriter
		if idx.flat != nil {
			writer = idx.flat
		}
		consumer := eventprocessor.NewCatalogConsumer(db, writer, eventprocessor.CatalogConsumerConfig{
			Topic:    natsComponents.settings.CatalogTopic,
			Detailed: cfg.Index.Detailed(),
			DedupTTL: natsComponents.settings.DedupTTL,
		}, logging.WithComponent("catalog-consumer"))
		consumer.OnChange(handler.InvalidateItems)
		natsComponents.AttachCatalogConsumer(consumer, wmLogger)
	}

	router := api.NewRouter(handler, authMiddleware, &cfg.Security)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// === SUPERVISOR TREE ===

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if idx.refresher != nil {
		tree.AddIndexService(services.NewIndexRefreshService(idx.refresher, services.IndexRefreshConfig{
			RefreshOnStartup: true,
			Interval:         cfg.Index.RefreshInterval,
		}, logging.WithComponent("index-refresh")))
		logging.Info().Msg("Index refresh service added to supervisor tree")
	}

	if natsComponents != nil {
		if natsComponents.server != nil {
			tree.AddMessagingService(services.NewNATSServerService(natsComponents.server, 10*time.Second))
		}
		tree.AddMessagingService(services.NewEventConsumerService(natsComponents.runner))
		logging.Info().Msg("NATS services added to supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
