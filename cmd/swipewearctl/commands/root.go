// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tomtom215/swipewear/internal/config"
	"github.com/tomtom215/swipewear/internal/database"
	"github.com/tomtom215/swipewear/internal/logging"
)

// app carries state shared by every subcommand. cfg is populated by the
// root command's PersistentPreRunE.
type app struct {
	envFile string
	cfg     *config.Config
}

// NewRootCmd creates the swipewearctl root command.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "swipewearctl",
		Short: "Operate a Swipewear catalog and feed",
		Long: `swipewearctl works directly against the stores a Swipewear server uses.

Configuration is read the same way the server reads it: defaults, then
config.yaml, then environment variables. A dotenv file is loaded first
when present.

Examples:
  swipewearctl import catalog.ndjson
  swipewearctl embed --detailed --limit 1000
  swipewearctl index sync
  swipewearctl feed user-42 --limit 20 --category TOPS
  swipewearctl token user-42 --ttl 1h`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.load()
		},
	}

	cmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "Dotenv file loaded before configuration")

	cmd.AddCommand(
		newImportCmd(a),
		newEmbedCmd(a),
		newIndexCmd(a),
		newFeedCmd(a),
		newTokenCmd(a),
		NewVersionCmd(),
	)
	return cmd
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func (a *app) load() error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", a.envFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	a.cfg = cfg
	return nil
}

func openDB(cfg *config.Config) (*database.DB, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.Database.Path, err)
	}
	return db, nil
}

func closeQuietly(closer interface{ Close() error }, what string) {
	if err := closer.Close(); err != nil {
		logging.Warn().Err(err).Str("resource", what).Msg("Close failed")
	}
}
