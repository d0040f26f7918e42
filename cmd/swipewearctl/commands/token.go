// Swipewear - Personalized Fashion Feed Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/swipewear

package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/swipewear/internal/auth"
	"github.com/tomtom215/swipewear/internal/config"
)

func newTokenCmd(a *app) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token USER_ID",
		Short: "Mint a bearer token for a user",
		Long: `Sign a JWT whose subject is USER_ID with the configured JWT_SECRET.

The token authorizes requests for that user's feed, likes and closet.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToken(&a.cfg.Security, args[0], ttl, cmd.OutOrStdout())
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultTokenTTL, "Token lifetime")
	return cmd
}

func runToken(cfg *config.SecurityConfig, userID string, ttl time.Duration, out io.Writer) error {
	m, err := auth.NewJWTManager(cfg)
	if err != nil {
		return err
	}
	token, err := m.GenerateToken(userID, ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
