// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/movie-recommender/internal/logging"
	"github.com/pdiddy/movie-recommender/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the recommendation API over HTTP",
	Long: `Serve exposes POST /recommend, GET /health and GET /metrics. It refuses to
start when the catalog database is missing or the ranking oracle has no API
key; every request-time failure is reported in the response body instead.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8000)")
	serveCmd.Flags().Int("rate-limit", 0, "requests per minute per client IP on /recommend (default 60; 0 disables)")
	serveCmd.Flags().StringSlice("cors-origin", nil, "allowed CORS origin (repeatable; default *)")

	bindFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	bindFlag("server.rate_limit", serveCmd.Flags().Lookup("rate-limit"))
	bindFlag("server.cors_origins", serveCmd.Flags().Lookup("cors-origin"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := appConfig()

	rec, closeStore, err := buildRecommender(cfg)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().
		Str("db", cfg.Store.Path).
		Str("provider", string(cfg.Oracle.Provider)).
		Msg("starting movie-recommender")

	return server.New(cfg.Server, rec).Run(ctx)
}
