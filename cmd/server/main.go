package main

import (
	"fmt"
	"os"

	"github.com/manas-foundation/manas-admin/internal/config"
	"github.com/manas-foundation/manas-admin/internal/logger"
	"github.com/manas-foundation/manas-admin/internal/server"
)

var version = "dev" // Will be set during build with -ldflags

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(cfg.Logging.Level, cfg.Logging.Format, "manas-admin")
	log := logger.GetLogger()

	srv, err := server.New(cfg, log, version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	log.Info().
		Str("version", version).
		Str("api", cfg.API.BaseURL).
		Bool("fallback_admin", cfg.Gate.FallbackEmail != "").
		Msg("Starting MANAS admin dashboard...")

	// Start HTTP server (this blocks)
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
