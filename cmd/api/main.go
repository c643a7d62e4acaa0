package main

import (
	"os"

	"github.com/joho/godotenv"

	"coursefolio/internal/pkg/logger"
	"coursefolio/internal/server"
)

func main() {
	// Local development reads credentials from .env; in deployment the
	// environment is already populated and the file is absent.
	_ = godotenv.Load()

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
