package main

import (
	"os"

	"github.com/yigit/courseapi/internal/pkg/logger"
	"github.com/yigit/courseapi/internal/server"
)

// @title Course API
// @version 1.0
// @description CRUD API for courses and students with token authentication

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token returned by /auth/login

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Setup errors are already logged in detail by the bootstrap functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
