// Package main is the entry point for the campsite reservation server.
//
// main() stays minimal — read configuration, create the logger, start the
// application. All actual logic lives in the internal packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/MichelleAaa/nucampsiteserver/internal/server"
)

func main() {
	// A .env file is a development convenience; in production the
	// environment is set by the deployment, so a missing file is fine.
	godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := loadConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Ensure the database directory exists before the driver tries to
	// create the file inside it.
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		logger.Error("failed to create database directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// loadConfig reads the server configuration from the environment.
//
// Required: JWT_SECRET (the server refuses to start without it — every
// auth path depends on it, and a default secret would be a backdoor).
// Everything else has a development-friendly default.
func loadConfig() (server.Config, error) {
	cfg := server.Config{
		Port:                 3000,
		DBPath:               "data/nucampsite.db",
		JWTSecret:            os.Getenv("JWT_SECRET"),
		FacebookClientID:     os.Getenv("FACEBOOK_CLIENT_ID"),
		FacebookClientSecret: os.Getenv("FACEBOOK_CLIENT_SECRET"),
		UploadDir:            "public/images",
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return cfg, &configError{"PORT", portStr}
		}
		cfg.Port = port
	}
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if uploadDir := os.Getenv("UPLOAD_DIR"); uploadDir != "" {
		cfg.UploadDir = uploadDir
	}

	// Comma-separated list of front-end origins allowed credentialed writes,
	// e.g. CORS_ORIGINS=http://localhost:3001,https://nucampsite.example
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
			}
		}
	}

	return cfg, nil
}

// configError names a bad environment value without echoing secrets.
type configError struct {
	key   string
	value string
}

func (e *configError) Error() string {
	return "invalid " + e.key + " value: " + e.value
}
