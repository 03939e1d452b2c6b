package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskflow-api/internal/config"
)

// loadAppConfig loads the application configuration from the environment,
// .env and an optional config file.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// logConfig records the effective configuration without secrets.
func logConfig(cfg *config.Config, logger *slog.Logger) {
	logger.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("environment", cfg.Server.Environment),
		slog.String("database_driver", cfg.Database.Driver),
		slog.Bool("rate_limit_enabled", cfg.RateLimit.Enabled))

	if cfg.Database.URL != "" {
		logger.Debug("Database configuration", slog.Bool("url_present", true))
	}
	if cfg.Auth.JWTSecret != "" {
		logger.Debug("Auth configuration", slog.Bool("jwt_secret_present", true))
	}
}
