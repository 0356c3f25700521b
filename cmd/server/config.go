package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/cleanconnect-api/internal/config"
)

// loadAppConfig loads the application configuration from .env, config.yaml
// and the environment.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)
	if cfg.Redis.Enabled() {
		slog.Debug("Redis configuration", "addr_present", true)
	}

	return cfg, nil
}
