// Package main runs the CleanConnect API server, which lets clients find,
// book and review cleaning providers.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/cleanconnect-api/internal/platform/postgres"
)

func main() {
	migrate := flag.String("migrate", "",
		"run a migration command and exit ("+strings.Join(postgres.MigrationCommands, ", ")+")")
	flag.Parse()

	if err := run(context.Background(), *migrate); err != nil {
		log.Printf("server error: %v", err)
		os.Exit(1)
	}
}

// run loads configuration, connects to the database and either runs a
// migration command or serves HTTP until shutdown.
func run(ctx context.Context, migrate string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if migrate != "" {
		defer func() { _ = db.Close() }()
		if err := postgres.Migrate(ctx, db, migrate, logger); err != nil {
			return err
		}
		logger.Info("migration command completed", slog.String("command", migrate))
		return nil
	}

	app, err := newApplication(ctx, cfg, logger, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return app.Run(ctx)
}
