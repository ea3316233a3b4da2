// Command migrate applies the embedded schema migrations to the configured
// PostgreSQL database.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/mlaplante/passvault/internal/config"
	"github.com/mlaplante/passvault/internal/logging"
	"github.com/mlaplante/passvault/internal/repositories/repomanager"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})
	logger := logging.NewSlogLogger(slog.New(handler))

	m, err := repomanager.NewPostgresRepositoryManager(cfg.DatabaseDSN, cfg.EncryptionKey, cfg.AllowedHTMLTags)
	if err != nil {
		logger.Error(ctx, "db init error", "error", err)
		os.Exit(1)
	}
	defer m.Close()

	if err := m.Ping(ctx); err != nil {
		logger.Error(ctx, "database unreachable", "error", err)
		os.Exit(1)
	}

	logger.Info(ctx, "applying migrations")
	if err := m.RunMigrations(ctx); err != nil {
		logger.Error(ctx, "migration error", "error", err)
		os.Exit(1)
	}
	logger.Info(ctx, "migrations applied")
}

func parseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}
