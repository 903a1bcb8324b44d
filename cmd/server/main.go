package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/certeo/roster/internal/config"
	"github.com/certeo/roster/internal/logging"
	"github.com/certeo/roster/internal/roster"
	"github.com/certeo/roster/internal/snapshot"
	"github.com/certeo/roster/internal/snapshot/postgres"
	"github.com/certeo/roster/internal/snapshot/sqlite"
	"github.com/certeo/roster/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"snapshot_backend", cfg.Snapshot.Backend,
		"page_size", cfg.View.PageSize,
	)

	ctx := context.Background()

	var saver snapshot.Saver
	switch cfg.Snapshot.Backend {
	case "postgres":
		saver, err = postgres.New(ctx, cfg.Snapshot.PostgresURL)
	default:
		saver, err = sqlite.New(cfg.Snapshot.SQLitePath)
	}
	if err != nil {
		slog.Error("failed to open snapshot store", "backend", cfg.Snapshot.Backend, "error", err)
		os.Exit(1)
	}
	defer saver.Close()

	// Restore the last saved roster; a missing or unreadable snapshot just
	// means an empty roster.
	store := roster.NewStore()
	if records, err := saver.Load(ctx); err != nil {
		slog.Warn("could not restore roster snapshot", "error", err)
	} else if len(records) > 0 {
		store.ReplaceAll(records)
		slog.Info("roster restored", "records", len(records))
	}

	server := web.NewServer(cfg, store, saver)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
