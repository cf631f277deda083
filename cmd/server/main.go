// Package main implements the notes server: a small HTTP API whose reads go
// to a replica pool when one is configured and whose writes always go to the
// primary.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/janus/internal/config"
	"github.com/phrazzld/janus/internal/platform/logger"
	"github.com/phrazzld/janus/internal/redact"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", slog.String("error", redact.Error(err)))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("replica_configured", cfg.Database.HasReplica()),
		slog.Bool("replica_read_only", cfg.Database.ReplicaReadOnly))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.cleanup()

	return app.Run(ctx)
}
