package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/janus/dbpools"
	"github.com/phrazzld/janus/internal/config"
	"github.com/phrazzld/janus/internal/platform/postgres"
	"github.com/phrazzld/janus/internal/store"
)

type application struct {
	config *config.Config
	logger *slog.Logger

	pools     *dbpools.DBPools
	noteStore store.NoteStore
}

// newApplication connects both pools, migrates the primary and builds the
// stores. On error nothing is left open.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	pools, err := postgres.NewDBPools(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if err := postgres.Migrate(ctx, pools.Write(), logger); err != nil {
		pools.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return newApplicationWithPools(cfg, logger, pools), nil
}

func newApplicationWithPools(cfg *config.Config, logger *slog.Logger, pools *dbpools.DBPools) *application {
	app := &application{
		config:    cfg,
		logger:    logger,
		pools:     pools,
		noteStore: postgres.NewPostgresNoteStore(pools, logger),
	}
	logger.Info("application initialized", slog.Bool("has_replica", pools.HasReplica()))
	return app
}

// Run serves HTTP until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup closes the pools. It must run after the HTTP server has stopped,
// since Close waits for acquired connections to be released.
func (app *application) cleanup() {
	if app.pools != nil {
		app.pools.Close()
	}
	app.logger.Info("application shutdown completed")
}
