package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phrazzld/janus/dbpools"
	"github.com/phrazzld/janus/internal/config"
	"github.com/phrazzld/janus/internal/redact"
)

// PoolOption customizes a pool before it is created.
type PoolOption func(*poolOptions)

type poolOptions struct {
	name           string
	maxConns       int32
	minConns       int32
	connectTimeout time.Duration
	readOnly       bool
	logger         *slog.Logger
}

// WithName labels the pool in log output.
func WithName(name string) PoolOption {
	return func(o *poolOptions) { o.name = name }
}

// WithMaxConns bounds the number of open connections. Zero keeps the value
// parsed from the URL or the pgxpool default.
func WithMaxConns(n int32) PoolOption {
	return func(o *poolOptions) { o.maxConns = n }
}

// WithMinConns keeps at least n connections open.
func WithMinConns(n int32) PoolOption {
	return func(o *poolOptions) { o.minConns = n }
}

// WithConnectTimeout bounds each connection attempt.
func WithConnectTimeout(d time.Duration) PoolOption {
	return func(o *poolOptions) { o.connectTimeout = d }
}

// WithReadOnlySession makes every connection in the pool reject writes.
func WithReadOnlySession() PoolOption {
	return func(o *poolOptions) { o.readOnly = true }
}

// WithLogger sets the logger used while building the pool.
func WithLogger(l *slog.Logger) PoolOption {
	return func(o *poolOptions) { o.logger = l }
}

// NewPool parses url, applies opts, creates the pool and verifies it with a
// ping. Every failure is a *dbpools.ConnectError.
func NewPool(ctx context.Context, url string, opts ...PoolOption) (*pgxpool.Pool, error) {
	o := poolOptions{name: "primary", logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger.With(slog.String("pool", o.name))

	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, &dbpools.ConnectError{Op: "parse " + o.name + " config", Err: err}
	}

	if o.maxConns > 0 {
		poolConfig.MaxConns = o.maxConns
	}
	if o.minConns > 0 {
		poolConfig.MinConns = min(o.minConns, poolConfig.MaxConns)
	}
	if o.connectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = o.connectTimeout
	}
	if o.readOnly {
		dbpools.EnforceReadOnly(poolConfig)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, &dbpools.ConnectError{Op: "create " + o.name + " pool", Err: err}
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &dbpools.ConnectError{Op: "ping " + o.name + " pool", Err: err}
	}

	log.Info("database pool established",
		slog.String("url", redact.URL(url)),
		slog.Int("max_conns", int(poolConfig.MaxConns)),
		slog.Bool("read_only", o.readOnly))

	return pool, nil
}

// NewDBPools builds the primary pool and, when cfg names one, the replica
// pool. If the replica cannot be reached the primary is closed again.
func NewDBPools(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*dbpools.DBPools, error) {
	if logger == nil {
		logger = slog.Default()
	}

	primary, err := NewPool(ctx, cfg.PrimaryURL,
		WithName("primary"),
		WithMaxConns(cfg.MaxConns),
		WithMinConns(cfg.MinConns),
		WithConnectTimeout(cfg.ConnectTimeout),
		WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to primary database: %w", err)
	}

	if !cfg.HasReplica() {
		if cfg.ReplicaReadOnly {
			logger.Warn("replica_read_only has no effect without a replica; reads use the primary")
		}
		return dbpools.New(primary), nil
	}

	replicaOpts := []PoolOption{
		WithName("replica"),
		WithMaxConns(cfg.EffectiveReplicaMaxConns()),
		WithMinConns(cfg.MinConns),
		WithConnectTimeout(cfg.ConnectTimeout),
		WithLogger(logger),
	}
	if cfg.ReplicaReadOnly {
		replicaOpts = append(replicaOpts, WithReadOnlySession())
	}

	replica, err := NewPool(ctx, cfg.ReplicaURL, replicaOpts...)
	if err != nil {
		primary.Close()
		return nil, fmt.Errorf("failed to connect to replica database: %w", err)
	}

	return dbpools.WithReplica(primary, replica), nil
}
