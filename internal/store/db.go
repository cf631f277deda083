package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is an interface that abstracts the database access layer.
// It is implemented by *pgxpool.Pool, pgx.Tx and *dbpools.DBPools, allowing
// store code to work with a pool, a transaction or the legacy single-pool
// surface of DBPools.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Beginner starts transactions. *pgxpool.Pool and *dbpools.DBPools satisfy it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
