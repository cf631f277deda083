package dbpools

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReadOnlyDirective makes every later transaction on a session read-only by
// default, including implicit single-statement transactions.
const ReadOnlyDirective = "SET default_transaction_read_only = on"

// ReadOnlySession is a pgxpool AfterConnect hook that runs ReadOnlyDirective
// once on each new physical connection.
func ReadOnlySession(ctx context.Context, conn *pgx.Conn) error {
	if _, err := conn.Exec(ctx, ReadOnlyDirective); err != nil {
		return fmt.Errorf("set session read-only: %w", err)
	}
	return nil
}

// EnforceReadOnly installs ReadOnlySession on cfg, after any AfterConnect
// hook that is already set. Connections the pool opens later, including
// lazily created ones, all receive the directive.
func EnforceReadOnly(cfg *pgxpool.Config) {
	cfg.AfterConnect = chainAfterConnect(cfg.AfterConnect, ReadOnlySession)
}

func chainAfterConnect(
	first, second func(context.Context, *pgx.Conn) error,
) func(context.Context, *pgx.Conn) error {
	if first == nil {
		return second
	}
	return func(ctx context.Context, conn *pgx.Conn) error {
		if err := first(ctx, conn); err != nil {
			return err
		}
		return second(ctx, conn)
	}
}
