// Package dbpoolstest provides a dbpools.Provider for tests whose read pool
// rejects mutating statements.
//
// Both pools connect to the same database, so no replica is needed. The read
// pool runs dbpools.ReadOnlyDirective on every new connection; an INSERT,
// UPDATE, DELETE or DDL statement sent through Read fails with a
// "read-only transaction" error, which turns a routing mistake into a test
// failure.
package dbpoolstest

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/phrazzld/janus/dbpools"
)

// Pools is a test Provider. Write returns the pool passed to New unchanged;
// Read returns a second pool to the same database that is read-only.
type Pools struct {
	write *pgxpool.Pool
	read  *pgxpool.Pool
}

var _ dbpools.Provider = (*Pools)(nil)

// New derives a read-only pool from pool and returns both as a Provider.
//
// The read pool copies pool's configuration (endpoint, credentials,
// MaxConns and existing hooks) and opens its own connections. One connection
// is established before New returns so that an unreachable server or
// rejected credentials fail here as a *dbpools.ConnectError rather than on
// the first query. Nothing is left open on failure.
func New(ctx context.Context, pool *pgxpool.Pool) (*Pools, error) {
	if pool == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("dbpoolstest: pool cannot be nil")
	}

	cfg := pool.Config()
	dbpools.EnforceReadOnly(cfg)

	read, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, &dbpools.ConnectError{Op: "create read pool", Err: err}
	}
	if err := read.Ping(ctx); err != nil {
		read.Close()
		return nil, &dbpools.ConnectError{Op: "ping read pool", Err: err}
	}

	return &Pools{write: pool, read: read}, nil
}

// Read returns the read-only pool.
func (p *Pools) Read() *pgxpool.Pool {
	return p.read
}

// Write returns the unrestricted pool.
func (p *Pools) Write() *pgxpool.Pool {
	return p.write
}

// Close closes the read pool created by New. The write pool belongs to the
// caller and stays open.
func (p *Pools) Close() {
	p.read.Close()
}

// CloseAll closes the write pool and then the read pool.
func (p *Pools) CloseAll() {
	p.write.Close()
	p.read.Close()
}
