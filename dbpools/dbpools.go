package dbpools

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBPools holds a primary pool and an optional replica pool.
//
// Read returns the replica when one is configured and the primary otherwise.
// Write always returns the primary. A DBPools is immutable after construction
// and may be copied freely; copies share the underlying pools.
type DBPools struct {
	primary *pgxpool.Pool
	replica *pgxpool.Pool
}

var _ Provider = (*DBPools)(nil)

// New returns a DBPools that routes every operation to primary.
func New(primary *pgxpool.Pool) *DBPools {
	if primary == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("dbpools: primary pool cannot be nil")
	}
	return &DBPools{primary: primary}
}

// WithReplica returns a DBPools that routes reads to replica and writes to primary.
func WithReplica(primary, replica *pgxpool.Pool) *DBPools {
	if primary == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("dbpools: primary pool cannot be nil")
	}
	if replica == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("dbpools: replica pool cannot be nil, use New for a single pool")
	}
	return &DBPools{primary: primary, replica: replica}
}

// HasReplica reports whether reads are routed to a separate replica pool.
func (p *DBPools) HasReplica() bool {
	return p.replica != nil
}

// Read returns the replica if present, else the primary.
func (p *DBPools) Read() *pgxpool.Pool {
	if p.replica != nil {
		return p.replica
	}
	return p.primary
}

// Write returns the primary.
func (p *DBPools) Write() *pgxpool.Pool {
	return p.primary
}

// Primary returns the primary pool. It exists for code that predates
// read/write routing and expects a single pool; it never yields the replica.
func (p *DBPools) Primary() *pgxpool.Pool {
	return p.primary
}

// Close closes the primary pool and then the replica pool, if any.
// Each pool's Close blocks until its acquired connections are released, so
// callers must stop issuing queries first.
func (p *DBPools) Close() {
	p.primary.Close()
	if p.replica != nil {
		p.replica.Close()
	}
}

// The methods below let a DBPools stand in for a single pool. They always use
// the primary so legacy call sites cannot send a write to the replica.

// Exec runs sql on the primary.
func (p *DBPools) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.primary.Exec(ctx, sql, args...)
}

// Query runs sql on the primary.
func (p *DBPools) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return p.primary.Query(ctx, sql, args...)
}

// QueryRow runs sql on the primary.
func (p *DBPools) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return p.primary.QueryRow(ctx, sql, args...)
}

// Begin starts a transaction on the primary.
func (p *DBPools) Begin(ctx context.Context) (pgx.Tx, error) {
	return p.primary.Begin(ctx)
}

// BeginTx starts a transaction with txOptions on the primary.
func (p *DBPools) BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error) {
	return p.primary.BeginTx(ctx, txOptions)
}

// Ping checks the primary.
func (p *DBPools) Ping(ctx context.Context) error {
	return p.primary.Ping(ctx)
}
