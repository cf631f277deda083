package dbpools

import "github.com/jackc/pgx/v5/pgxpool"

// Provider selects a connection pool for an operation.
//
// Read returns a pool suitable for non-mutating queries. The returned pool may
// lag behind the primary. Write returns a strongly consistent pool that
// accepts mutations. Reads that lock rows (SELECT ... FOR UPDATE) or that must
// see the caller's own writes go through Write.
//
// Both accessors perform no I/O and are safe for concurrent use. Connection
// failures surface when a query is executed on the returned pool.
type Provider interface {
	Read() *pgxpool.Pool
	Write() *pgxpool.Pool
}
