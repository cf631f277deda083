package dbpools

import "github.com/jackc/pgx/v5/pgxpool"

// Single adapts one pool to the Provider interface. Read and Write both
// return the wrapped pool.
type Single struct {
	pool *pgxpool.Pool
}

var _ Provider = Single{}

// FromPool wraps pool as a Provider.
func FromPool(pool *pgxpool.Pool) Single {
	if pool == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("dbpools: pool cannot be nil")
	}
	return Single{pool: pool}
}

// Read returns the wrapped pool.
func (s Single) Read() *pgxpool.Pool { return s.pool }

// Write returns the wrapped pool.
func (s Single) Write() *pgxpool.Pool { return s.pool }
