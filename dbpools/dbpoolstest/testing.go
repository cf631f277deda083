package dbpoolstest

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// setupTimeout bounds how long NewT waits for the read pool to connect.
const setupTimeout = 10 * time.Second

// NewT is New for use inside a test. It fails the test if the read pool
// cannot be created and closes the read pool when the test finishes.
func NewT(t testing.TB, pool *pgxpool.Pool) *Pools {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	pools, err := New(ctx, pool)
	require.NoError(t, err, "Failed to create read-only test pool")

	t.Cleanup(pools.Close)
	return pools
}
