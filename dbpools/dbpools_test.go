package dbpools_test

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phrazzld/janus/dbpools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newLazyPool returns a pool that never connects unless used. The tests
// here only compare handles, so no server is needed.
func newLazyPool(t *testing.T, host string) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), "postgres://janus@"+host+":1/janus?sslmode=disable")
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestNew_RoutesEverythingToPrimary(t *testing.T) {
	t.Parallel()

	primary := newLazyPool(t, "127.0.0.1")
	pools := dbpools.New(primary)

	assert.False(t, pools.HasReplica())
	for i := 0; i < 3; i++ {
		assert.Same(t, primary, pools.Read())
		assert.Same(t, primary, pools.Write())
	}
	assert.Same(t, pools.Read(), pools.Write())
	assert.Same(t, primary, pools.Primary())
}

func TestWithReplica_SplitsReadsAndWrites(t *testing.T) {
	t.Parallel()

	primary := newLazyPool(t, "127.0.0.1")
	replica := newLazyPool(t, "127.0.0.2")
	pools := dbpools.WithReplica(primary, replica)

	assert.True(t, pools.HasReplica())
	for i := 0; i < 3; i++ {
		assert.Same(t, replica, pools.Read())
		assert.Same(t, primary, pools.Write())
		assert.Same(t, primary, pools.Primary(), "legacy accessor must never return the replica")
	}
	assert.NotSame(t, pools.Read(), pools.Write())
}

func TestDBPools_CopiesShareHandles(t *testing.T) {
	t.Parallel()

	primary := newLazyPool(t, "127.0.0.1")
	replica := newLazyPool(t, "127.0.0.2")
	original := dbpools.WithReplica(primary, replica)

	copied := *original

	assert.Same(t, original.Read(), copied.Read())
	assert.Same(t, original.Write(), copied.Write())
}

func TestDBPools_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	primary := newLazyPool(t, "127.0.0.1")
	replica := newLazyPool(t, "127.0.0.2")
	pools := dbpools.WithReplica(primary, replica)

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if pools.Read() != replica {
				errs <- "read returned wrong pool"
			}
			if pools.Write() != primary {
				errs <- "write returned wrong pool"
			}
		}()
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
}

func TestConstructors_PanicOnNil(t *testing.T) {
	t.Parallel()

	pool := newLazyPool(t, "127.0.0.1")

	assert.Panics(t, func() { dbpools.New(nil) })
	assert.Panics(t, func() { dbpools.WithReplica(nil, pool) })
	assert.Panics(t, func() { dbpools.WithReplica(pool, nil) })
	assert.Panics(t, func() { dbpools.FromPool(nil) })
}

func TestClose_WithoutReplica(t *testing.T) {
	t.Parallel()

	primary, err := pgxpool.New(context.Background(), "postgres://janus@127.0.0.1:1/janus")
	require.NoError(t, err)

	pools := dbpools.New(primary)
	assert.NotPanics(t, pools.Close)

	// A closed pool refuses new work.
	_, err = primary.Acquire(context.Background())
	assert.Error(t, err)
}

func TestClose_WithReplica(t *testing.T) {
	t.Parallel()

	primary, err := pgxpool.New(context.Background(), "postgres://janus@127.0.0.1:1/janus")
	require.NoError(t, err)
	replica, err := pgxpool.New(context.Background(), "postgres://janus@127.0.0.2:1/janus")
	require.NoError(t, err)

	dbpools.WithReplica(primary, replica).Close()

	_, err = primary.Acquire(context.Background())
	assert.Error(t, err)
	_, err = replica.Acquire(context.Background())
	assert.Error(t, err)
}

func TestFromPool(t *testing.T) {
	t.Parallel()

	pool := newLazyPool(t, "127.0.0.1")
	var p dbpools.Provider = dbpools.FromPool(pool)

	assert.Same(t, pool, p.Read())
	assert.Same(t, pool, p.Write())
}

// routeOf stands in for application code written against the interface.
func routeOf(p dbpools.Provider, write bool) *pgxpool.Pool {
	if write {
		return p.Write()
	}
	return p.Read()
}

func TestProvider_Substitution(t *testing.T) {
	t.Parallel()

	primary := newLazyPool(t, "127.0.0.1")
	replica := newLazyPool(t, "127.0.0.2")

	providers := map[string]dbpools.Provider{
		"single":       dbpools.FromPool(primary),
		"dbpools":      dbpools.New(primary),
		"with replica": dbpools.WithReplica(primary, replica),
	}

	for name, p := range providers {
		t.Run(name, func(t *testing.T) {
			assert.Same(t, primary, routeOf(p, true), "writes always reach the primary")
			assert.NotNil(t, routeOf(p, false))
		})
	}
}
