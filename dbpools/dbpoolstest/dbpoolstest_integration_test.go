//go:build integration

package dbpoolstest_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phrazzld/janus/dbpools"
	"github.com/phrazzld/janus/dbpools/dbpoolstest"
	"github.com/phrazzld/janus/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireReadOnlyError asserts err is the database rejecting a write in a
// read-only transaction.
func requireReadOnlyError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err, "read pool should reject the statement")
	assert.True(t, dbpools.IsReadOnlyViolation(err), "expected SQLSTATE 25006, got: %v", err)
	assert.Contains(t, err.Error(), "read-only transaction")
}

// scratchTable creates a regular table through the write pool and drops it
// at cleanup. Temporary tables are per session and would be invisible to
// the second pool.
func scratchTable(t *testing.T, pools dbpools.Provider) string {
	t.Helper()

	name := testdb.UniqueDatabaseName("scratch")
	ctx := testdb.Context(t)
	_, err := pools.Write().Exec(ctx, fmt.Sprintf("CREATE TABLE %s (id INT)", name))
	require.NoError(t, err, "write pool should allow CREATE TABLE")

	t.Cleanup(func() {
		_, _ = pools.Write().Exec(context.Background(), "DROP TABLE IF EXISTS "+name)
	})
	return name
}

func TestPools_ReadAllowsSelects(t *testing.T) {
	pools := dbpoolstest.NewT(t, testdb.Pool(t))

	var sum int
	err := pools.Read().QueryRow(testdb.Context(t), "SELECT 1 + 1 AS sum").Scan(&sum)
	require.NoError(t, err, "read pool should allow SELECT")
	assert.Equal(t, 2, sum)
}

// TestPools_MutationsRouteByPool sends each mutating statement through Read,
// expects the read-only error, then sends the identical statement through
// Write and expects success. DROP runs last so the table outlives the rest.
func TestPools_MutationsRouteByPool(t *testing.T) {
	pools := dbpoolstest.NewT(t, testdb.Pool(t))
	table := scratchTable(t, pools)
	created := testdb.UniqueDatabaseName("created")
	ctx := testdb.Context(t)

	t.Cleanup(func() {
		_, _ = pools.Write().Exec(context.Background(), "DROP TABLE IF EXISTS "+created)
	})

	statements := []struct {
		name string
		sql  string
	}{
		{"insert", fmt.Sprintf("INSERT INTO %s VALUES (1)", table)},
		{"update", fmt.Sprintf("UPDATE %s SET id = 2", table)},
		{"delete", fmt.Sprintf("DELETE FROM %s WHERE id = 2", table)},
		{"create table", fmt.Sprintf("CREATE TABLE %s (id INT)", created)},
		{"create temp table", "CREATE TEMP TABLE test_read_reject (id INT)"},
		{"alter table", fmt.Sprintf("ALTER TABLE %s ADD COLUMN name TEXT", table)},
		{"drop table", "DROP TABLE " + table},
	}

	for _, stmt := range statements {
		t.Run(stmt.name, func(t *testing.T) {
			_, err := pools.Read().Exec(ctx, stmt.sql)
			requireReadOnlyError(t, err)

			_, err = pools.Write().Exec(ctx, stmt.sql)
			require.NoError(t, err, "write pool should allow %s", stmt.name)
		})
	}

	var exists bool
	require.NoError(t, pools.Read().QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_tables WHERE tablename = $1)", table).Scan(&exists))
	assert.False(t, exists, "the write pool dropped the table")
}

// TestPools_WriteTransactionIsolated writes inside a rolled-back transaction
// on the write pool; the read pool never sees the row.
func TestPools_WriteTransactionIsolated(t *testing.T) {
	pools := dbpoolstest.NewT(t, testdb.Pool(t))
	table := scratchTable(t, pools)
	ctx := testdb.Context(t)

	testdb.WithTx(t, pools.Write(), func(t *testing.T, tx pgx.Tx) {
		_, err := tx.Exec(ctx, fmt.Sprintf("INSERT INTO %s VALUES (1)", table))
		require.NoError(t, err, "write pool transaction should allow INSERT")

		var inTx int64
		require.NoError(t, tx.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&inTx))
		assert.Equal(t, int64(1), inTx)
	})

	var count int64
	require.NoError(t, pools.Read().QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count))
	assert.Equal(t, int64(0), count, "WithTx rolls back")
}

func TestPools_WriteAllowsWrites(t *testing.T) {
	pools := dbpoolstest.NewT(t, testdb.Pool(t))
	ctx := testdb.Context(t)

	_, err := pools.Write().Exec(ctx, "CREATE TEMP TABLE test_users (id SERIAL PRIMARY KEY, name TEXT)")
	require.NoError(t, err, "write pool should allow CREATE TEMP TABLE")

	// Temp tables live in one session, so pin a single connection.
	conn, err := pools.Write().Acquire(ctx)
	require.NoError(t, err)
	defer conn.Release()

	_, err = conn.Exec(ctx, "CREATE TEMP TABLE test_users_pinned (id SERIAL PRIMARY KEY, name TEXT)")
	require.NoError(t, err)
	_, err = conn.Exec(ctx, "INSERT INTO test_users_pinned (name) VALUES ($1)", "Alice")
	require.NoError(t, err, "write pool should allow INSERT")

	var count int64
	require.NoError(t, conn.QueryRow(ctx, "SELECT COUNT(*) FROM test_users_pinned").Scan(&count))
	assert.Equal(t, int64(1), count)
}

// TestPools_Scenario walks the insert-through-the-wrong-pool scenario end to end.
func TestPools_Scenario(t *testing.T) {
	pools := dbpoolstest.NewT(t, testdb.Pool(t))
	table := scratchTable(t, pools)
	ctx := testdb.Context(t)

	_, err := pools.Read().Exec(ctx, fmt.Sprintf("INSERT INTO %s VALUES (1)", table))
	requireReadOnlyError(t, err)

	_, err = pools.Write().Exec(ctx, fmt.Sprintf("INSERT INTO %s VALUES (1)", table))
	require.NoError(t, err)

	var count int64
	require.NoError(t, pools.Read().QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count))
	assert.Equal(t, int64(1), count)
}

// TestPools_LazyConnectionsAreReadOnly forces the read pool to open more
// connections than New established and checks each one.
func TestPools_LazyConnectionsAreReadOnly(t *testing.T) {
	pools := dbpoolstest.NewT(t, testdb.Pool(t))
	ctx := testdb.Context(t)

	maxConns := pools.Read().Config().MaxConns
	assert.Equal(t, pools.Write().Config().MaxConns, maxConns, "read pool mirrors the source bound")

	conns := make([]*pgxpool.Conn, 0, maxConns)
	defer func() {
		for _, c := range conns {
			c.Release()
		}
	}()

	for i := int32(0); i < maxConns; i++ {
		c, err := pools.Read().Acquire(ctx)
		require.NoError(t, err)
		conns = append(conns, c)

		var setting string
		require.NoError(t, c.QueryRow(ctx, "SHOW default_transaction_read_only").Scan(&setting))
		assert.Equal(t, "on", setting, "connection %d is not read-only", i)
	}
}

func TestPools_ExplicitWriteTransactionOnReadPoolFails(t *testing.T) {
	pools := dbpoolstest.NewT(t, testdb.Pool(t))
	table := scratchTable(t, pools)
	ctx := testdb.Context(t)

	tx, err := pools.Read().Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, fmt.Sprintf("INSERT INTO %s VALUES (1)", table))
	requireReadOnlyError(t, err)
}

func TestPools_CloseLeavesWritePoolOpen(t *testing.T) {
	source := testdb.Pool(t)

	pools, err := dbpoolstest.New(testdb.Context(t), source)
	require.NoError(t, err)
	pools.Close()

	var n int
	require.NoError(t, pools.Write().QueryRow(testdb.Context(t), "SELECT 1").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestPools_CloseAll(t *testing.T) {
	source := testdb.Pool(t)

	pools, err := dbpoolstest.New(testdb.Context(t), source)
	require.NoError(t, err)
	pools.CloseAll()

	ctx := testdb.Context(t)
	for name, pool := range map[string]*pgxpool.Pool{"write": pools.Write(), "read": pools.Read()} {
		conn, err := pool.Acquire(ctx)
		if conn != nil {
			conn.Release()
		}
		assert.Error(t, err, "%s pool should refuse Acquire after CloseAll", name)
	}
}
