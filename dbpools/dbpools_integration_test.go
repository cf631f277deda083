//go:build integration

package dbpools_test

import (
	"testing"

	"github.com/phrazzld/janus/dbpools"
	"github.com/phrazzld/janus/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBPools_WithoutReplica_Queries(t *testing.T) {
	pool := testdb.Pool(t)
	ctx := testdb.Context(t)

	pools := dbpools.New(pool)
	require.False(t, pools.HasReplica())

	var n int
	require.NoError(t, pools.Read().QueryRow(ctx, "SELECT 1").Scan(&n))
	assert.Equal(t, 1, n)

	require.NoError(t, pools.Write().QueryRow(ctx, "SELECT 2").Scan(&n))
	assert.Equal(t, 2, n)

	require.NoError(t, pools.QueryRow(ctx, "SELECT 3").Scan(&n))
	assert.Equal(t, 3, n)
}

// TestDBPools_WithReplica_RoutesByMarker uses two real databases, each
// holding its own name in db_marker, to prove which endpoint served a query.
func TestDBPools_WithReplica_RoutesByMarker(t *testing.T) {
	admin := testdb.Pool(t)
	ctx := testdb.Context(t)

	primaryName := testdb.UniqueDatabaseName("janus_primary")
	replicaName := testdb.UniqueDatabaseName("janus_replica")

	primary := testdb.CreateDatabase(t, admin, primaryName)
	replica := testdb.CreateDatabase(t, admin, replicaName)
	testdb.CreateMarkerTable(t, primary, primaryName)
	testdb.CreateMarkerTable(t, replica, replicaName)

	pools := dbpools.WithReplica(primary, replica)
	require.True(t, pools.HasReplica())

	for i := 0; i < 3; i++ {
		readMarker, err := testdb.ReadMarker(ctx, pools.Read())
		require.NoError(t, err)
		assert.Equal(t, replicaName, readMarker, "Read() should route to replica")

		writeMarker, err := testdb.ReadMarker(ctx, pools.Write())
		require.NoError(t, err)
		assert.Equal(t, primaryName, writeMarker, "Write() should route to primary")

		var legacyMarker string
		require.NoError(t, pools.QueryRow(ctx, "SELECT name FROM db_marker").Scan(&legacyMarker))
		assert.Equal(t, primaryName, legacyMarker, "legacy access should route to primary")
	}
}

func TestDBPools_Close(t *testing.T) {
	dbURL := testdb.DatabaseURL()
	if dbURL == "" {
		t.Skip("DATABASE_URL or JANUS_TEST_DB_URL not set - skipping integration test")
	}

	// Pool registers its own Close at cleanup; closing twice is harmless.
	pools := dbpools.New(testdb.Pool(t))
	require.NoError(t, pools.Ping(testdb.Context(t)))

	assert.NotPanics(t, pools.Close)
}

func TestSingle_Queries(t *testing.T) {
	pool := testdb.Pool(t)
	ctx := testdb.Context(t)

	p := dbpools.FromPool(pool)
	assert.Same(t, p.Read(), p.Write())

	var n int
	require.NoError(t, p.Read().QueryRow(ctx, "SELECT 1").Scan(&n))
	assert.Equal(t, 1, n)
}
