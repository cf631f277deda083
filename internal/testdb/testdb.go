package testdb

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/janus/internal/platform/postgres"
)

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 10 * time.Second

// DefaultMaxConns bounds pools created by this package.
const DefaultMaxConns = 4

// Environment variables consulted by DatabaseURL, in order.
var databaseURLEnvVars = []string{"DATABASE_URL", "JANUS_TEST_DB_URL"}

// DatabaseURL returns the first non-empty database URL from the environment.
func DatabaseURL() string {
	for _, name := range databaseURLEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// ShouldSkipDatabaseTest reports whether no database is configured.
func ShouldSkipDatabaseTest() bool {
	return DatabaseURL() == ""
}

// Context returns a context bounded by TestTimeout and cancelled at cleanup.
func Context(t testing.TB) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	t.Cleanup(cancel)
	return ctx
}

// Pool returns a pool to the test database, closed when the test finishes.
// The test is skipped when no database URL is configured.
func Pool(t testing.TB) *pgxpool.Pool {
	t.Helper()

	dbURL := DatabaseURL()
	if dbURL == "" {
		t.Skip("DATABASE_URL or JANUS_TEST_DB_URL not set - skipping integration test")
	}

	return connect(t, dbURL)
}

func connect(t testing.TB, dbURL string) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dbURL,
		postgres.WithName("test"),
		postgres.WithMaxConns(DefaultMaxConns),
	)
	require.NoError(t, err, "Failed to connect to test database")

	t.Cleanup(pool.Close)
	return pool
}

// Migrate applies the application schema through pool.
func Migrate(t testing.TB, pool *pgxpool.Pool) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	require.NoError(t, postgres.Migrate(ctx, pool, nil), "Failed to run migrations")
}

// WithTx runs fn inside a transaction on pool and always rolls it back.
func WithTx(t *testing.T, pool *pgxpool.Pool, fn func(t *testing.T, tx pgx.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	tx, err := pool.Begin(ctx)
	require.NoError(t, err, "Failed to begin transaction")

	defer func() {
		err := tx.Rollback(context.Background())
		if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			t.Logf("Warning: failed to rollback transaction: %v", err)
		}
	}()

	fn(t, tx)
}
