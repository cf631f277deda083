package testdb

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// UniqueDatabaseName returns prefix followed by a random suffix that is a
// valid unquoted identifier.
func UniqueDatabaseName(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return prefix + "_" + suffix
}

// URLForDatabase returns base with its database path replaced by name.
func URLForDatabase(base, name string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("failed to parse database URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("database URL must be of the form postgres://host/db, got %q", base)
	}
	u.Path = "/" + name
	return u.String(), nil
}

// CreateDatabase creates a new database through admin and returns a pool to
// it. The pool is closed and the database dropped when the test finishes.
func CreateDatabase(t testing.TB, admin *pgxpool.Pool, name string) *pgxpool.Pool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	dropDatabase(ctx, t, admin, name)
	_, err := admin.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize())
	require.NoError(t, err, "Failed to create database %s", name)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
		defer cancel()
		dropDatabase(ctx, t, admin, name)
	})

	dbURL, err := URLForDatabase(admin.Config().ConnString(), name)
	require.NoError(t, err)

	// Registered after the drop so it runs first.
	return connect(t, dbURL)
}

// CreateMarkerTable creates db_marker holding one row with value.
func CreateMarkerTable(t testing.TB, pool *pgxpool.Pool, value string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	_, err := pool.Exec(ctx, "CREATE TABLE db_marker (name TEXT NOT NULL)")
	require.NoError(t, err, "Failed to create marker table")
	_, err = pool.Exec(ctx, "INSERT INTO db_marker (name) VALUES ($1)", value)
	require.NoError(t, err, "Failed to insert marker row")
}

// ReadMarker returns the marker stored in the database behind pool.
func ReadMarker(ctx context.Context, pool *pgxpool.Pool) (string, error) {
	var name string
	err := pool.QueryRow(ctx, "SELECT name FROM db_marker").Scan(&name)
	return name, err
}

func dropDatabase(ctx context.Context, t testing.TB, admin *pgxpool.Pool, name string) {
	t.Helper()

	if _, err := admin.Exec(ctx,
		"SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = $1 AND pid <> pg_backend_pid()",
		name,
	); err != nil {
		t.Logf("Warning: failed to terminate connections to %s: %v", name, err)
	}
	if _, err := admin.Exec(ctx, "DROP DATABASE IF EXISTS "+pgx.Identifier{name}.Sanitize()); err != nil {
		t.Logf("Warning: failed to drop database %s: %v", name, err)
	}
}
