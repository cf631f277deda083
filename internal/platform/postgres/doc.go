// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package.
// It builds the primary and replica pgx pools from configuration, applies
// schema migrations, and maps between domain entities and database records.
// Stores are generic over dbpools.Provider and route each query to the
// read or write pool explicitly.
package postgres
