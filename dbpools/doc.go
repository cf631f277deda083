// Package dbpools routes PostgreSQL operations to a primary or a replica
// connection pool based on the caller's declared intent.
//
// Application code depends on the Provider interface and calls Read for
// queries that tolerate replica lag and Write for mutations, locking reads
// and reads that must observe the caller's own writes:
//
//	func CountUsers(ctx context.Context, p dbpools.Provider) (int64, error) {
//		var n int64
//		err := p.Read().QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
//		return n, err
//	}
//
// In production a DBPools value is passed in. Without a replica every call
// lands on the primary. In tests the dbpoolstest package supplies a provider
// whose read pool rejects mutating statements at the session level, so a
// write routed through Read fails the test instead of passing silently.
package dbpools
