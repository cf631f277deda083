// Package testdb provides utilities for database integration tests.
//
// Tests call Pool to obtain a connection pool to the database named by
// DATABASE_URL (or JANUS_TEST_DB_URL). When neither is set the test is
// skipped, so integration tests compile and run everywhere but only touch a
// database when one is configured:
//
//	func TestSomething(t *testing.T) {
//	    pool := testdb.Pool(t)
//	    testdb.Migrate(t, pool)
//	    pools := dbpoolstest.NewT(t, pool)
//	    ...
//	}
//
// CreateDatabase creates a throwaway database and drops it when the test
// ends. Tests that need two distinct endpoints, such as a primary and a
// replica each holding a different marker row, use it twice.
//
// WithTx runs a function inside a transaction that is always rolled back,
// for tests that only need isolation from each other.
package testdb
