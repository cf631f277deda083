package dbpools

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// readOnlySQLTransactionCode is the PostgreSQL error code raised when a
// mutating statement runs in a read-only transaction.
const readOnlySQLTransactionCode = "25006"

// ErrConnect is matched by every ConnectError.
var ErrConnect = errors.New("failed to establish connection pool")

// ConnectError reports a failure to build or reach a pool. It is distinct
// from query errors, which are returned unchanged from the pool.
type ConnectError struct {
	Op  string // what was being built, e.g. "parse config" or "ping read pool"
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrConnect, e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ConnectError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrConnect.
func (e *ConnectError) Is(target error) bool {
	return target == ErrConnect
}

// IsReadOnlyViolation reports whether err is PostgreSQL rejecting a
// statement because the transaction is read-only.
func IsReadOnlyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == readOnlySQLTransactionCode
}
