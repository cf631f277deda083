package dbpools_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/janus/dbpools"
	"github.com/stretchr/testify/assert"
)

func TestIsReadOnlyViolation(t *testing.T) {
	t.Parallel()

	readOnly := &pgconn.PgError{
		Severity: "ERROR",
		Code:     "25006",
		Message:  "cannot execute INSERT in a read-only transaction",
	}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("cannot execute INSERT in a read-only transaction"), want: false},
		{name: "read-only pg error", err: readOnly, want: true},
		{name: "wrapped read-only pg error", err: fmt.Errorf("create note: %w", readOnly), want: true},
		{name: "other pg error", err: &pgconn.PgError{Code: "23505"}, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, dbpools.IsReadOnlyViolation(tt.err))
		})
	}
}

func TestConnectError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := &dbpools.ConnectError{Op: "ping read pool", Err: cause}

	assert.ErrorIs(t, err, dbpools.ErrConnect)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to establish connection pool: ping read pool: connection refused", err.Error())

	wrapped := fmt.Errorf("setup: %w", err)
	var target *dbpools.ConnectError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "ping read pool", target.Op)
}
