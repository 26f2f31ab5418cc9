// Package repositories implements the FRA record and patta holder
// repositories on PostgreSQL.
package repositories

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/lib/pq"

	"github.com/turtacn/fra-monitor/pkg/errors"
)

// columnTime rounds t down to the microsecond resolution of a TIMESTAMPTZ
// column, so the value kept by the caller equals the one read back.
func columnTime(t time.Time) time.Time {
	return t.Truncate(time.Microsecond)
}

// queryExecutor abstracts sql.DB and sql.Tx
type queryExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// scanner abstracts sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// wrapWriteError maps driver errors from an INSERT onto application codes.
func wrapWriteError(err error, entity string) error {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return errors.Wrap(err, errors.ErrCodeConflict, entity+" already exists")
		case "23514", "23502":
			return errors.Wrap(err, errors.ErrCodeValidation, entity+" violates a table constraint").WithDetail(pqErr.Constraint)
		}
	}
	return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create "+entity)
}

func countRows(ctx context.Context, exec queryExecutor, table string) (int64, error) {
	var n int64
	if err := exec.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to count "+table)
	}
	return n, nil
}

//Personal.AI order the ending
