package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/smndtrl/nocodb/internal/errs"
)

// PostgreSQL SQLSTATE error codes (read-relevant only)
// Full list: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgErrConnectionFailure = "08006"
	pgErrSyntaxError       = "42601"
	pgErrUndefinedTable    = "42P01"
	pgErrUndefinedColumn   = "42703"
)

// mapError converts a pgx error into the unified error taxonomy.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, "record not found", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrConnectionFailure:
			return errs.Wrap(errs.ErrKindConnectionFailed, "database connection failed", err)
		case pgErrSyntaxError, pgErrUndefinedTable, pgErrUndefinedColumn:
			return errs.Wrap(errs.ErrKindQueryFailed, fmt.Sprintf("query error: %s", pgErr.Message), err)
		}
	}

	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}
