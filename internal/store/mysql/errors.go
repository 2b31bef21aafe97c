package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/smndtrl/nocodb/internal/errs"
)

// MySQL error numbers (read-relevant only)
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	errBadFieldError   = 1054
	errAccessDenied    = 1045
	errConnRefused     = 2003
	errUnknownDatabase = 1049
	errNoSuchTable     = 1146
	errSyntaxError     = 1064
)

// mapError converts a MySQL driver error into the unified error taxonomy.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, "record not found", err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case errAccessDenied, errConnRefused, errUnknownDatabase:
			return errs.Wrap(errs.ErrKindConnectionFailed, fmt.Sprintf("connection error: %s", mysqlErr.Message), err)
		case errBadFieldError, errNoSuchTable, errSyntaxError:
			return errs.Wrap(errs.ErrKindQueryFailed, fmt.Sprintf("invalid query: %s", mysqlErr.Message), err)
		}
	}

	return errs.Wrap(errs.ErrKindQueryFailed, msg, err)
}
