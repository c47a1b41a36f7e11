package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/openadm/restadmin/internal/errs"
)

// MySQL server error numbers.
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	errBadFieldError   = 1054
	errSyntaxError     = 1064
	errNoSuchTable     = 1146
	errAccessDenied    = 1045
	errUnknownDatabase = 1049
	errConnRefused     = 2003
)

// mapError translates go-sql-driver native errors into *errs.Error.
// It mirrors the mapError pattern used in the postgres driver.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case errAccessDenied, errConnRefused, errUnknownDatabase:
			return errs.Wrap(errs.ErrKindConnectionFailed,
				fmt.Sprintf("%s: %s", msg, mysqlErr.Message), err)
		case errBadFieldError, errSyntaxError, errNoSuchTable:
			return errs.Wrap(errs.ErrKindQueryFailed,
				fmt.Sprintf("%s: %s", msg, mysqlErr.Message), err)
		}
		return errs.Wrap(errs.ErrKindQueryFailed,
			fmt.Sprintf("%s: %s", msg, mysqlErr.Message), err)
	}

	// Fallthrough: connection-level errors (network, TLS, handshake)
	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}
