package mysql

import (
	"context"
	"errors"
	"fmt"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/koustreak/yobatis/internal/errs"
)

// MySQL error numbers
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	errTooManyConnections = 1040
	errDBAccessDenied     = 1044
	errAccessDenied       = 1045
	errUnknownDatabase    = 1049
)

// mapError translates go-sql-driver/mysql errors into *errs.Error. Every
// failure at this layer means the metadata could not be read.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindResourceNotAvailable, msg+": timed out", err)
	}

	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return errs.Wrap(
			errs.ErrKindResourceNotAvailable,
			fmt.Sprintf("%s: %s", msg, describe(mysqlErr.Number)),
			err,
		)
	}

	return errs.Wrap(errs.ErrKindResourceNotAvailable, msg, err)
}

func describe(code uint16) string {
	switch code {
	case errAccessDenied, errDBAccessDenied:
		return "access denied"
	case errUnknownDatabase:
		return "unknown database"
	case errTooManyConnections:
		return "too many connections"
	default:
		return fmt.Sprintf("server error %d", code)
	}
}
