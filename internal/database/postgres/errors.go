package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/koustreak/yobatis/internal/errs"
)

// PostgreSQL SQLSTATE codes worth naming in messages
// Full list: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgErrInvalidPassword  = "28P01"
	pgErrInvalidAuthSpec  = "28000"
	pgErrInvalidCatalog   = "3D000"
	pgErrTooManyConns     = "53300"
	pgErrInsufficientPriv = "42501"
)

// mapError translates pgx / pgconn native errors into *errs.Error. Every
// failure at this layer means the metadata could not be read.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindResourceNotAvailable, msg+": timed out", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return errs.Wrap(
			errs.ErrKindResourceNotAvailable,
			fmt.Sprintf("%s: %s", msg, describe(pgErr)),
			err,
		)
	}

	// connection-level errors (TLS, network, auth)
	return errs.Wrap(errs.ErrKindResourceNotAvailable, msg, err)
}

func describe(pgErr *pgconn.PgError) string {
	switch pgErr.Code {
	case pgErrInvalidPassword, pgErrInvalidAuthSpec:
		return "authentication failed"
	case pgErrInvalidCatalog:
		return "unknown database"
	case pgErrTooManyConns:
		return "too many connections"
	case pgErrInsufficientPriv:
		return "permission denied"
	default:
		return pgErr.Message
	}
}
