package dbutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"strings"

	"github.com/Aidin1998/publications/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// SQLSTATE classes and codes used for classification
const (
	IntegrityConstraintClass = "23"
	ConnectionExceptionClass = "08"
	DuplicateKeyErrorCode    = "23505"
	ForeignKeyErrorCode      = "23503"
	AdminShutdownCode        = "57P01"
	CannotConnectNowCode     = "57P03"
)

const (
	msgStoreFailure     = "database operation failed"
	msgStoreUnavailable = "database unavailable"
	msgStoreConstraint  = "database constraint violated"
)

// WrapError classifies a gorm/driver error into a typed store error. The
// original error is kept as the cause for logging and is never part of the
// public message.
func WrapError(err error) error {
	var pgErr *pgconn.PgError
	var connErr *pgconn.ConnectError

	if err == nil {
		return nil
	} else if _, ok := err.(*errors.Error); ok {
		return err
	} else if errors.Is(err, gorm.ErrRecordNotFound) {
		return errors.NotFound.Wrap(err)
	} else if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, IntegrityConstraintClass):
			return errors.StoreConstraint.Explain(msgStoreConstraint).Wrap(err)
		case strings.HasPrefix(pgErr.Code, ConnectionExceptionClass),
			pgErr.Code == AdminShutdownCode,
			pgErr.Code == CannotConnectNowCode:
			return errors.StoreUnavailable.Explain(msgStoreUnavailable).Wrap(err)
		}
	} else if errors.As(err, &connErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return errors.StoreUnavailable.Explain(msgStoreUnavailable).Wrap(err)
	}

	return errors.StoreFailure.Explain(msgStoreFailure).Wrap(err)
}
