package store

import (
	"context"
	"database/sql/driver"
	stderrors "errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	errors "github.com/frahmantamala/helpdesk-console/internal"
)

// Translate maps driver and gorm errors onto the application taxonomy.
// Repositories call it once, at the boundary.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.IsAppError(err); ok {
		return err
	}

	switch {
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return errors.ErrNotFound
	case stderrors.Is(err, gorm.ErrDuplicatedKey),
		stderrors.Is(err, gorm.ErrForeignKeyViolated),
		stderrors.Is(err, gorm.ErrCheckConstraintViolated):
		return errors.ErrConstraintViolation.WithCause(err)
	case stderrors.Is(err, context.DeadlineExceeded),
		stderrors.Is(err, driver.ErrBadConn):
		return errors.NewNetworkError("the data store is unavailable", err)
	case stderrors.Is(err, context.Canceled):
		return errors.NewNetworkError("the request was cancelled", err)
	}

	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		// Class 23 covers integrity constraint violations.
		if strings.HasPrefix(pgErr.Code, "23") {
			return errors.ErrConstraintViolation.WithMessage("%s", pgErr.Message).WithCause(err)
		}
		if strings.HasPrefix(pgErr.Code, "08") {
			return errors.NewNetworkError("the data store is unavailable", err)
		}
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return errors.NewNetworkError("the data store is unavailable", err)
	}

	if strings.Contains(strings.ToLower(err.Error()), "constraint failed") {
		return errors.ErrConstraintViolation.WithCause(err)
	}

	return errors.NewInternalError("store operation failed", err)
}
