package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"portfolio-backend/pkg/apperror"
)

// PostgreSQL error codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgInvalidTextRepr     = "22P02"
)

// mapError converts driver errors into AppErrors. entity names the resource
// in NotFound and Conflict messages.
func mapError(err error, entity string) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound(entity + " not found")
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.Conflict(entity + " already exists")
		case pgForeignKeyViolation:
			return apperror.BadRequest("referenced record does not exist")
		case pgInvalidTextRepr:
			return apperror.BadRequest("invalid identifier")
		default:
			return apperror.New(400, pgErr.Message, err)
		}
	}

	return apperror.Internal(err)
}

// expectAffected turns a zero-row UPDATE/DELETE into NotFound.
func expectAffected(tag pgconn.CommandTag, entity string) error {
	if tag.RowsAffected() == 0 {
		return apperror.NotFound(entity + " not found")
	}
	return nil
}
