package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgDuplicateKeyCode   = "23505"
	pgInvalidTextCode    = "22P02"
	pgCheckViolationCode = "23514"
)

// MapError translates driver errors to domain errors. sql.ErrNoRows maps to
// notFoundErr, a unique violation maps to duplicateErr, and malformed input
// or check violations map to invalidErr. Nil targets leave the error as is.
func MapError(err error, notFoundErr, duplicateErr, invalidErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) && notFoundErr != nil {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgDuplicateKeyCode:
		if duplicateErr != nil {
			return duplicateErr
		}
	case pgInvalidTextCode, pgCheckViolationCode:
		if invalidErr != nil {
			return invalidErr
		}
	}

	return err
}
