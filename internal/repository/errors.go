package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when no row matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("record already exists")
	// ErrConflict is returned when a conditional update finds the row in an unexpected state.
	ErrConflict = errors.New("record state conflict")
)

const (
	pgUniqueViolation     = "23505"
	pgInvalidTextRepr     = "22P02"
	pgForeignKeyViolation = "23503"
)

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrDuplicate
		case pgInvalidTextRepr, pgForeignKeyViolation:
			// malformed or dangling ids never match a row
			return ErrNotFound
		}
	}
	return err
}
