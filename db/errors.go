package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tfkr-ae/rocketdb/domain"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// PostgreSQL SQLSTATE codes of the integrity constraint violation class.
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// translateError maps a driver constraint error onto the domain error taxonomy.
// Explicit checks inside each write catch almost every case first; this covers whatever reaches the
// schema constraints anyway. Errors that are not constraint failures are returned unchanged.
func translateError(entity string, err error) error {
	if err == nil {
		return nil
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return &domain.ConstraintViolation{Entity: entity, Reason: "duplicate value", Err: err}
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return &domain.ReferentialIntegrityError{Entity: entity, Err: err}
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return &domain.ConstraintViolation{Entity: entity, Reason: "check constraint failed", Err: err}
		case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return &domain.ConstraintViolation{Entity: entity, Reason: "mandatory value missing", Err: err}
		}
		if liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return &domain.ConstraintViolation{Entity: entity, Reason: "constraint failed", Err: err}
		}
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &domain.ConstraintViolation{Entity: entity, Field: pgErr.ConstraintName, Reason: "duplicate value", Err: err}
		case pgForeignKeyViolation:
			return &domain.ReferentialIntegrityError{Entity: entity, Field: pgErr.ConstraintName, Err: err}
		case pgCheckViolation:
			return &domain.ConstraintViolation{Entity: entity, Field: pgErr.ConstraintName, Reason: "check constraint failed", Err: err}
		case pgNotNullViolation:
			return &domain.ConstraintViolation{Entity: entity, Field: pgErr.ColumnName, Reason: "mandatory value missing", Err: err}
		}
	}
	return err
}

// notFound wraps domain.ErrNotFound with the addressed entity.
func notFound(entity string, id any) error {
	return fmt.Errorf("%s %v: %w", entity, id, domain.ErrNotFound)
}

// noRows converts sql.ErrNoRows into a not found error and wraps anything else with what.
func noRows(err error, entity string, id any, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(entity, id)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// errorKind labels err for metrics and logs.
func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrConstraintViolation):
		return "constraint_violation"
	case errors.Is(err, domain.ErrReferentialIntegrity):
		return "referential_integrity"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrAggregateDrift):
		return "aggregate_drift"
	}
	return "internal"
}
