package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tfkr-ae/rocketdb/core"
	"github.com/tfkr-ae/rocketdb/domain"
)

// withTx runs fn inside one transaction. fn's error rolls the transaction back; otherwise it is committed.
// Every write of the catalog goes through here so the entity row, cascades, counters and audit entry
// become visible together or not at all.
func (repo *Repository) withTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) (err error) {
	start := time.Now()
	defer func() {
		repo.metrics.Observe(op, start, err)
		if err != nil {
			kind := errorKind(err)
			if kind != "internal" {
				repo.metrics.Rejected(kind)
			}
			repo.logger.Debugw("transaction rolled back", "op", op, "kind", kind, "error", err)
		}
	}()

	tx, err := repo.dbConn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning %s: %w", op, err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			repo.logger.Errorw("rolling back", "op", op, "error", rbErr)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing %s: %w", op, err)
	}
	return nil
}

// exists reports whether a row with the given id is present in table.
func exists(ctx context.Context, tx *sqlx.Tx, table domain.EntityKind, id int64) (bool, error) {
	var n int
	query := tx.Rebind(fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE id = ?`, table))
	if err := tx.GetContext(ctx, &n, query, id); err != nil {
		return false, fmt.Errorf("checking %s %d: %w", table, id, err)
	}
	return n > 0, nil
}

// requireParent fails with a ReferentialIntegrityError when id does not resolve to a row of target.
func requireParent(ctx context.Context, tx *sqlx.Tx, entity, field string, target domain.EntityKind, id int64) error {
	ok, err := exists(ctx, tx, target, id)
	if err != nil {
		return err
	}
	if !ok {
		return &domain.ReferentialIntegrityError{Entity: entity, Field: field, Target: string(target), TargetID: id}
	}
	return nil
}

// requireOptionalParent is requireParent for nullable references.
func requireOptionalParent(ctx context.Context, tx *sqlx.Tx, entity, field string, target domain.EntityKind, id *int64) error {
	if id == nil {
		return nil
	}
	return requireParent(ctx, tx, entity, field, target, *id)
}

// insertReturningID runs a named INSERT and returns the generated id.
func insertReturningID(ctx context.Context, tx *sqlx.Tx, entity, query string, arg any) (int64, error) {
	q, args, err := sqlx.Named(query+" RETURNING id", arg)
	if err != nil {
		return 0, fmt.Errorf("binding %s insert: %w", entity, err)
	}

	var id int64
	if err := tx.QueryRowxContext(ctx, tx.Rebind(q), args...).Scan(&id); err != nil {
		return 0, translateError(entity, fmt.Errorf("inserting %s: %w", entity, err))
	}
	return id, nil
}

// execAffecting runs query and returns a not found error when it touched no row.
func execAffecting(ctx context.Context, tx *sqlx.Tx, entity string, id any, query string, args ...any) error {
	result, err := tx.ExecContext(ctx, tx.Rebind(query), args...)
	if err != nil {
		return translateError(entity, fmt.Errorf("writing %s %v: %w", entity, id, err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("fetching rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound(entity, id)
	}
	return nil
}

// namedExecAffecting is execAffecting for named queries.
func namedExecAffecting(ctx context.Context, tx *sqlx.Tx, entity string, id any, query string, arg any) error {
	q, args, err := sqlx.Named(query, arg)
	if err != nil {
		return fmt.Errorf("binding %s update: %w", entity, err)
	}
	return execAffecting(ctx, tx, entity, id, q, args...)
}

// audit records a change in the same transaction as the change itself.
func (repo *Repository) audit(ctx context.Context, tx *sqlx.Tx, action domain.AuditAction, kind domain.EntityKind, id int64, message string, extra map[string]any) error {
	options := []func(*domain.AuditEntry) error{core.AuditWithContext(extra)}
	if id > 0 {
		options = append(options, core.AuditWithEntityID(id))
	}

	entry, err := core.NewAuditEntry(action, kind, message, options...)
	if err != nil {
		return fmt.Errorf("building audit entry: %w", err)
	}

	if err := insertAuditEntry(ctx, tx, entry); err != nil {
		return err
	}

	fields := []any{"action", action, "entity", kind, "id", id}
	for k, v := range extra {
		fields = append(fields, k, v)
	}
	repo.logger.Infow(message, fields...)
	return nil
}
