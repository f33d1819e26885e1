package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/tfkr-ae/rocketdb/domain"
)

var _ domain.AuditRepository = (*Repository)(nil)

// dbAuditEntry represents an audit entry as stored in the database.
type dbAuditEntry struct {
	ID        uuid.UUID     `db:"id"`        // Unique identifier for the entry.
	Timestamp time.Time     `db:"timestamp"` // The time at which the change was made.
	Action    string        `db:"action"`    // create, update, delete or note.
	Entity    string        `db:"entity"`    // Table of the changed entity.
	EntityID  sql.NullInt64 `db:"entity_id"` // Id of the changed row, if any.
	Message   string        `db:"message"`   // Human readable summary.
	Context   Metadata      `db:"context"`   // A map of additional key-value data.
}

// toDomainAuditEntry converts a dbAuditEntry to a domain.AuditEntry.
func toDomainAuditEntry(row *dbAuditEntry) *domain.AuditEntry {
	return &domain.AuditEntry{
		ID:        row.ID,
		Timestamp: row.Timestamp.UTC(),
		Action:    domain.AuditAction(row.Action),
		Entity:    domain.EntityKind(row.Entity),
		EntityID:  int64Ptr(row.EntityID),
		Message:   row.Message,
		Context:   map[string]any(row.Context),
	}
}

// fromDomainAuditEntry converts a domain.AuditEntry to a dbAuditEntry.
func fromDomainAuditEntry(entry *domain.AuditEntry) *dbAuditEntry {
	return &dbAuditEntry{
		ID:        entry.ID,
		Timestamp: entry.Timestamp.UTC(),
		Action:    string(entry.Action),
		Entity:    string(entry.Entity),
		EntityID:  nullInt64(entry.EntityID),
		Message:   entry.Message,
		Context:   Metadata(entry.Context),
	}
}

func insertAuditEntry(ctx context.Context, tx *sqlx.Tx, entry *domain.AuditEntry) error {
	query := `INSERT INTO audit_log (id, timestamp, action, entity, entity_id, message, context)
	          VALUES (:id, :timestamp, :action, :entity, :entity_id, :message, :context)`

	_, err := tx.NamedExecContext(ctx, query, fromDomainAuditEntry(entry))
	if err != nil {
		return translateError("audit_log", fmt.Errorf("inserting audit entry %s: %w", entry.ID, err))
	}
	return nil
}

// InsertAuditEntry saves an entry supplied by a collaborator.
func (repo *Repository) InsertAuditEntry(ctx context.Context, entry *domain.AuditEntry) error {
	return repo.withTx(ctx, "insert_audit_entry", func(tx *sqlx.Tx) error {
		return insertAuditEntry(ctx, tx, entry)
	})
}

// ListAuditEntries retrieves audit entries, most recent first. A limit of zero returns all of them.
func (repo *Repository) ListAuditEntries(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	var rows []*dbAuditEntry
	query := `SELECT id, timestamp, action, entity, entity_id, message, context
	          FROM audit_log ORDER BY timestamp DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	err := repo.dbConn.SelectContext(ctx, &rows, repo.dbConn.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("fetching audit entries: %w", err)
	}

	entries := make([]*domain.AuditEntry, len(rows))
	for i, row := range rows {
		entries[i] = toDomainAuditEntry(row)
	}
	return entries, nil
}
