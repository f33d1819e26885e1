package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditRepository defines the interface for the catalog's change trail.
// Entries for writes made by the store are recorded in the same transaction as the write.
type AuditRepository interface {
	// InsertAuditEntry saves an entry supplied by a collaborator, e.g. a note about a bulk load.
	InsertAuditEntry(ctx context.Context, entry *AuditEntry) error

	// ListAuditEntries returns the most recent entries first. A limit of zero returns every entry.
	ListAuditEntries(ctx context.Context, limit int) ([]*AuditEntry, error)
}

// AuditAction is the kind of change an audit entry records.
type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
	AuditNote   AuditAction = "note"
)

// AuditEntry describes one change to the catalog.
type AuditEntry struct {
	ID        uuid.UUID      // Unique identifier for the entry.
	Timestamp time.Time      // When the change was committed.
	Action    AuditAction    // What kind of change it was.
	Entity    EntityKind     // The entity that changed.
	EntityID  *int64         // The id of the changed row, if it has one.
	Message   string         // Human readable summary.
	Context   map[string]any // Additional structured data, e.g. cascaded row counts.
}
