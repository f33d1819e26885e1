// Package core provides fundamental utilities shared by the catalog's storage layer and its callers.
// This file contains option functions for building audit entries.
package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tfkr-ae/rocketdb/domain"
)

// NewAuditEntry creates an audit entry with a fresh v7 id and the current UTC time,
// then applies each option in order.
func NewAuditEntry(action domain.AuditAction, entity domain.EntityKind, message string, options ...func(entry *domain.AuditEntry) error) (*domain.AuditEntry, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating uuid: %w", err)
	}

	entry := &domain.AuditEntry{
		ID:        id,
		Timestamp: time.Now().UTC(),
		Action:    action,
		Entity:    entity,
		Message:   message,
		Context:   make(map[string]any),
	}

	for _, option := range options {
		if err := option(entry); err != nil {
			return nil, fmt.Errorf("applying audit option: %w", err)
		}
	}
	return entry, nil
}

// AuditWithContext is an option to merge additional key-value data into an audit entry.
func AuditWithContext(context map[string]any) func(entry *domain.AuditEntry) error {
	return func(entry *domain.AuditEntry) error {
		for k, v := range context {
			entry.Context[k] = v
		}
		return nil
	}
}

// AuditWithEntityID is an option to associate an audit entry with the id of the changed row.
func AuditWithEntityID(id int64) func(entry *domain.AuditEntry) error {
	return func(entry *domain.AuditEntry) error {
		if id <= 0 {
			return fmt.Errorf("invalid entity id %d", id)
		}
		entry.EntityID = &id
		return nil
	}
}

// AuditWithTimestamp is an option to override the time recorded on an audit entry.
func AuditWithTimestamp(ts time.Time) func(entry *domain.AuditEntry) error {
	return func(entry *domain.AuditEntry) error {
		entry.Timestamp = ts.UTC()
		return nil
	}
}
