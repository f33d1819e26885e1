package domain

import "context"

// CatalogStore is the complete data-access interface of the catalog.
// Every write is validated before it reaches storage and runs as a single transaction.
type CatalogStore interface {
	CountryRepository
	AgencyRepository
	CrewRepository
	RocketRepository
	PayloadRepository
	LaunchpadRepository
	LandpadRepository
	LaunchRepository
	AggregateRepository
	StatsRepository
	AuditRepository

	// DeleteEntity removes the row of the given kind and id, applying the cascade and set-null
	// policy of Relationships and adjusting site counters, all in one transaction.
	// It returns ErrNotFound when no such row exists.
	DeleteEntity(ctx context.Context, kind EntityKind, id int64) error

	// Close releases the underlying storage.
	Close() error
}
