// Package db provides the database layer for the spaceflight catalog.
// It encapsulates all interactions with the underlying SQL database, managing
// data persistence for countries, agencies, crew, rockets, payloads, launchpads,
// landpads, launches and their associations, plus the audit trail.
//
// This package is responsible for:
//   - Establishing and managing SQLite and PostgreSQL connections (`db.go`).
//   - Defining database-specific data structures that map to SQL table schemas.
//   - Implementing the repository interfaces of the `domain` package, which together
//     make up `domain.CatalogStore`.
//   - Handling data conversion between domain structs and database-friendly structs,
//     including the use of `sql.Null*` types for nullable fields and `flag` for booleans.
//   - Enforcing the delete policy (`cascade.go`) and keeping launchpad and landpad
//     counters in step with launch writes (`counters.go`, `aggregates_repo.go`).
//   - Translating driver constraint errors into domain errors (`errors.go`).
//   - Managing database migrations (`migrations/`).
package db
