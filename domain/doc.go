// Package domain defines the spaceflight catalog's data model and the rules it must obey.
// It contains the entities (Country, Agency, Crew, Rocket, Payload, Launchpad, Landpad, Launch and
// their associations), the closed value sets of their enumerated attributes, the cascade and
// set-null delete policy, the error taxonomy, and the repository interfaces that storage
// implementations satisfy.
//
// The package is storage-agnostic: validation that does not need other rows happens here through
// each entity's Validate method, while referential checks, uniqueness and derived counters are the
// responsibility of the implementation of CatalogStore.
package domain
