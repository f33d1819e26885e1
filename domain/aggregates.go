package domain

import "context"

// SiteKind distinguishes the two kinds of site that carry derived counters.
type SiteKind string

const (
	SiteLaunchpad SiteKind = "launchpad"
	SiteLandpad   SiteKind = "landpad"
)

// AggregateRepository reconciles the derived site counters with the launch rows.
type AggregateRepository interface {
	// CheckAggregates recomputes every launchpad and landpad counter from the launches table.
	// It returns an *AggregateDriftError listing each site whose stored counters differ, or nil.
	CheckAggregates(ctx context.Context) error

	// RepairAggregates overwrites every site counter with the value recomputed from the launches
	// table in a single transaction, returning the number of sites that changed.
	RepairAggregates(ctx context.Context) (int, error)
}
