package domain

import "context"

// StatsRepository defines the interface for retrieving summary counts about the catalog.
type StatsRepository interface {
	// Stats counts the rows of every entity in one consistent read.
	Stats(ctx context.Context) (*CatalogStats, error)
}

// CatalogStats holds row counts for the catalog.
type CatalogStats struct {
	Countries          int
	Agencies           int
	Crew               int
	Rockets            int
	ActiveRockets      int
	Payloads           int
	Launchpads         int
	Landpads           int
	Launches           int
	UpcomingLaunches   int
	SuccessfulLaunches int
	LaunchFailures     int
}
