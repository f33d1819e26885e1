package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tfkr-ae/rocketdb/domain"
)

var _ domain.StatsRepository = (*Repository)(nil)

// Stats returns the row counts of the catalog, read in one transaction so they agree with each other.
func (repo *Repository) Stats(ctx context.Context) (*domain.CatalogStats, error) {
	var stats domain.CatalogStats
	err := repo.withTx(ctx, "stats", func(tx *sqlx.Tx) error {
		counts := []struct {
			dst   *int
			query string
		}{
			{&stats.Countries, `SELECT COUNT(*) FROM countries`},
			{&stats.Agencies, `SELECT COUNT(*) FROM agencies`},
			{&stats.Crew, `SELECT COUNT(*) FROM crew`},
			{&stats.Rockets, `SELECT COUNT(*) FROM rockets`},
			{&stats.ActiveRockets, `SELECT COUNT(*) FROM rockets WHERE active = 1`},
			{&stats.Payloads, `SELECT COUNT(*) FROM payloads`},
			{&stats.Launchpads, `SELECT COUNT(*) FROM launchpads`},
			{&stats.Landpads, `SELECT COUNT(*) FROM landpads`},
			{&stats.Launches, `SELECT COUNT(*) FROM launches`},
			{&stats.UpcomingLaunches, `SELECT COUNT(*) FROM launches WHERE upcoming = 1`},
			{&stats.SuccessfulLaunches, `SELECT COUNT(*) FROM launches WHERE success = 1`},
			{&stats.LaunchFailures, `SELECT COUNT(*) FROM launch_failures`},
		}

		for _, c := range counts {
			if err := tx.GetContext(ctx, c.dst, c.query); err != nil {
				return fmt.Errorf("counting rows (%s): %w", c.query, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
