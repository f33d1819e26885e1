package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tfkr-ae/rocketdb/domain"
)

var _ domain.AggregateRepository = (*Repository)(nil)

// dbSiteCounters holds the stored and recomputed counters of one site.
type dbSiteCounters struct {
	ID              int64  `db:"id"`
	Name            string `db:"name"`
	StoredAttempts  int    `db:"stored_attempts"`
	ActualAttempts  int    `db:"actual_attempts"`
	StoredSuccesses int    `db:"stored_successes"`
	ActualSuccesses int    `db:"actual_successes"`
}

const launchpadCountersQuery = `SELECT p.id, p.name,
	p.launch_attempts AS stored_attempts,
	(SELECT COUNT(*) FROM launches l WHERE l.launchpad_id = p.id) AS actual_attempts,
	p.launch_successes AS stored_successes,
	(SELECT COUNT(*) FROM launches l WHERE l.launchpad_id = p.id AND l.success = 1) AS actual_successes
	FROM launchpads p ORDER BY p.id`

const landpadCountersQuery = `SELECT p.id, p.name,
	p.landing_attempts AS stored_attempts,
	(SELECT COUNT(*) FROM launches l WHERE l.landpad_id = p.id AND l.landing_attempt = 1) AS actual_attempts,
	p.landing_successes AS stored_successes,
	(SELECT COUNT(*) FROM launches l WHERE l.landpad_id = p.id AND l.landing_attempt = 1 AND l.landing_success = 1) AS actual_successes
	FROM landpads p ORDER BY p.id`

// findDrift recomputes every site's counters and returns the sites that disagree.
func findDrift(ctx context.Context, q sqlx.QueryerContext) ([]domain.SiteDrift, error) {
	sites := []struct {
		kind  domain.SiteKind
		query string
	}{
		{domain.SiteLaunchpad, launchpadCountersQuery},
		{domain.SiteLandpad, landpadCountersQuery},
	}

	var drifts []domain.SiteDrift
	for _, site := range sites {
		var rows []*dbSiteCounters
		if err := sqlx.SelectContext(ctx, q, &rows, site.query); err != nil {
			return nil, fmt.Errorf("recomputing %s counters: %w", site.kind, err)
		}

		for _, row := range rows {
			if row.StoredAttempts == row.ActualAttempts && row.StoredSuccesses == row.ActualSuccesses {
				continue
			}
			drifts = append(drifts, domain.SiteDrift{
				Site:            site.kind,
				SiteID:          row.ID,
				Name:            row.Name,
				StoredAttempts:  row.StoredAttempts,
				ActualAttempts:  row.ActualAttempts,
				StoredSuccesses: row.StoredSuccesses,
				ActualSuccesses: row.ActualSuccesses,
			})
		}
	}
	return drifts, nil
}

func (repo *Repository) recordDrift(drifts []domain.SiteDrift) {
	perSite := map[domain.SiteKind]int{domain.SiteLaunchpad: 0, domain.SiteLandpad: 0}
	for _, d := range drifts {
		perSite[d.Site]++
	}
	for site, n := range perSite {
		repo.metrics.Drift(string(site), n)
	}
}

// CheckAggregates compares every stored site counter with the value recomputed from the launches table.
// It returns an *domain.AggregateDriftError listing the sites that disagree, or nil.
func (repo *Repository) CheckAggregates(ctx context.Context) error {
	var drifts []domain.SiteDrift
	err := repo.withTx(ctx, "check_aggregates", func(tx *sqlx.Tx) error {
		var err error
		drifts, err = findDrift(ctx, tx)
		return err
	})
	if err != nil {
		return err
	}

	repo.recordDrift(drifts)
	if len(drifts) > 0 {
		for _, d := range drifts {
			repo.logger.Warnw("site counters drifted", "site", d.Site, "id", d.SiteID, "name", d.Name,
				"stored_attempts", d.StoredAttempts, "actual_attempts", d.ActualAttempts,
				"stored_successes", d.StoredSuccesses, "actual_successes", d.ActualSuccesses)
		}
		return &domain.AggregateDriftError{Drifts: drifts}
	}
	return nil
}

// RepairAggregates overwrites the counters of every drifted site with the recomputed values and
// returns how many sites were changed.
func (repo *Repository) RepairAggregates(ctx context.Context) (int, error) {
	var repaired int
	err := repo.withTx(ctx, "repair_aggregates", func(tx *sqlx.Tx) error {
		drifts, err := findDrift(ctx, tx)
		if err != nil {
			return err
		}

		for _, d := range drifts {
			var query string
			kind := domain.KindLaunchpad
			switch d.Site {
			case domain.SiteLaunchpad:
				query = `UPDATE launchpads SET launch_attempts = ?, launch_successes = ? WHERE id = ?`
			case domain.SiteLandpad:
				query = `UPDATE landpads SET landing_attempts = ?, landing_successes = ? WHERE id = ?`
				kind = domain.KindLandpad
			}
			if _, err := tx.ExecContext(ctx, tx.Rebind(query), d.ActualAttempts, d.ActualSuccesses, d.SiteID); err != nil {
				return translateError(string(d.Site), fmt.Errorf("repairing %s: %w", d, err))
			}

			extra := map[string]any{
				"stored_attempts":  d.StoredAttempts,
				"attempts":         d.ActualAttempts,
				"stored_successes": d.StoredSuccesses,
				"successes":        d.ActualSuccesses,
			}
			if err := repo.audit(ctx, tx, domain.AuditUpdate, kind, d.SiteID, "repaired counters of "+d.Name, extra); err != nil {
				return err
			}
		}

		repaired = len(drifts)
		return nil
	})
	if err != nil {
		return 0, err
	}

	repo.recordDrift(nil)
	return repaired, nil
}
