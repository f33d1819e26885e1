package db

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/jmoiron/sqlx"
	"github.com/tfkr-ae/rocketdb/domain"
)

// siteKey addresses one launchpad or landpad.
type siteKey struct {
	site domain.SiteKind
	id   int64
}

type counterDelta struct {
	attempts  int
	successes int
}

// counterDeltas accumulates the counter changes implied by launch writes so each site is
// updated once per transaction, with a relative increment.
type counterDeltas map[siteKey]counterDelta

// addLaunch adds (sign = +1) or removes (sign = -1) the contribution of a launch row.
// A launch counts towards its launchpad always and towards its landpad only when a landing was attempted.
func (d counterDeltas) addLaunch(row *dbLaunch, sign int) {
	if row.LaunchpadID.Valid {
		key := siteKey{site: domain.SiteLaunchpad, id: row.LaunchpadID.Int64}
		delta := d[key]
		delta.attempts += sign
		if row.Success {
			delta.successes += sign
		}
		d[key] = delta
	}

	if row.LandpadID.Valid && bool(row.LandingAttempt) {
		key := siteKey{site: domain.SiteLandpad, id: row.LandpadID.Int64}
		delta := d[key]
		delta.attempts += sign
		if row.LandingSuccess {
			delta.successes += sign
		}
		d[key] = delta
	}
}

// drop forgets the deltas of sites that are deleted in the same transaction.
func (d counterDeltas) drop(site domain.SiteKind, ids []int64) {
	for _, id := range ids {
		delete(d, siteKey{site: site, id: id})
	}
}

// apply writes the accumulated deltas in a stable site order.
func (d counterDeltas) apply(ctx context.Context, tx *sqlx.Tx) error {
	keys := make([]siteKey, 0, len(d))
	for key, delta := range d {
		if delta != (counterDelta{}) {
			keys = append(keys, key)
		}
	}
	slices.SortFunc(keys, func(a, b siteKey) int {
		return cmp.Or(cmp.Compare(a.site, b.site), cmp.Compare(a.id, b.id))
	})

	for _, key := range keys {
		delta := d[key]
		var query string
		switch key.site {
		case domain.SiteLaunchpad:
			query = `UPDATE launchpads SET launch_attempts = launch_attempts + ?, launch_successes = launch_successes + ? WHERE id = ?`
		case domain.SiteLandpad:
			query = `UPDATE landpads SET landing_attempts = landing_attempts + ?, landing_successes = landing_successes + ? WHERE id = ?`
		default:
			return fmt.Errorf("unknown site kind %q", key.site)
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(query), delta.attempts, delta.successes, key.id); err != nil {
			return translateError(string(key.site), fmt.Errorf("adjusting counters of %s %d: %w", key.site, key.id, err))
		}
	}
	return nil
}
