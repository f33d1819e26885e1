package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tfkr-ae/rocketdb/domain"
)

var _ domain.LaunchpadRepository = (*Repository)(nil)

// dbLaunchpad represents a launchpad as stored in the database.
type dbLaunchpad struct {
	ID              int64           `db:"id"`               // Unique identifier for the launchpad.
	Name            string          `db:"name"`             // Short name of the launchpad.
	FullName        string          `db:"full_name"`        // Full name of the launchpad.
	AgencyID        int64           `db:"agency_id"`        // Owning agency.
	Status          string          `db:"status"`           // Operational status.
	Locality        string          `db:"locality"`         // Town or base.
	Region          string          `db:"region"`           // State or province.
	Latitude        sql.NullFloat64 `db:"latitude"`         // Degrees north.
	Longitude       sql.NullFloat64 `db:"longitude"`        // Degrees east.
	LaunchAttempts  int             `db:"launch_attempts"`  // Derived from launches.
	LaunchSuccesses int             `db:"launch_successes"` // Derived from launches.
}

const launchpadColumns = `id, name, full_name, agency_id, status, locality, region, latitude, longitude,
	launch_attempts, launch_successes`

// toDomainLaunchpad converts a dbLaunchpad to a domain.Launchpad.
func toDomainLaunchpad(row *dbLaunchpad) *domain.Launchpad {
	return &domain.Launchpad{
		ID:              row.ID,
		Name:            row.Name,
		FullName:        row.FullName,
		AgencyID:        row.AgencyID,
		Status:          domain.LaunchpadStatus(row.Status),
		Locality:        row.Locality,
		Region:          row.Region,
		Latitude:        floatPtr(row.Latitude),
		Longitude:       floatPtr(row.Longitude),
		LaunchAttempts:  row.LaunchAttempts,
		LaunchSuccesses: row.LaunchSuccesses,
	}
}

// fromDomainLaunchpad converts a domain.Launchpad to a dbLaunchpad. Counters are not carried over.
func fromDomainLaunchpad(launchpad *domain.Launchpad) *dbLaunchpad {
	return &dbLaunchpad{
		ID:        launchpad.ID,
		Name:      launchpad.Name,
		FullName:  launchpad.FullName,
		AgencyID:  launchpad.AgencyID,
		Status:    string(launchpad.Status),
		Locality:  launchpad.Locality,
		Region:    launchpad.Region,
		Latitude:  nullFloat(launchpad.Latitude),
		Longitude: nullFloat(launchpad.Longitude),
	}
}

func checkLaunchpad(ctx context.Context, tx *sqlx.Tx, launchpad *domain.Launchpad) error {
	if err := launchpad.Validate(); err != nil {
		return err
	}
	return requireParent(ctx, tx, "launchpad", "agency_id", domain.KindAgency, launchpad.AgencyID)
}

// CreateLaunchpad creates a new launchpad in the database. Its counters start at zero
// whatever the caller supplies.
func (repo *Repository) CreateLaunchpad(ctx context.Context, launchpad *domain.Launchpad) (int64, error) {
	var id int64
	err := repo.withTx(ctx, "create_launchpad", func(tx *sqlx.Tx) error {
		if err := checkLaunchpad(ctx, tx, launchpad); err != nil {
			return err
		}

		var err error
		query := `INSERT INTO launchpads (name, full_name, agency_id, status, locality, region, latitude, longitude)
		          VALUES (:name, :full_name, :agency_id, :status, :locality, :region, :latitude, :longitude)`
		id, err = insertReturningID(ctx, tx, "launchpad", query, fromDomainLaunchpad(launchpad))
		if err != nil {
			return err
		}
		return repo.audit(ctx, tx, domain.AuditCreate, domain.KindLaunchpad, id, "created launchpad "+launchpad.Name, nil)
	})
	if err != nil {
		return 0, err
	}

	launchpad.ID = id
	launchpad.LaunchAttempts, launchpad.LaunchSuccesses = 0, 0
	return id, nil
}

// GetLaunchpad retrieves a launchpad by id.
func (repo *Repository) GetLaunchpad(ctx context.Context, id int64) (*domain.Launchpad, error) {
	var row dbLaunchpad
	query := repo.dbConn.Rebind(`SELECT ` + launchpadColumns + ` FROM launchpads WHERE id = ?`)

	if err := repo.dbConn.GetContext(ctx, &row, query, id); err != nil {
		return nil, noRows(err, "launchpad", id, "getting launchpad")
	}
	return toDomainLaunchpad(&row), nil
}

// FindLaunchpadByName retrieves the launchpad with the given short or full name.
func (repo *Repository) FindLaunchpadByName(ctx context.Context, name string) (*domain.Launchpad, error) {
	var row dbLaunchpad
	query := repo.dbConn.Rebind(`SELECT ` + launchpadColumns + ` FROM launchpads
	          WHERE name = ? OR full_name = ? ORDER BY (name = ?) DESC, id LIMIT 1`)

	if err := repo.dbConn.GetContext(ctx, &row, query, name, name, name); err != nil {
		return nil, noRows(err, "launchpad", name, "finding launchpad")
	}
	return toDomainLaunchpad(&row), nil
}

// ListLaunchpads retrieves all launchpads from the database.
func (repo *Repository) ListLaunchpads(ctx context.Context) ([]*domain.Launchpad, error) {
	var rows []*dbLaunchpad
	query := `SELECT ` + launchpadColumns + ` FROM launchpads ORDER BY name, id`

	err := repo.dbConn.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, fmt.Errorf("getting launchpads: %w", err)
	}

	launchpads := make([]*domain.Launchpad, len(rows))
	for i, row := range rows {
		launchpads[i] = toDomainLaunchpad(row)
	}
	return launchpads, nil
}

// UpdateLaunchpad updates an existing launchpad in the database. The counters are left untouched.
func (repo *Repository) UpdateLaunchpad(ctx context.Context, launchpad *domain.Launchpad) error {
	return repo.withTx(ctx, "update_launchpad", func(tx *sqlx.Tx) error {
		if err := checkLaunchpad(ctx, tx, launchpad); err != nil {
			return err
		}

		query := `UPDATE launchpads SET name = :name, full_name = :full_name, agency_id = :agency_id, status = :status,
		          locality = :locality, region = :region, latitude = :latitude, longitude = :longitude WHERE id = :id`
		if err := namedExecAffecting(ctx, tx, "launchpad", launchpad.ID, query, fromDomainLaunchpad(launchpad)); err != nil {
			return err
		}
		return repo.audit(ctx, tx, domain.AuditUpdate, domain.KindLaunchpad, launchpad.ID, "updated launchpad "+launchpad.Name, nil)
	})
}

// DeleteLaunchpad removes a launchpad from the database together with the launches made from it.
func (repo *Repository) DeleteLaunchpad(ctx context.Context, id int64) error {
	return repo.DeleteEntity(ctx, domain.KindLaunchpad, id)
}
