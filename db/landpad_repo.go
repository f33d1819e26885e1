package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tfkr-ae/rocketdb/domain"
)

var _ domain.LandpadRepository = (*Repository)(nil)

// dbLandpad represents a landpad as stored in the database.
type dbLandpad struct {
	ID               int64           `db:"id"`
	Name             string          `db:"name"`
	FullName         string          `db:"full_name"`
	Status           string          `db:"status"`
	Type             sql.NullString  `db:"type"`
	Locality         string          `db:"locality"`
	Region           string          `db:"region"`
	Latitude         sql.NullFloat64 `db:"latitude"`
	Longitude        sql.NullFloat64 `db:"longitude"`
	LandingAttempts  int             `db:"landing_attempts"`
	LandingSuccesses int             `db:"landing_successes"`
}

const landpadColumns = `id, name, full_name, status, type, locality, region, latitude, longitude,
	landing_attempts, landing_successes`

func toDomainLandpad(row *dbLandpad) *domain.Landpad {
	return &domain.Landpad{
		ID:               row.ID,
		Name:             row.Name,
		FullName:         row.FullName,
		Status:           domain.LandpadStatus(row.Status),
		Type:             domain.LandpadType(row.Type.String),
		Locality:         row.Locality,
		Region:           row.Region,
		Latitude:         floatPtr(row.Latitude),
		Longitude:        floatPtr(row.Longitude),
		LandingAttempts:  row.LandingAttempts,
		LandingSuccesses: row.LandingSuccesses,
	}
}

func fromDomainLandpad(landpad *domain.Landpad) *dbLandpad {
	return &dbLandpad{
		ID:        landpad.ID,
		Name:      landpad.Name,
		FullName:  landpad.FullName,
		Status:    string(landpad.Status),
		Type:      nullString(string(landpad.Type)),
		Locality:  landpad.Locality,
		Region:    landpad.Region,
		Latitude:  nullFloat(landpad.Latitude),
		Longitude: nullFloat(landpad.Longitude),
	}
}

// CreateLandpad creates a new landpad with zeroed counters.
func (repo *Repository) CreateLandpad(ctx context.Context, landpad *domain.Landpad) (int64, error) {
	var id int64
	err := repo.withTx(ctx, "create_landpad", func(tx *sqlx.Tx) error {
		if err := landpad.Validate(); err != nil {
			return err
		}

		var err error
		query := `INSERT INTO landpads (name, full_name, status, type, locality, region, latitude, longitude)
		          VALUES (:name, :full_name, :status, :type, :locality, :region, :latitude, :longitude)`
		id, err = insertReturningID(ctx, tx, "landpad", query, fromDomainLandpad(landpad))
		if err != nil {
			return err
		}
		return repo.audit(ctx, tx, domain.AuditCreate, domain.KindLandpad, id, "created landpad "+landpad.Name, nil)
	})
	if err != nil {
		return 0, err
	}

	landpad.ID = id
	landpad.LandingAttempts, landpad.LandingSuccesses = 0, 0
	return id, nil
}

// GetLandpad retrieves a landpad by id.
func (repo *Repository) GetLandpad(ctx context.Context, id int64) (*domain.Landpad, error) {
	var row dbLandpad
	query := repo.dbConn.Rebind(`SELECT ` + landpadColumns + ` FROM landpads WHERE id = ?`)

	if err := repo.dbConn.GetContext(ctx, &row, query, id); err != nil {
		return nil, noRows(err, "landpad", id, "getting landpad")
	}
	return toDomainLandpad(&row), nil
}

// FindLandpadByName retrieves the landpad with the given short or full name.
func (repo *Repository) FindLandpadByName(ctx context.Context, name string) (*domain.Landpad, error) {
	var row dbLandpad
	query := repo.dbConn.Rebind(`SELECT ` + landpadColumns + ` FROM landpads
	          WHERE name = ? OR full_name = ? ORDER BY (name = ?) DESC, id LIMIT 1`)

	if err := repo.dbConn.GetContext(ctx, &row, query, name, name, name); err != nil {
		return nil, noRows(err, "landpad", name, "finding landpad")
	}
	return toDomainLandpad(&row), nil
}

// ListLandpads retrieves all landpads ordered by name.
func (repo *Repository) ListLandpads(ctx context.Context) ([]*domain.Landpad, error) {
	var rows []*dbLandpad
	query := `SELECT ` + landpadColumns + ` FROM landpads ORDER BY name, id`

	if err := repo.dbConn.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("getting landpads: %w", err)
	}

	landpads := make([]*domain.Landpad, len(rows))
	for i, row := range rows {
		landpads[i] = toDomainLandpad(row)
	}
	return landpads, nil
}

// UpdateLandpad replaces the attributes of an existing landpad, leaving its counters untouched.
func (repo *Repository) UpdateLandpad(ctx context.Context, landpad *domain.Landpad) error {
	return repo.withTx(ctx, "update_landpad", func(tx *sqlx.Tx) error {
		if err := landpad.Validate(); err != nil {
			return err
		}

		query := `UPDATE landpads SET name = :name, full_name = :full_name, status = :status, type = :type,
		          locality = :locality, region = :region, latitude = :latitude, longitude = :longitude WHERE id = :id`
		if err := namedExecAffecting(ctx, tx, "landpad", landpad.ID, query, fromDomainLandpad(landpad)); err != nil {
			return err
		}
		return repo.audit(ctx, tx, domain.AuditUpdate, domain.KindLandpad, landpad.ID, "updated landpad "+landpad.Name, nil)
	})
}

// DeleteLandpad removes a landpad. Launches that used it are kept and unlinked.
func (repo *Repository) DeleteLandpad(ctx context.Context, id int64) error {
	return repo.DeleteEntity(ctx, domain.KindLandpad, id)
}
