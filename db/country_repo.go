package db

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tfkr-ae/rocketdb/domain"
)

var _ domain.CountryRepository = (*Repository)(nil)

// dbCountry represents a country as stored in the database.
type dbCountry struct {
	ID      int64  `db:"id"`       // Unique identifier for the country.
	ISOCode string `db:"iso_code"` // ISO-3166 alpha-3 code.
	Name    string `db:"name"`     // Display name.
}

// toDomainCountry converts a dbCountry to a domain.Country.
func toDomainCountry(row *dbCountry) *domain.Country {
	return &domain.Country{
		ID:      row.ID,
		ISOCode: row.ISOCode,
		Name:    row.Name,
	}
}

func checkCountryUnique(ctx context.Context, tx *sqlx.Tx, country *domain.Country) error {
	var taken struct {
		ISOCode int `db:"iso_code"`
		Name    int `db:"name"`
	}
	query := `SELECT
	            (SELECT COUNT(*) FROM countries WHERE iso_code = ? AND id <> ?) AS iso_code,
	            (SELECT COUNT(*) FROM countries WHERE name = ? AND id <> ?) AS name`

	err := tx.GetContext(ctx, &taken, tx.Rebind(query), country.ISOCode, country.ID, country.Name, country.ID)
	if err != nil {
		return fmt.Errorf("checking country uniqueness: %w", err)
	}

	if taken.ISOCode > 0 {
		return &domain.ConstraintViolation{Entity: "country", Field: "iso_code", Value: country.ISOCode, Reason: "already exists"}
	}
	if taken.Name > 0 {
		return &domain.ConstraintViolation{Entity: "country", Field: "name", Value: country.Name, Reason: "already exists"}
	}
	return nil
}

// CreateCountry creates a new country in the database.
func (repo *Repository) CreateCountry(ctx context.Context, country *domain.Country) (int64, error) {
	var id int64
	err := repo.withTx(ctx, "create_country", func(tx *sqlx.Tx) error {
		if err := country.Validate(); err != nil {
			return err
		}
		if err := checkCountryUnique(ctx, tx, country); err != nil {
			return err
		}

		var err error
		query := `INSERT INTO countries (iso_code, name) VALUES (:iso_code, :name)`
		id, err = insertReturningID(ctx, tx, "country", query, &dbCountry{ISOCode: country.ISOCode, Name: country.Name})
		if err != nil {
			return err
		}
		return repo.audit(ctx, tx, domain.AuditCreate, domain.KindCountry, id, "created country "+country.ISOCode, nil)
	})
	if err != nil {
		return 0, err
	}

	country.ID = id
	return id, nil
}

// GetCountry retrieves a country by id.
func (repo *Repository) GetCountry(ctx context.Context, id int64) (*domain.Country, error) {
	var row dbCountry
	query := repo.dbConn.Rebind(`SELECT id, iso_code, name FROM countries WHERE id = ?`)

	if err := repo.dbConn.GetContext(ctx, &row, query, id); err != nil {
		return nil, noRows(err, "country", id, "getting country")
	}
	return toDomainCountry(&row), nil
}

// GetCountryByISOCode retrieves a country by its ISO-3166 alpha-3 code.
func (repo *Repository) GetCountryByISOCode(ctx context.Context, isoCode string) (*domain.Country, error) {
	var row dbCountry
	query := repo.dbConn.Rebind(`SELECT id, iso_code, name FROM countries WHERE iso_code = ?`)

	if err := repo.dbConn.GetContext(ctx, &row, query, isoCode); err != nil {
		return nil, noRows(err, "country", isoCode, "getting country by iso code")
	}
	return toDomainCountry(&row), nil
}

// ListCountries retrieves all countries ordered by name.
func (repo *Repository) ListCountries(ctx context.Context) ([]*domain.Country, error) {
	var rows []*dbCountry
	query := `SELECT id, iso_code, name FROM countries ORDER BY name`

	if err := repo.dbConn.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("getting countries: %w", err)
	}

	countries := make([]*domain.Country, len(rows))
	for i, row := range rows {
		countries[i] = toDomainCountry(row)
	}
	return countries, nil
}

// UpdateCountry replaces the code and name of an existing country.
func (repo *Repository) UpdateCountry(ctx context.Context, country *domain.Country) error {
	return repo.withTx(ctx, "update_country", func(tx *sqlx.Tx) error {
		if err := country.Validate(); err != nil {
			return err
		}
		if err := checkCountryUnique(ctx, tx, country); err != nil {
			return err
		}

		query := `UPDATE countries SET iso_code = :iso_code, name = :name WHERE id = :id`
		row := &dbCountry{ID: country.ID, ISOCode: country.ISOCode, Name: country.Name}
		if err := namedExecAffecting(ctx, tx, "country", country.ID, query, row); err != nil {
			return err
		}
		return repo.audit(ctx, tx, domain.AuditUpdate, domain.KindCountry, country.ID, "updated country "+country.ISOCode, nil)
	})
}

// DeleteCountry removes a country. Agencies of the country are kept and unlinked.
func (repo *Repository) DeleteCountry(ctx context.Context, id int64) error {
	return repo.DeleteEntity(ctx, domain.KindCountry, id)
}
