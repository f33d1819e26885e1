package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tfkr-ae/rocketdb/domain"
)

var _ domain.AgencyRepository = (*Repository)(nil)

// dbAgency represents an agency as stored in the database.
type dbAgency struct {
	ID           int64         `db:"id"`
	Name         string        `db:"name"`
	Abbreviation string        `db:"abbreviation"`
	CountryID    sql.NullInt64 `db:"country_id"`
	FoundedYear  sql.NullInt64 `db:"founded_year"`
	Description  string        `db:"description"`
}

const agencyColumns = `id, name, abbreviation, country_id, founded_year, description`

func toDomainAgency(row *dbAgency) *domain.Agency {
	return &domain.Agency{
		ID:           row.ID,
		Name:         row.Name,
		Abbreviation: row.Abbreviation,
		CountryID:    int64Ptr(row.CountryID),
		FoundedYear:  intPtr(row.FoundedYear),
		Description:  row.Description,
	}
}

func fromDomainAgency(agency *domain.Agency) *dbAgency {
	return &dbAgency{
		ID:           agency.ID,
		Name:         agency.Name,
		Abbreviation: agency.Abbreviation,
		CountryID:    nullInt64(agency.CountryID),
		FoundedYear:  nullInt(agency.FoundedYear),
		Description:  agency.Description,
	}
}

func checkAgency(ctx context.Context, tx *sqlx.Tx, agency *domain.Agency) error {
	if err := agency.Validate(); err != nil {
		return err
	}
	return requireOptionalParent(ctx, tx, "agency", "country_id", domain.KindCountry, agency.CountryID)
}

// CreateAgency creates a new agency in the database.
func (repo *Repository) CreateAgency(ctx context.Context, agency *domain.Agency) (int64, error) {
	var id int64
	err := repo.withTx(ctx, "create_agency", func(tx *sqlx.Tx) error {
		if err := checkAgency(ctx, tx, agency); err != nil {
			return err
		}

		var err error
		query := `INSERT INTO agencies (name, abbreviation, country_id, founded_year, description)
		          VALUES (:name, :abbreviation, :country_id, :founded_year, :description)`
		id, err = insertReturningID(ctx, tx, "agency", query, fromDomainAgency(agency))
		if err != nil {
			return err
		}
		return repo.audit(ctx, tx, domain.AuditCreate, domain.KindAgency, id, "created agency "+agency.Name, nil)
	})
	if err != nil {
		return 0, err
	}

	agency.ID = id
	return id, nil
}

// GetAgency retrieves an agency by id.
func (repo *Repository) GetAgency(ctx context.Context, id int64) (*domain.Agency, error) {
	var row dbAgency
	query := repo.dbConn.Rebind(`SELECT ` + agencyColumns + ` FROM agencies WHERE id = ?`)

	if err := repo.dbConn.GetContext(ctx, &row, query, id); err != nil {
		return nil, noRows(err, "agency", id, "getting agency")
	}
	return toDomainAgency(&row), nil
}

// FindAgencyByName retrieves the first agency with the given name or abbreviation.
func (repo *Repository) FindAgencyByName(ctx context.Context, name string) (*domain.Agency, error) {
	var row dbAgency
	query := repo.dbConn.Rebind(`SELECT ` + agencyColumns + ` FROM agencies
	                             WHERE name = ? OR abbreviation = ? ORDER BY (name = ?) DESC, id LIMIT 1`)

	if err := repo.dbConn.GetContext(ctx, &row, query, name, name, name); err != nil {
		return nil, noRows(err, "agency", name, "finding agency")
	}
	return toDomainAgency(&row), nil
}

// ListAgencies retrieves all agencies ordered by name.
func (repo *Repository) ListAgencies(ctx context.Context) ([]*domain.Agency, error) {
	var rows []*dbAgency
	query := `SELECT ` + agencyColumns + ` FROM agencies ORDER BY name, id`

	if err := repo.dbConn.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("getting agencies: %w", err)
	}

	agencies := make([]*domain.Agency, len(rows))
	for i, row := range rows {
		agencies[i] = toDomainAgency(row)
	}
	return agencies, nil
}

// UpdateAgency replaces the attributes of an existing agency.
func (repo *Repository) UpdateAgency(ctx context.Context, agency *domain.Agency) error {
	return repo.withTx(ctx, "update_agency", func(tx *sqlx.Tx) error {
		if err := checkAgency(ctx, tx, agency); err != nil {
			return err
		}

		query := `UPDATE agencies SET name = :name, abbreviation = :abbreviation, country_id = :country_id,
		          founded_year = :founded_year, description = :description WHERE id = :id`
		if err := namedExecAffecting(ctx, tx, "agency", agency.ID, query, fromDomainAgency(agency)); err != nil {
			return err
		}
		return repo.audit(ctx, tx, domain.AuditUpdate, domain.KindAgency, agency.ID, "updated agency "+agency.Name, nil)
	})
}

// DeleteAgency removes an agency together with its crew, rockets, launchpads and their launches.
func (repo *Repository) DeleteAgency(ctx context.Context, id int64) error {
	return repo.DeleteEntity(ctx, domain.KindAgency, id)
}
