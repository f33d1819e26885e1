package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tfkr-ae/rocketdb/domain"
)

var _ domain.CrewRepository = (*Repository)(nil)

// dbCrew represents a crew member as stored in the database.
type dbCrew struct {
	ID                 int64  `db:"id"`
	Name               string `db:"name"`
	AgencyID           int64  `db:"agency_id"`
	Status             string `db:"status"`
	Gender             string `db:"gender"`
	Nationality        string `db:"nationality"`
	MissionCount       int    `db:"mission_count"`
	TimeInSpaceSeconds int64  `db:"time_in_space_seconds"`
	Wikipedia          string `db:"wikipedia"`
}

const crewColumns = `id, name, agency_id, status, gender, nationality, mission_count, time_in_space_seconds, wikipedia`

func toDomainCrew(row *dbCrew) *domain.Crew {
	return &domain.Crew{
		ID:           row.ID,
		Name:         row.Name,
		AgencyID:     row.AgencyID,
		Status:       domain.CrewStatus(row.Status),
		Gender:       domain.Gender(row.Gender),
		Nationality:  row.Nationality,
		MissionCount: row.MissionCount,
		TimeInSpace:  time.Duration(row.TimeInSpaceSeconds) * time.Second,
		Wikipedia:    row.Wikipedia,
	}
}

func fromDomainCrew(crew *domain.Crew) *dbCrew {
	return &dbCrew{
		ID:                 crew.ID,
		Name:               crew.Name,
		AgencyID:           crew.AgencyID,
		Status:             string(crew.Status),
		Gender:             string(crew.Gender),
		Nationality:        crew.Nationality,
		MissionCount:       crew.MissionCount,
		TimeInSpaceSeconds: int64(crew.TimeInSpace / time.Second),
		Wikipedia:          crew.Wikipedia,
	}
}

func checkCrew(ctx context.Context, tx *sqlx.Tx, crew *domain.Crew) error {
	if err := crew.Validate(); err != nil {
		return err
	}
	return requireParent(ctx, tx, "crew", "agency_id", domain.KindAgency, crew.AgencyID)
}

// CreateCrew creates a new crew member in the database.
func (repo *Repository) CreateCrew(ctx context.Context, crew *domain.Crew) (int64, error) {
	var id int64
	err := repo.withTx(ctx, "create_crew", func(tx *sqlx.Tx) error {
		if err := checkCrew(ctx, tx, crew); err != nil {
			return err
		}

		var err error
		query := `INSERT INTO crew (name, agency_id, status, gender, nationality, mission_count, time_in_space_seconds, wikipedia)
		          VALUES (:name, :agency_id, :status, :gender, :nationality, :mission_count, :time_in_space_seconds, :wikipedia)`
		id, err = insertReturningID(ctx, tx, "crew", query, fromDomainCrew(crew))
		if err != nil {
			return err
		}
		return repo.audit(ctx, tx, domain.AuditCreate, domain.KindCrew, id, "created crew member "+crew.Name, nil)
	})
	if err != nil {
		return 0, err
	}

	crew.ID = id
	return id, nil
}

// GetCrew retrieves a crew member by id.
func (repo *Repository) GetCrew(ctx context.Context, id int64) (*domain.Crew, error) {
	var row dbCrew
	query := repo.dbConn.Rebind(`SELECT ` + crewColumns + ` FROM crew WHERE id = ?`)

	if err := repo.dbConn.GetContext(ctx, &row, query, id); err != nil {
		return nil, noRows(err, "crew", id, "getting crew")
	}
	return toDomainCrew(&row), nil
}

// FindCrewByName retrieves the first crew member with the given name.
func (repo *Repository) FindCrewByName(ctx context.Context, name string) (*domain.Crew, error) {
	var row dbCrew
	query := repo.dbConn.Rebind(`SELECT ` + crewColumns + ` FROM crew WHERE name = ? ORDER BY id LIMIT 1`)

	if err := repo.dbConn.GetContext(ctx, &row, query, name); err != nil {
		return nil, noRows(err, "crew", name, "finding crew")
	}
	return toDomainCrew(&row), nil
}

// ListCrew retrieves crew members ordered by name, optionally restricted to one agency.
func (repo *Repository) ListCrew(ctx context.Context, agencyID *int64) ([]*domain.Crew, error) {
	var rows []*dbCrew
	query := `SELECT ` + crewColumns + ` FROM crew`
	args := []any{}
	if agencyID != nil {
		query += ` WHERE agency_id = ?`
		args = append(args, *agencyID)
	}
	query += ` ORDER BY name, id`

	if err := repo.dbConn.SelectContext(ctx, &rows, repo.dbConn.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("getting crew: %w", err)
	}

	crew := make([]*domain.Crew, len(rows))
	for i, row := range rows {
		crew[i] = toDomainCrew(row)
	}
	return crew, nil
}

// UpdateCrew replaces the attributes of an existing crew member.
func (repo *Repository) UpdateCrew(ctx context.Context, crew *domain.Crew) error {
	return repo.withTx(ctx, "update_crew", func(tx *sqlx.Tx) error {
		if err := checkCrew(ctx, tx, crew); err != nil {
			return err
		}

		query := `UPDATE crew SET name = :name, agency_id = :agency_id, status = :status, gender = :gender,
		          nationality = :nationality, mission_count = :mission_count,
		          time_in_space_seconds = :time_in_space_seconds, wikipedia = :wikipedia WHERE id = :id`
		if err := namedExecAffecting(ctx, tx, "crew", crew.ID, query, fromDomainCrew(crew)); err != nil {
			return err
		}
		return repo.audit(ctx, tx, domain.AuditUpdate, domain.KindCrew, crew.ID, "updated crew member "+crew.Name, nil)
	})
}

// DeleteCrew removes a crew member and their launch assignments.
func (repo *Repository) DeleteCrew(ctx context.Context, id int64) error {
	return repo.DeleteEntity(ctx, domain.KindCrew, id)
}
