package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/tfkr-ae/rocketdb/domain"
)

var _ domain.RocketRepository = (*Repository)(nil)

// dbRocket represents a rocket as stored in the database.
type dbRocket struct {
	ID               int64          `db:"id"`
	Name             string         `db:"name"`
	AgencyID         int64          `db:"agency_id"`
	Active           flag           `db:"active"`
	Stages           int            `db:"stages"`
	Boosters         int            `db:"boosters"`
	CostPerLaunch    int64          `db:"cost_per_launch"`
	SuccessRatePct   float64        `db:"success_rate_pct"`
	FirstFlight      sql.NullString `db:"first_flight"`
	HeightM          float64        `db:"height_m"`
	DiameterM        float64        `db:"diameter_m"`
	MassKg           float64        `db:"mass_kg"`
	LEOPayloadKg     float64        `db:"leo_payload_kg"`
	GTOPayloadKg     float64        `db:"gto_payload_kg"`
	EngineType       string         `db:"engine_type"`
	EngineCount      int            `db:"engine_count"`
	Propellant1      string         `db:"propellant_1"`
	Propellant2      string         `db:"propellant_2"`
	ThrustSeaLevelKN float64        `db:"thrust_sea_level_kn"`
	ThrustVacuumKN   float64        `db:"thrust_vacuum_kn"`
	Description      string         `db:"description"`
}

const rocketColumns = `id, name, agency_id, active, stages, boosters, cost_per_launch, success_rate_pct, first_flight,
	height_m, diameter_m, mass_kg, leo_payload_kg, gto_payload_kg, engine_type, engine_count,
	propellant_1, propellant_2, thrust_sea_level_kn, thrust_vacuum_kn, description`

// rocketOrder lists flown vehicles by first flight, then the ones that have not flown yet.
const rocketOrder = ` ORDER BY first_flight IS NULL, first_flight, name, id`

func toDomainRocket(row *dbRocket) *domain.Rocket {
	return &domain.Rocket{
		ID:               row.ID,
		Name:             row.Name,
		AgencyID:         row.AgencyID,
		Active:           bool(row.Active),
		Stages:           row.Stages,
		Boosters:         row.Boosters,
		CostPerLaunch:    row.CostPerLaunch,
		SuccessRatePct:   row.SuccessRatePct,
		FirstFlight:      row.FirstFlight.String,
		HeightM:          row.HeightM,
		DiameterM:        row.DiameterM,
		MassKg:           row.MassKg,
		LEOPayloadKg:     row.LEOPayloadKg,
		GTOPayloadKg:     row.GTOPayloadKg,
		EngineType:       row.EngineType,
		EngineCount:      row.EngineCount,
		Propellant1:      row.Propellant1,
		Propellant2:      row.Propellant2,
		ThrustSeaLevelKN: row.ThrustSeaLevelKN,
		ThrustVacuumKN:   row.ThrustVacuumKN,
		Description:      row.Description,
	}
}

func fromDomainRocket(rocket *domain.Rocket) *dbRocket {
	return &dbRocket{
		ID:               rocket.ID,
		Name:             rocket.Name,
		AgencyID:         rocket.AgencyID,
		Active:           flag(rocket.Active),
		Stages:           rocket.Stages,
		Boosters:         rocket.Boosters,
		CostPerLaunch:    rocket.CostPerLaunch,
		SuccessRatePct:   rocket.SuccessRatePct,
		FirstFlight:      nullString(rocket.FirstFlight),
		HeightM:          rocket.HeightM,
		DiameterM:        rocket.DiameterM,
		MassKg:           rocket.MassKg,
		LEOPayloadKg:     rocket.LEOPayloadKg,
		GTOPayloadKg:     rocket.GTOPayloadKg,
		EngineType:       rocket.EngineType,
		EngineCount:      rocket.EngineCount,
		Propellant1:      rocket.Propellant1,
		Propellant2:      rocket.Propellant2,
		ThrustSeaLevelKN: rocket.ThrustSeaLevelKN,
		ThrustVacuumKN:   rocket.ThrustVacuumKN,
		Description:      rocket.Description,
	}
}

func toDomainRockets(rows []*dbRocket) []*domain.Rocket {
	rockets := make([]*domain.Rocket, len(rows))
	for i, row := range rows {
		rockets[i] = toDomainRocket(row)
	}
	return rockets
}

func checkRocket(ctx context.Context, tx *sqlx.Tx, rocket *domain.Rocket) error {
	if err := rocket.Validate(); err != nil {
		return err
	}
	return requireParent(ctx, tx, "rocket", "agency_id", domain.KindAgency, rocket.AgencyID)
}

// CreateRocket creates a new rocket in the database.
func (repo *Repository) CreateRocket(ctx context.Context, rocket *domain.Rocket) (int64, error) {
	var id int64
	err := repo.withTx(ctx, "create_rocket", func(tx *sqlx.Tx) error {
		if err := checkRocket(ctx, tx, rocket); err != nil {
			return err
		}

		var err error
		query := `INSERT INTO rockets (name, agency_id, active, stages, boosters, cost_per_launch, success_rate_pct,
		          first_flight, height_m, diameter_m, mass_kg, leo_payload_kg, gto_payload_kg, engine_type, engine_count,
		          propellant_1, propellant_2, thrust_sea_level_kn, thrust_vacuum_kn, description)
		          VALUES (:name, :agency_id, :active, :stages, :boosters, :cost_per_launch, :success_rate_pct,
		          :first_flight, :height_m, :diameter_m, :mass_kg, :leo_payload_kg, :gto_payload_kg, :engine_type, :engine_count,
		          :propellant_1, :propellant_2, :thrust_sea_level_kn, :thrust_vacuum_kn, :description)`
		id, err = insertReturningID(ctx, tx, "rocket", query, fromDomainRocket(rocket))
		if err != nil {
			return err
		}
		return repo.audit(ctx, tx, domain.AuditCreate, domain.KindRocket, id, "created rocket "+rocket.Name, nil)
	})
	if err != nil {
		return 0, err
	}

	rocket.ID = id
	return id, nil
}

// GetRocket retrieves a rocket by id.
func (repo *Repository) GetRocket(ctx context.Context, id int64) (*domain.Rocket, error) {
	var row dbRocket
	query := repo.dbConn.Rebind(`SELECT ` + rocketColumns + ` FROM rockets WHERE id = ?`)

	if err := repo.dbConn.GetContext(ctx, &row, query, id); err != nil {
		return nil, noRows(err, "rocket", id, "getting rocket")
	}
	return toDomainRocket(&row), nil
}

// FindRocketByName retrieves the first rocket with the given name.
func (repo *Repository) FindRocketByName(ctx context.Context, name string) (*domain.Rocket, error) {
	var row dbRocket
	query := repo.dbConn.Rebind(`SELECT ` + rocketColumns + ` FROM rockets WHERE name = ? ORDER BY id LIMIT 1`)

	if err := repo.dbConn.GetContext(ctx, &row, query, name); err != nil {
		return nil, noRows(err, "rocket", name, "finding rocket")
	}
	return toDomainRocket(&row), nil
}

// ListRockets retrieves all rockets ordered by first flight.
func (repo *Repository) ListRockets(ctx context.Context) ([]*domain.Rocket, error) {
	var rows []*dbRocket
	query := `SELECT ` + rocketColumns + ` FROM rockets` + rocketOrder

	if err := repo.dbConn.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("getting rockets: %w", err)
	}
	return toDomainRockets(rows), nil
}

// ListRocketsPage returns one page of rockets in first flight order together with the total rocket count.
// Pages are numbered from 1.
func (repo *Repository) ListRocketsPage(ctx context.Context, page, size int) ([]*domain.Rocket, int, error) {
	if size <= 0 {
		return nil, 0, fmt.Errorf("page size must be positive, got %d", size)
	}
	if page < 1 {
		page = 1
	}

	var total int
	if err := repo.dbConn.GetContext(ctx, &total, `SELECT COUNT(*) FROM rockets`); err != nil {
		return nil, 0, fmt.Errorf("counting rockets: %w", err)
	}

	var rows []*dbRocket
	query := repo.dbConn.Rebind(`SELECT ` + rocketColumns + ` FROM rockets` + rocketOrder + ` LIMIT ? OFFSET ?`)
	if err := repo.dbConn.SelectContext(ctx, &rows, query, size, (page-1)*size); err != nil {
		return nil, 0, fmt.Errorf("getting rockets page %d: %w", page, err)
	}
	return toDomainRockets(rows), total, nil
}

// UpdateRocket replaces the attributes of an existing rocket.
func (repo *Repository) UpdateRocket(ctx context.Context, rocket *domain.Rocket) error {
	return repo.withTx(ctx, "update_rocket", func(tx *sqlx.Tx) error {
		if err := checkRocket(ctx, tx, rocket); err != nil {
			return err
		}

		query := `UPDATE rockets SET name = :name, agency_id = :agency_id, active = :active, stages = :stages,
		          boosters = :boosters, cost_per_launch = :cost_per_launch, success_rate_pct = :success_rate_pct,
		          first_flight = :first_flight, height_m = :height_m, diameter_m = :diameter_m, mass_kg = :mass_kg,
		          leo_payload_kg = :leo_payload_kg, gto_payload_kg = :gto_payload_kg, engine_type = :engine_type,
		          engine_count = :engine_count, propellant_1 = :propellant_1, propellant_2 = :propellant_2,
		          thrust_sea_level_kn = :thrust_sea_level_kn, thrust_vacuum_kn = :thrust_vacuum_kn,
		          description = :description WHERE id = :id`
		if err := namedExecAffecting(ctx, tx, "rocket", rocket.ID, query, fromDomainRocket(rocket)); err != nil {
			return err
		}
		return repo.audit(ctx, tx, domain.AuditUpdate, domain.KindRocket, rocket.ID, "updated rocket "+rocket.Name, nil)
	})
}

// DeleteRocket removes a rocket together with its launches.
func (repo *Repository) DeleteRocket(ctx context.Context, id int64) error {
	return repo.DeleteEntity(ctx, domain.KindRocket, id)
}
