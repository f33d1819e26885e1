package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/tfkr-ae/rocketdb/domain"
)

var _ domain.LaunchRepository = (*Repository)(nil)

// dbLaunch represents a launch as stored in the database.
type dbLaunch struct {
	ID             int64          `db:"id"`
	Name           string         `db:"name"`
	FlightNumber   int            `db:"flight_number"`
	RocketID       int64          `db:"rocket_id"`
	LaunchpadID    sql.NullInt64  `db:"launchpad_id"`
	LandpadID      sql.NullInt64  `db:"landpad_id"`
	DateUTC        string         `db:"date_utc"`
	DateUnix       int64          `db:"date_unix"`
	TBD            flag           `db:"tbd"`
	NET            flag           `db:"net"`
	Success        flag           `db:"success"`
	Upcoming       flag           `db:"upcoming"`
	LandingAttempt flag           `db:"landing_attempt"`
	LandingSuccess flag           `db:"landing_success"`
	FairingStatus  sql.NullString `db:"fairing_status"`
	LandingType    sql.NullString `db:"landing_type"`
	Details        string         `db:"details"`
}

const launchColumns = `id, name, flight_number, rocket_id, launchpad_id, landpad_id, date_utc, date_unix,
	tbd, net, success, upcoming, landing_attempt, landing_success, fairing_status, landing_type, details`

// launchOrder is the chronological order of launches.
const launchOrder = ` ORDER BY date_unix, flight_number, id`

func toDomainLaunch(row *dbLaunch) *domain.Launch {
	return &domain.Launch{
		ID:             row.ID,
		Name:           row.Name,
		FlightNumber:   row.FlightNumber,
		RocketID:       row.RocketID,
		LaunchpadID:    int64Ptr(row.LaunchpadID),
		LandpadID:      int64Ptr(row.LandpadID),
		DateUTC:        row.DateUTC,
		DateUnix:       row.DateUnix,
		TBD:            bool(row.TBD),
		NET:            bool(row.NET),
		Success:        bool(row.Success),
		Upcoming:       bool(row.Upcoming),
		LandingAttempt: bool(row.LandingAttempt),
		LandingSuccess: bool(row.LandingSuccess),
		FairingStatus:  domain.FairingStatus(row.FairingStatus.String),
		LandingType:    domain.LandingType(row.LandingType.String),
		Details:        row.Details,
	}
}

func fromDomainLaunch(launch *domain.Launch) *dbLaunch {
	return &dbLaunch{
		ID:             launch.ID,
		Name:           launch.Name,
		FlightNumber:   launch.FlightNumber,
		RocketID:       launch.RocketID,
		LaunchpadID:    nullInt64(launch.LaunchpadID),
		LandpadID:      nullInt64(launch.LandpadID),
		DateUTC:        launch.DateUTC,
		DateUnix:       launch.DateUnix,
		TBD:            flag(launch.TBD),
		NET:            flag(launch.NET),
		Success:        flag(launch.Success),
		Upcoming:       flag(launch.Upcoming),
		LandingAttempt: flag(launch.LandingAttempt),
		LandingSuccess: flag(launch.LandingSuccess),
		FairingStatus:  nullString(string(launch.FairingStatus)),
		LandingType:    nullString(string(launch.LandingType)),
		Details:        launch.Details,
	}
}

func toDomainLaunches(rows []*dbLaunch) []*domain.Launch {
	launches := make([]*domain.Launch, len(rows))
	for i, row := range rows {
		launches[i] = toDomainLaunch(row)
	}
	return launches
}

// forUpdate returns the row locking clause for drivers that support it.
// SQLite serializes writers on its single connection instead.
func forUpdate(tx *sqlx.Tx) string {
	if tx.DriverName() == DriverPostgres {
		return ` FOR UPDATE`
	}
	return ``
}

// checkLaunch normalizes the dates of launch, validates it and resolves its references.
func checkLaunch(ctx context.Context, tx *sqlx.Tx, launch *domain.Launch) error {
	if err := launch.NormalizeDate(); err != nil {
		return err
	}
	if err := launch.Validate(); err != nil {
		return err
	}
	if err := requireParent(ctx, tx, "launch", "rocket_id", domain.KindRocket, launch.RocketID); err != nil {
		return err
	}
	if err := requireOptionalParent(ctx, tx, "launch", "launchpad_id", domain.KindLaunchpad, launch.LaunchpadID); err != nil {
		return err
	}
	return requireOptionalParent(ctx, tx, "launch", "landpad_id", domain.KindLandpad, launch.LandpadID)
}

// CreateLaunch inserts a launch and credits its launchpad and landpad in the same transaction.
// The launch dates are normalized in place.
func (repo *Repository) CreateLaunch(ctx context.Context, launch *domain.Launch) (int64, error) {
	var id int64
	err := repo.withTx(ctx, "create_launch", func(tx *sqlx.Tx) error {
		if err := checkLaunch(ctx, tx, launch); err != nil {
			return err
		}

		row := fromDomainLaunch(launch)
		query := `INSERT INTO launches (name, flight_number, rocket_id, launchpad_id, landpad_id, date_utc, date_unix,
		          tbd, net, success, upcoming, landing_attempt, landing_success, fairing_status, landing_type, details)
		          VALUES (:name, :flight_number, :rocket_id, :launchpad_id, :landpad_id, :date_utc, :date_unix,
		          :tbd, :net, :success, :upcoming, :landing_attempt, :landing_success, :fairing_status, :landing_type, :details)`

		var err error
		id, err = insertReturningID(ctx, tx, "launch", query, row)
		if err != nil {
			return err
		}

		deltas := counterDeltas{}
		deltas.addLaunch(row, 1)
		if err := deltas.apply(ctx, tx); err != nil {
			return err
		}
		return repo.audit(ctx, tx, domain.AuditCreate, domain.KindLaunch, id, "created launch "+launch.Name, nil)
	})
	if err != nil {
		return 0, err
	}

	launch.ID = id
	return id, nil
}

// GetLaunch retrieves a launch by id.
func (repo *Repository) GetLaunch(ctx context.Context, id int64) (*domain.Launch, error) {
	var row dbLaunch
	query := repo.dbConn.Rebind(`SELECT ` + launchColumns + ` FROM launches WHERE id = ?`)

	if err := repo.dbConn.GetContext(ctx, &row, query, id); err != nil {
		return nil, noRows(err, "launch", id, "getting launch")
	}
	return toDomainLaunch(&row), nil
}

// ListLaunches returns the launches matching filter in chronological order.
func (repo *Repository) ListLaunches(ctx context.Context, filter domain.LaunchFilter) ([]*domain.Launch, error) {
	var where []string
	var args []any

	if filter.From != nil {
		where = append(where, `date_unix >= ?`)
		args = append(args, filter.From.Unix())
	}
	if filter.To != nil {
		where = append(where, `date_unix < ?`)
		args = append(args, filter.To.Unix())
	}
	if filter.RocketID != nil {
		where = append(where, `rocket_id = ?`)
		args = append(args, *filter.RocketID)
	}
	if filter.LaunchpadID != nil {
		where = append(where, `launchpad_id = ?`)
		args = append(args, *filter.LaunchpadID)
	}
	if filter.LandpadID != nil {
		where = append(where, `landpad_id = ?`)
		args = append(args, *filter.LandpadID)
	}
	if filter.Upcoming != nil {
		where = append(where, `upcoming = ?`)
		args = append(args, flag(*filter.Upcoming))
	}
	if filter.Success != nil {
		where = append(where, `success = ?`)
		args = append(args, flag(*filter.Success))
	}

	query := `SELECT ` + launchColumns + ` FROM launches`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += launchOrder

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 && repo.dbConn.DriverName() != DriverPostgres {
			query += ` LIMIT -1`
		}
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	var rows []*dbLaunch
	if err := repo.dbConn.SelectContext(ctx, &rows, repo.dbConn.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("listing launches: %w", err)
	}
	return toDomainLaunches(rows), nil
}

// UpdateLaunch replaces the attributes of a launch. Counters are moved from the old sites to the
// new ones, and adjusted for changed success and landing flags, in the same transaction.
func (repo *Repository) UpdateLaunch(ctx context.Context, launch *domain.Launch) error {
	return repo.withTx(ctx, "update_launch", func(tx *sqlx.Tx) error {
		if err := checkLaunch(ctx, tx, launch); err != nil {
			return err
		}

		var old dbLaunch
		query := tx.Rebind(`SELECT ` + launchColumns + ` FROM launches WHERE id = ?` + forUpdate(tx))
		if err := tx.GetContext(ctx, &old, query, launch.ID); err != nil {
			return noRows(err, "launch", launch.ID, "loading launch")
		}

		row := fromDomainLaunch(launch)
		update := `UPDATE launches SET name = :name, flight_number = :flight_number, rocket_id = :rocket_id,
		           launchpad_id = :launchpad_id, landpad_id = :landpad_id, date_utc = :date_utc, date_unix = :date_unix,
		           tbd = :tbd, net = :net, success = :success, upcoming = :upcoming, landing_attempt = :landing_attempt,
		           landing_success = :landing_success, fairing_status = :fairing_status, landing_type = :landing_type,
		           details = :details WHERE id = :id`
		if err := namedExecAffecting(ctx, tx, "launch", launch.ID, update, row); err != nil {
			return err
		}

		deltas := counterDeltas{}
		deltas.addLaunch(&old, -1)
		deltas.addLaunch(row, 1)
		if err := deltas.apply(ctx, tx); err != nil {
			return err
		}
		return repo.audit(ctx, tx, domain.AuditUpdate, domain.KindLaunch, launch.ID, "updated launch "+launch.Name, nil)
	})
}

// DeleteLaunch removes a launch with its failures and manifests and debits its sites.
func (repo *Repository) DeleteLaunch(ctx context.Context, id int64) error {
	return repo.DeleteEntity(ctx, domain.KindLaunch, id)
}

// dbLaunchFailure represents a launch failure record as stored in the database.
type dbLaunchFailure struct {
	ID          int64           `db:"id"`
	LaunchID    int64           `db:"launch_id"`
	TimeSeconds sql.NullInt64   `db:"time_seconds"`
	AltitudeKm  sql.NullFloat64 `db:"altitude_km"`
	Reason      string          `db:"reason"`
}

// AddLaunchFailure records a failure of an existing launch.
func (repo *Repository) AddLaunchFailure(ctx context.Context, failure *domain.LaunchFailure) (int64, error) {
	var id int64
	err := repo.withTx(ctx, "add_launch_failure", func(tx *sqlx.Tx) error {
		if err := failure.Validate(); err != nil {
			return err
		}
		if err := requireParent(ctx, tx, "launch_failure", "launch_id", domain.KindLaunch, failure.LaunchID); err != nil {
			return err
		}

		row := &dbLaunchFailure{
			LaunchID:    failure.LaunchID,
			TimeSeconds: nullInt(failure.TimeSeconds),
			AltitudeKm:  nullFloat(failure.AltitudeKm),
			Reason:      failure.Reason,
		}
		query := `INSERT INTO launch_failures (launch_id, time_seconds, altitude_km, reason)
		          VALUES (:launch_id, :time_seconds, :altitude_km, :reason)`

		var err error
		id, err = insertReturningID(ctx, tx, "launch_failure", query, row)
		if err != nil {
			return err
		}
		return repo.audit(ctx, tx, domain.AuditCreate, domain.KindLaunchFailure, id,
			fmt.Sprintf("recorded failure of launch %d", failure.LaunchID), map[string]any{"launch_id": failure.LaunchID})
	})
	if err != nil {
		return 0, err
	}

	failure.ID = id
	return id, nil
}

// ListLaunchFailures returns the failures of a launch in the order they were recorded.
func (repo *Repository) ListLaunchFailures(ctx context.Context, launchID int64) ([]*domain.LaunchFailure, error) {
	var rows []*dbLaunchFailure
	query := repo.dbConn.Rebind(`SELECT id, launch_id, time_seconds, altitude_km, reason
	          FROM launch_failures WHERE launch_id = ? ORDER BY id`)

	if err := repo.dbConn.SelectContext(ctx, &rows, query, launchID); err != nil {
		return nil, fmt.Errorf("getting launch failures: %w", err)
	}

	failures := make([]*domain.LaunchFailure, len(rows))
	for i, row := range rows {
		failures[i] = &domain.LaunchFailure{
			ID:          row.ID,
			LaunchID:    row.LaunchID,
			TimeSeconds: intPtr(row.TimeSeconds),
			AltitudeKm:  floatPtr(row.AltitudeKm),
			Reason:      row.Reason,
		}
	}
	return failures, nil
}

// DeleteLaunchFailure removes a single failure record.
func (repo *Repository) DeleteLaunchFailure(ctx context.Context, id int64) error {
	return repo.DeleteEntity(ctx, domain.KindLaunchFailure, id)
}

// AddLaunchPayload puts a payload on a launch's manifest.
func (repo *Repository) AddLaunchPayload(ctx context.Context, launchID, payloadID int64) error {
	return repo.withTx(ctx, "add_launch_payload", func(tx *sqlx.Tx) error {
		if err := requireParent(ctx, tx, "launch_payload", "launch_id", domain.KindLaunch, launchID); err != nil {
			return err
		}
		if err := requireParent(ctx, tx, "launch_payload", "payload_id", domain.KindPayload, payloadID); err != nil {
			return err
		}

		var n int
		check := tx.Rebind(`SELECT COUNT(*) FROM launch_payloads WHERE launch_id = ? AND payload_id = ?`)
		if err := tx.GetContext(ctx, &n, check, launchID, payloadID); err != nil {
			return fmt.Errorf("checking launch payload: %w", err)
		}
		if n > 0 {
			return &domain.ConstraintViolation{Entity: "launch_payload", Field: "payload_id", Value: payloadID, Reason: "already on the launch manifest"}
		}

		query := tx.Rebind(`INSERT INTO launch_payloads (launch_id, payload_id) VALUES (?, ?)`)
		if _, err := tx.ExecContext(ctx, query, launchID, payloadID); err != nil {
			return translateError("launch_payload", fmt.Errorf("linking payload %d to launch %d: %w", payloadID, launchID, err))
		}
		return repo.audit(ctx, tx, domain.AuditCreate, domain.KindLaunchPayload, launchID,
			fmt.Sprintf("added payload %d to launch %d", payloadID, launchID), map[string]any{"payload_id": payloadID})
	})
}

// RemoveLaunchPayload takes a payload off a launch's manifest.
func (repo *Repository) RemoveLaunchPayload(ctx context.Context, launchID, payloadID int64) error {
	return repo.withTx(ctx, "remove_launch_payload", func(tx *sqlx.Tx) error {
		query := `DELETE FROM launch_payloads WHERE launch_id = ? AND payload_id = ?`
		if err := execAffecting(ctx, tx, "launch_payload", fmt.Sprintf("%d/%d", launchID, payloadID), query, launchID, payloadID); err != nil {
			return err
		}
		return repo.audit(ctx, tx, domain.AuditDelete, domain.KindLaunchPayload, launchID,
			fmt.Sprintf("removed payload %d from launch %d", payloadID, launchID), map[string]any{"payload_id": payloadID})
	})
}

// ListLaunchPayloads returns the payloads flown on a launch.
func (repo *Repository) ListLaunchPayloads(ctx context.Context, launchID int64) ([]*domain.Payload, error) {
	var rows []*dbPayload
	query := repo.dbConn.Rebind(`SELECT ` + prefixColumns("p", payloadColumns) + ` FROM payloads p
	          JOIN launch_payloads lp ON lp.payload_id = p.id
	          WHERE lp.launch_id = ? ORDER BY p.name, p.id`)

	if err := repo.dbConn.SelectContext(ctx, &rows, query, launchID); err != nil {
		return nil, fmt.Errorf("getting launch payloads: %w", err)
	}
	return toDomainPayloads(rows), nil
}

// ListPayloadLaunches returns the launches that carried a payload in chronological order.
func (repo *Repository) ListPayloadLaunches(ctx context.Context, payloadID int64) ([]*domain.Launch, error) {
	var rows []*dbLaunch
	query := repo.dbConn.Rebind(`SELECT ` + prefixColumns("l", launchColumns) + ` FROM launches l
	          JOIN launch_payloads lp ON lp.launch_id = l.id
	          WHERE lp.payload_id = ? ORDER BY l.date_unix, l.flight_number, l.id`)

	if err := repo.dbConn.SelectContext(ctx, &rows, query, payloadID); err != nil {
		return nil, fmt.Errorf("getting payload launches: %w", err)
	}
	return toDomainLaunches(rows), nil
}

// dbLaunchCrew represents a crew assignment as stored in the database.
type dbLaunchCrew struct {
	LaunchID int64  `db:"launch_id"`
	CrewID   int64  `db:"crew_id"`
	Role     string `db:"role"`
}

// AddLaunchCrew assigns a crew member to a launch.
func (repo *Repository) AddLaunchCrew(ctx context.Context, assignment *domain.LaunchCrew) error {
	return repo.withTx(ctx, "add_launch_crew", func(tx *sqlx.Tx) error {
		if err := requireParent(ctx, tx, "launch_crew", "launch_id", domain.KindLaunch, assignment.LaunchID); err != nil {
			return err
		}
		if err := requireParent(ctx, tx, "launch_crew", "crew_id", domain.KindCrew, assignment.CrewID); err != nil {
			return err
		}

		var n int
		check := tx.Rebind(`SELECT COUNT(*) FROM launch_crew WHERE launch_id = ? AND crew_id = ?`)
		if err := tx.GetContext(ctx, &n, check, assignment.LaunchID, assignment.CrewID); err != nil {
			return fmt.Errorf("checking launch crew: %w", err)
		}
		if n > 0 {
			return &domain.ConstraintViolation{Entity: "launch_crew", Field: "crew_id", Value: assignment.CrewID, Reason: "already assigned to the launch"}
		}

		row := &dbLaunchCrew{LaunchID: assignment.LaunchID, CrewID: assignment.CrewID, Role: strings.TrimSpace(assignment.Role)}
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO launch_crew (launch_id, crew_id, role) VALUES (:launch_id, :crew_id, :role)`, row); err != nil {
			return translateError("launch_crew", fmt.Errorf("assigning crew %d to launch %d: %w", row.CrewID, row.LaunchID, err))
		}
		return repo.audit(ctx, tx, domain.AuditCreate, domain.KindLaunchCrew, row.LaunchID,
			fmt.Sprintf("assigned crew %d to launch %d", row.CrewID, row.LaunchID), map[string]any{"crew_id": row.CrewID, "role": row.Role})
	})
}

// RemoveLaunchCrew removes a crew assignment.
func (repo *Repository) RemoveLaunchCrew(ctx context.Context, launchID, crewID int64) error {
	return repo.withTx(ctx, "remove_launch_crew", func(tx *sqlx.Tx) error {
		query := `DELETE FROM launch_crew WHERE launch_id = ? AND crew_id = ?`
		if err := execAffecting(ctx, tx, "launch_crew", fmt.Sprintf("%d/%d", launchID, crewID), query, launchID, crewID); err != nil {
			return err
		}
		return repo.audit(ctx, tx, domain.AuditDelete, domain.KindLaunchCrew, launchID,
			fmt.Sprintf("removed crew %d from launch %d", crewID, launchID), map[string]any{"crew_id": crewID})
	})
}

// ListLaunchCrew returns the crew assignments of a launch.
func (repo *Repository) ListLaunchCrew(ctx context.Context, launchID int64) ([]*domain.LaunchCrew, error) {
	var rows []*dbLaunchCrew
	query := repo.dbConn.Rebind(`SELECT launch_id, crew_id, role FROM launch_crew WHERE launch_id = ? ORDER BY crew_id`)

	if err := repo.dbConn.SelectContext(ctx, &rows, query, launchID); err != nil {
		return nil, fmt.Errorf("getting launch crew: %w", err)
	}

	crew := make([]*domain.LaunchCrew, len(rows))
	for i, row := range rows {
		crew[i] = &domain.LaunchCrew{LaunchID: row.LaunchID, CrewID: row.CrewID, Role: row.Role}
	}
	return crew, nil
}

// ListCrewLaunches returns the launches a crew member flew on in chronological order.
func (repo *Repository) ListCrewLaunches(ctx context.Context, crewID int64) ([]*domain.Launch, error) {
	var rows []*dbLaunch
	query := repo.dbConn.Rebind(`SELECT ` + prefixColumns("l", launchColumns) + ` FROM launches l
	          JOIN launch_crew lc ON lc.launch_id = l.id
	          WHERE lc.crew_id = ? ORDER BY l.date_unix, l.flight_number, l.id`)

	if err := repo.dbConn.SelectContext(ctx, &rows, query, crewID); err != nil {
		return nil, fmt.Errorf("getting crew launches: %w", err)
	}
	return toDomainLaunches(rows), nil
}
