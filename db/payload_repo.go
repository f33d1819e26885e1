package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/tfkr-ae/rocketdb/domain"
)

var _ domain.PayloadRepository = (*Repository)(nil)

// dbPayload represents a payload as stored in the database, orbital elements flattened into columns.
type dbPayload struct {
	ID                 int64           `db:"id"`
	Name               string          `db:"name"`
	Type               string          `db:"type"`
	Reused             flag            `db:"reused"`
	Manufacturer       string          `db:"manufacturer"`
	MassKg             sql.NullFloat64 `db:"mass_kg"`
	Orbit              sql.NullString  `db:"orbit"`
	ReferenceSystem    sql.NullString  `db:"reference_system"`
	Regime             sql.NullString  `db:"regime"`
	SemiMajorAxisKm    sql.NullFloat64 `db:"semi_major_axis_km"`
	Eccentricity       sql.NullFloat64 `db:"eccentricity"`
	InclinationDeg     sql.NullFloat64 `db:"inclination_deg"`
	RAANDeg            sql.NullFloat64 `db:"raan_deg"`
	ArgOfPericenterDeg sql.NullFloat64 `db:"arg_of_pericenter_deg"`
	MeanAnomalyDeg     sql.NullFloat64 `db:"mean_anomaly_deg"`
	Epoch              sql.NullString  `db:"epoch"`
	MeanMotion         sql.NullFloat64 `db:"mean_motion"`
}

const payloadColumns = `id, name, type, reused, manufacturer, mass_kg, orbit, reference_system, regime,
	semi_major_axis_km, eccentricity, inclination_deg, raan_deg, arg_of_pericenter_deg, mean_anomaly_deg, epoch, mean_motion`

func toDomainPayload(row *dbPayload) *domain.Payload {
	return &domain.Payload{
		ID:              row.ID,
		Name:            row.Name,
		Type:            domain.PayloadType(row.Type),
		Reused:          bool(row.Reused),
		Manufacturer:    row.Manufacturer,
		MassKg:          floatPtr(row.MassKg),
		Orbit:           domain.Orbit(row.Orbit.String),
		ReferenceSystem: domain.ReferenceSystem(row.ReferenceSystem.String),
		Regime:          domain.Regime(row.Regime.String),
		Elements: domain.OrbitalElements{
			SemiMajorAxisKm:    floatPtr(row.SemiMajorAxisKm),
			Eccentricity:       floatPtr(row.Eccentricity),
			InclinationDeg:     floatPtr(row.InclinationDeg),
			RAANDeg:            floatPtr(row.RAANDeg),
			ArgOfPericenterDeg: floatPtr(row.ArgOfPericenterDeg),
			MeanAnomalyDeg:     floatPtr(row.MeanAnomalyDeg),
			MeanMotion:         floatPtr(row.MeanMotion),
			Epoch:              row.Epoch.String,
		},
	}
}

func fromDomainPayload(payload *domain.Payload) *dbPayload {
	return &dbPayload{
		ID:                 payload.ID,
		Name:               payload.Name,
		Type:               string(payload.Type),
		Reused:             flag(payload.Reused),
		Manufacturer:       payload.Manufacturer,
		MassKg:             nullFloat(payload.MassKg),
		Orbit:              nullString(string(payload.Orbit)),
		ReferenceSystem:    nullString(string(payload.ReferenceSystem)),
		Regime:             nullString(string(payload.Regime)),
		SemiMajorAxisKm:    nullFloat(payload.Elements.SemiMajorAxisKm),
		Eccentricity:       nullFloat(payload.Elements.Eccentricity),
		InclinationDeg:     nullFloat(payload.Elements.InclinationDeg),
		RAANDeg:            nullFloat(payload.Elements.RAANDeg),
		ArgOfPericenterDeg: nullFloat(payload.Elements.ArgOfPericenterDeg),
		MeanAnomalyDeg:     nullFloat(payload.Elements.MeanAnomalyDeg),
		Epoch:              nullString(payload.Elements.Epoch),
		MeanMotion:         nullFloat(payload.Elements.MeanMotion),
	}
}

func toDomainPayloads(rows []*dbPayload) []*domain.Payload {
	payloads := make([]*domain.Payload, len(rows))
	for i, row := range rows {
		payloads[i] = toDomainPayload(row)
	}
	return payloads
}

// CreatePayload creates a new payload in the database.
func (repo *Repository) CreatePayload(ctx context.Context, payload *domain.Payload) (int64, error) {
	var id int64
	err := repo.withTx(ctx, "create_payload", func(tx *sqlx.Tx) error {
		if err := payload.Validate(); err != nil {
			return err
		}

		var err error
		query := `INSERT INTO payloads (name, type, reused, manufacturer, mass_kg, orbit, reference_system, regime,
		          semi_major_axis_km, eccentricity, inclination_deg, raan_deg, arg_of_pericenter_deg, mean_anomaly_deg,
		          epoch, mean_motion)
		          VALUES (:name, :type, :reused, :manufacturer, :mass_kg, :orbit, :reference_system, :regime,
		          :semi_major_axis_km, :eccentricity, :inclination_deg, :raan_deg, :arg_of_pericenter_deg, :mean_anomaly_deg,
		          :epoch, :mean_motion)`
		id, err = insertReturningID(ctx, tx, "payload", query, fromDomainPayload(payload))
		if err != nil {
			return err
		}
		return repo.audit(ctx, tx, domain.AuditCreate, domain.KindPayload, id, "created payload "+payload.Name, nil)
	})
	if err != nil {
		return 0, err
	}

	payload.ID = id
	return id, nil
}

// GetPayload retrieves a payload by id.
func (repo *Repository) GetPayload(ctx context.Context, id int64) (*domain.Payload, error) {
	var row dbPayload
	query := repo.dbConn.Rebind(`SELECT ` + payloadColumns + ` FROM payloads WHERE id = ?`)

	if err := repo.dbConn.GetContext(ctx, &row, query, id); err != nil {
		return nil, noRows(err, "payload", id, "getting payload")
	}
	return toDomainPayload(&row), nil
}

// FindPayloadByName retrieves the first payload with the given name.
func (repo *Repository) FindPayloadByName(ctx context.Context, name string) (*domain.Payload, error) {
	var row dbPayload
	query := repo.dbConn.Rebind(`SELECT ` + payloadColumns + ` FROM payloads WHERE name = ? ORDER BY id LIMIT 1`)

	if err := repo.dbConn.GetContext(ctx, &row, query, name); err != nil {
		return nil, noRows(err, "payload", name, "finding payload")
	}
	return toDomainPayload(&row), nil
}

// ListPayloads retrieves all payloads ordered by name.
func (repo *Repository) ListPayloads(ctx context.Context) ([]*domain.Payload, error) {
	var rows []*dbPayload
	query := `SELECT ` + payloadColumns + ` FROM payloads ORDER BY name, id`

	if err := repo.dbConn.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("getting payloads: %w", err)
	}
	return toDomainPayloads(rows), nil
}

// UpdatePayload replaces the attributes of an existing payload.
func (repo *Repository) UpdatePayload(ctx context.Context, payload *domain.Payload) error {
	return repo.withTx(ctx, "update_payload", func(tx *sqlx.Tx) error {
		if err := payload.Validate(); err != nil {
			return err
		}

		query := `UPDATE payloads SET name = :name, type = :type, reused = :reused, manufacturer = :manufacturer,
		          mass_kg = :mass_kg, orbit = :orbit, reference_system = :reference_system, regime = :regime,
		          semi_major_axis_km = :semi_major_axis_km, eccentricity = :eccentricity, inclination_deg = :inclination_deg,
		          raan_deg = :raan_deg, arg_of_pericenter_deg = :arg_of_pericenter_deg, mean_anomaly_deg = :mean_anomaly_deg,
		          epoch = :epoch, mean_motion = :mean_motion WHERE id = :id`
		if err := namedExecAffecting(ctx, tx, "payload", payload.ID, query, fromDomainPayload(payload)); err != nil {
			return err
		}
		return repo.audit(ctx, tx, domain.AuditUpdate, domain.KindPayload, payload.ID, "updated payload "+payload.Name, nil)
	})
}

// DeletePayload removes a payload, its customers, its NORAD ids and its place on launch manifests.
func (repo *Repository) DeletePayload(ctx context.Context, id int64) error {
	return repo.DeleteEntity(ctx, domain.KindPayload, id)
}

// AddPayloadCustomer links a customer name to a payload.
func (repo *Repository) AddPayloadCustomer(ctx context.Context, payloadID int64, customer string) error {
	customer = strings.TrimSpace(customer)
	return repo.withTx(ctx, "add_payload_customer", func(tx *sqlx.Tx) error {
		if customer == "" {
			return &domain.ConstraintViolation{Entity: "payload_customer", Field: "customer_name", Value: customer, Reason: "must not be empty"}
		}
		if err := requireParent(ctx, tx, "payload_customer", "payload_id", domain.KindPayload, payloadID); err != nil {
			return err
		}

		var n int
		check := tx.Rebind(`SELECT COUNT(*) FROM payload_customers WHERE payload_id = ? AND customer_name = ?`)
		if err := tx.GetContext(ctx, &n, check, payloadID, customer); err != nil {
			return fmt.Errorf("checking payload customer: %w", err)
		}
		if n > 0 {
			return &domain.ConstraintViolation{Entity: "payload_customer", Field: "customer_name", Value: customer, Reason: "already linked to payload"}
		}

		query := tx.Rebind(`INSERT INTO payload_customers (payload_id, customer_name) VALUES (?, ?)`)
		if _, err := tx.ExecContext(ctx, query, payloadID, customer); err != nil {
			return translateError("payload_customer", fmt.Errorf("linking customer %s: %w", customer, err))
		}
		return repo.audit(ctx, tx, domain.AuditCreate, domain.KindPayloadCustomer, payloadID, "linked customer "+customer, map[string]any{"customer_name": customer})
	})
}

// RemovePayloadCustomer unlinks a customer name from a payload.
func (repo *Repository) RemovePayloadCustomer(ctx context.Context, payloadID int64, customer string) error {
	return repo.withTx(ctx, "remove_payload_customer", func(tx *sqlx.Tx) error {
		query := `DELETE FROM payload_customers WHERE payload_id = ? AND customer_name = ?`
		if err := execAffecting(ctx, tx, "payload_customer", fmt.Sprintf("%d/%s", payloadID, customer), query, payloadID, customer); err != nil {
			return err
		}
		return repo.audit(ctx, tx, domain.AuditDelete, domain.KindPayloadCustomer, payloadID, "unlinked customer "+customer, map[string]any{"customer_name": customer})
	})
}

// ListPayloadCustomers returns the customers of a payload in name order.
func (repo *Repository) ListPayloadCustomers(ctx context.Context, payloadID int64) ([]string, error) {
	customers := []string{}
	query := repo.dbConn.Rebind(`SELECT customer_name FROM payload_customers WHERE payload_id = ? ORDER BY customer_name`)

	if err := repo.dbConn.SelectContext(ctx, &customers, query, payloadID); err != nil {
		return nil, fmt.Errorf("getting payload customers: %w", err)
	}
	return customers, nil
}

// FindPayloadsByCustomer returns every payload flown for a customer.
func (repo *Repository) FindPayloadsByCustomer(ctx context.Context, customer string) ([]*domain.Payload, error) {
	var rows []*dbPayload
	query := repo.dbConn.Rebind(`SELECT ` + prefixColumns("p", payloadColumns) + ` FROM payloads p
	          JOIN payload_customers pc ON pc.payload_id = p.id
	          WHERE pc.customer_name = ? ORDER BY p.name, p.id`)

	if err := repo.dbConn.SelectContext(ctx, &rows, query, customer); err != nil {
		return nil, fmt.Errorf("finding payloads by customer: %w", err)
	}
	return toDomainPayloads(rows), nil
}

// AddPayloadNoradID links a NORAD catalog number to a payload.
func (repo *Repository) AddPayloadNoradID(ctx context.Context, payloadID int64, noradID int64) error {
	return repo.withTx(ctx, "add_payload_norad_id", func(tx *sqlx.Tx) error {
		if noradID <= 0 {
			return &domain.ConstraintViolation{Entity: "payload_norad", Field: "norad_id", Value: noradID, Reason: "must be positive"}
		}
		if err := requireParent(ctx, tx, "payload_norad", "payload_id", domain.KindPayload, payloadID); err != nil {
			return err
		}

		var n int
		check := tx.Rebind(`SELECT COUNT(*) FROM payload_norad WHERE payload_id = ? AND norad_id = ?`)
		if err := tx.GetContext(ctx, &n, check, payloadID, noradID); err != nil {
			return fmt.Errorf("checking payload norad id: %w", err)
		}
		if n > 0 {
			return &domain.ConstraintViolation{Entity: "payload_norad", Field: "norad_id", Value: noradID, Reason: "already linked to payload"}
		}

		query := tx.Rebind(`INSERT INTO payload_norad (payload_id, norad_id) VALUES (?, ?)`)
		if _, err := tx.ExecContext(ctx, query, payloadID, noradID); err != nil {
			return translateError("payload_norad", fmt.Errorf("linking norad id %d: %w", noradID, err))
		}
		return repo.audit(ctx, tx, domain.AuditCreate, domain.KindPayloadNorad, payloadID, fmt.Sprintf("linked norad id %d", noradID), map[string]any{"norad_id": noradID})
	})
}

// RemovePayloadNoradID unlinks a NORAD catalog number from a payload.
func (repo *Repository) RemovePayloadNoradID(ctx context.Context, payloadID int64, noradID int64) error {
	return repo.withTx(ctx, "remove_payload_norad_id", func(tx *sqlx.Tx) error {
		query := `DELETE FROM payload_norad WHERE payload_id = ? AND norad_id = ?`
		if err := execAffecting(ctx, tx, "payload_norad", fmt.Sprintf("%d/%d", payloadID, noradID), query, payloadID, noradID); err != nil {
			return err
		}
		return repo.audit(ctx, tx, domain.AuditDelete, domain.KindPayloadNorad, payloadID, fmt.Sprintf("unlinked norad id %d", noradID), map[string]any{"norad_id": noradID})
	})
}

// ListPayloadNoradIDs returns the NORAD ids of a payload in ascending order.
func (repo *Repository) ListPayloadNoradIDs(ctx context.Context, payloadID int64) ([]int64, error) {
	ids := []int64{}
	query := repo.dbConn.Rebind(`SELECT norad_id FROM payload_norad WHERE payload_id = ? ORDER BY norad_id`)

	if err := repo.dbConn.SelectContext(ctx, &ids, query, payloadID); err != nil {
		return nil, fmt.Errorf("getting payload norad ids: %w", err)
	}
	return ids, nil
}

// FindPayloadsByNoradID returns the payloads carrying a NORAD id.
func (repo *Repository) FindPayloadsByNoradID(ctx context.Context, noradID int64) ([]*domain.Payload, error) {
	var rows []*dbPayload
	query := repo.dbConn.Rebind(`SELECT ` + prefixColumns("p", payloadColumns) + ` FROM payloads p
	          JOIN payload_norad pn ON pn.payload_id = p.id
	          WHERE pn.norad_id = ? ORDER BY p.name, p.id`)

	if err := repo.dbConn.SelectContext(ctx, &rows, query, noradID); err != nil {
		return nil, fmt.Errorf("finding payloads by norad id: %w", err)
	}
	return toDomainPayloads(rows), nil
}

// prefixColumns qualifies every column of a column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = alias + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}
