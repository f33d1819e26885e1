package domain

import (
	"context"
	"time"
)

// PayloadRepository defines the interface for managing Payloads and their customer and NORAD associations.
type PayloadRepository interface {
	// CreatePayload inserts a new payload and returns its generated id.
	CreatePayload(ctx context.Context, payload *Payload) (int64, error)

	// GetPayload retrieves a payload by id.
	GetPayload(ctx context.Context, id int64) (*Payload, error)

	// FindPayloadByName retrieves the first payload with the given name.
	FindPayloadByName(ctx context.Context, name string) (*Payload, error)

	// ListPayloads returns every payload ordered by id.
	ListPayloads(ctx context.Context) ([]*Payload, error)

	// UpdatePayload replaces the attributes of an existing payload.
	UpdatePayload(ctx context.Context, payload *Payload) error

	// DeletePayload removes a payload with its customers, NORAD ids and launch manifests.
	DeletePayload(ctx context.Context, id int64) error

	// AddPayloadCustomer associates a customer with a payload. The pair must be new.
	AddPayloadCustomer(ctx context.Context, payloadID int64, customer string) error

	// RemovePayloadCustomer deletes a payload/customer association.
	RemovePayloadCustomer(ctx context.Context, payloadID int64, customer string) error

	// ListPayloadCustomers returns the customers of a payload in name order.
	ListPayloadCustomers(ctx context.Context, payloadID int64) ([]string, error)

	// FindPayloadsByCustomer returns every payload carried for the given customer.
	FindPayloadsByCustomer(ctx context.Context, customer string) ([]*Payload, error)

	// AddPayloadNoradID records a NORAD catalog id assigned to a payload. The pair must be new.
	AddPayloadNoradID(ctx context.Context, payloadID int64, noradID int64) error

	// RemovePayloadNoradID deletes a payload/NORAD id association.
	RemovePayloadNoradID(ctx context.Context, payloadID int64, noradID int64) error

	// ListPayloadNoradIDs returns the NORAD ids of a payload in ascending order.
	ListPayloadNoradIDs(ctx context.Context, payloadID int64) ([]int64, error)

	// FindPayloadsByNoradID returns the payloads that were assigned the given NORAD id.
	FindPayloadsByNoradID(ctx context.Context, noradID int64) ([]*Payload, error)
}

// OrbitalElements is the Keplerian element set of a payload. Every element is optional.
type OrbitalElements struct {
	SemiMajorAxisKm    *float64
	Eccentricity       *float64
	InclinationDeg     *float64
	RAANDeg            *float64 // Right ascension of the ascending node.
	ArgOfPericenterDeg *float64
	MeanAnomalyDeg     *float64
	MeanMotion         *float64 // Revolutions per day.
	Epoch              string   // RFC 3339 timestamp, empty when unknown.
}

// Payload is the cargo or spacecraft carried on a launch.
type Payload struct {
	ID              int64
	Name            string
	Type            PayloadType
	Reused          bool
	Manufacturer    string
	MassKg          *float64
	Orbit           Orbit           // Optional.
	ReferenceSystem ReferenceSystem // Optional.
	Regime          Regime          // Optional.
	Elements        OrbitalElements
}

// Validate checks the attribute domains of the payload.
func (p *Payload) Validate() error {
	var massErr, eccErr, axisErr, motionErr, epochErr error
	if p.MassKg != nil {
		massErr = nonNegative("payload", "mass_kg", *p.MassKg)
	}
	if e := p.Elements.Eccentricity; e != nil {
		eccErr = nonNegative("payload", "eccentricity", *e)
	}
	if a := p.Elements.SemiMajorAxisKm; a != nil {
		axisErr = nonNegative("payload", "semi_major_axis_km", *a)
	}
	if m := p.Elements.MeanMotion; m != nil {
		motionErr = nonNegative("payload", "mean_motion", *m)
	}
	if p.Elements.Epoch != "" {
		if _, err := time.Parse(time.RFC3339, p.Elements.Epoch); err != nil {
			epochErr = &ConstraintViolation{Entity: "payload", Field: "epoch", Value: p.Elements.Epoch, Reason: "must be an RFC 3339 timestamp", Err: err}
		}
	}
	return firstError(
		requireText("payload", "name", p.Name),
		checkEnum("payload", "type", p.Type),
		checkOptionalEnum("payload", "orbit", p.Orbit),
		checkOptionalEnum("payload", "reference_system", p.ReferenceSystem),
		checkOptionalEnum("payload", "regime", p.Regime),
		massErr,
		axisErr,
		eccErr,
		optionalInRange("payload", "inclination_deg", p.Elements.InclinationDeg, 0, 180),
		optionalInRange("payload", "raan_deg", p.Elements.RAANDeg, 0, 360),
		optionalInRange("payload", "arg_of_pericenter_deg", p.Elements.ArgOfPericenterDeg, 0, 360),
		optionalInRange("payload", "mean_anomaly_deg", p.Elements.MeanAnomalyDeg, 0, 360),
		motionErr,
		epochErr,
	)
}
