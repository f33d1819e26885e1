package domain

import "context"

// RocketRepository defines the interface for managing Rockets, the launch vehicle families.
type RocketRepository interface {
	// CreateRocket inserts a new rocket. AgencyID must reference an existing agency.
	CreateRocket(ctx context.Context, rocket *Rocket) (int64, error)

	// GetRocket retrieves a rocket by id.
	GetRocket(ctx context.Context, id int64) (*Rocket, error)

	// FindRocketByName retrieves the first rocket with the given name.
	FindRocketByName(ctx context.Context, name string) (*Rocket, error)

	// ListRockets returns every rocket ordered by first flight, rockets without one last.
	ListRockets(ctx context.Context) ([]*Rocket, error)

	// ListRocketsPage returns one page of ListRockets and the total number of rockets.
	// Pages are numbered from 1.
	ListRocketsPage(ctx context.Context, page, size int) ([]*Rocket, int, error)

	// UpdateRocket replaces the attributes of an existing rocket.
	UpdateRocket(ctx context.Context, rocket *Rocket) error

	// DeleteRocket removes a rocket and every launch flown on it.
	DeleteRocket(ctx context.Context, id int64) error
}

// Rocket is a launch vehicle family.
type Rocket struct {
	ID               int64
	Name             string
	AgencyID         int64 // Mandatory owning agency.
	Active           bool
	Stages           int
	Boosters         int
	CostPerLaunch    int64   // USD.
	SuccessRatePct   float64 // 0..100.
	FirstFlight      string  // YYYY-MM-DD, empty when the vehicle has not flown.
	HeightM          float64
	DiameterM        float64
	MassKg           float64
	LEOPayloadKg     float64
	GTOPayloadKg     float64
	EngineType       string
	EngineCount      int
	Propellant1      string
	Propellant2      string
	ThrustSeaLevelKN float64
	ThrustVacuumKN   float64
	Description      string
}

// Validate checks the attribute domains of the rocket.
func (r *Rocket) Validate() error {
	return firstError(
		requireText("rocket", "name", r.Name),
		requireRef("rocket", "agency_id", "agency", r.AgencyID),
		nonNegative("rocket", "stages", r.Stages),
		nonNegative("rocket", "boosters", r.Boosters),
		nonNegative("rocket", "cost_per_launch", r.CostPerLaunch),
		inRange("rocket", "success_rate_pct", r.SuccessRatePct, 0, 100),
		optionalDate("rocket", "first_flight", r.FirstFlight),
		nonNegative("rocket", "height_m", r.HeightM),
		nonNegative("rocket", "diameter_m", r.DiameterM),
		nonNegative("rocket", "mass_kg", r.MassKg),
		nonNegative("rocket", "leo_payload_kg", r.LEOPayloadKg),
		nonNegative("rocket", "gto_payload_kg", r.GTOPayloadKg),
		nonNegative("rocket", "engine_count", r.EngineCount),
		nonNegative("rocket", "thrust_sea_level_kn", r.ThrustSeaLevelKN),
		nonNegative("rocket", "thrust_vacuum_kn", r.ThrustVacuumKN),
	)
}
