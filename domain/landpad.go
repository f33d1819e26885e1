package domain

import "context"

// LandpadRepository defines the interface for managing Landpads, the landing sites and drone ships.
type LandpadRepository interface {
	// CreateLandpad inserts a new landpad. Counters always start at zero.
	CreateLandpad(ctx context.Context, landpad *Landpad) (int64, error)

	// GetLandpad retrieves a landpad by id.
	GetLandpad(ctx context.Context, id int64) (*Landpad, error)

	// FindLandpadByName retrieves the first landpad with the given name.
	FindLandpadByName(ctx context.Context, name string) (*Landpad, error)

	// ListLandpads returns every landpad ordered by name.
	ListLandpads(ctx context.Context) ([]*Landpad, error)

	// UpdateLandpad replaces the descriptive attributes of a landpad. Counters are left untouched.
	UpdateLandpad(ctx context.Context, landpad *Landpad) error

	// DeleteLandpad removes a landpad. Launches that referenced it keep existing with no landpad.
	DeleteLandpad(ctx context.Context, id int64) error
}

// Landpad is a physical or sea-based landing site.
type Landpad struct {
	ID               int64
	Name             string
	FullName         string
	Status           LandpadStatus // Mandatory.
	Type             LandpadType   // Optional.
	Locality         string
	Region           string
	Latitude         *float64
	Longitude        *float64
	LandingAttempts  int // Derived: launches with a landing attempt on this pad.
	LandingSuccesses int // Derived: of those, the successful landings.
}

// Validate checks the attribute domains of the landpad.
func (l *Landpad) Validate() error {
	return firstError(
		requireText("landpad", "name", l.Name),
		checkEnum("landpad", "status", l.Status),
		checkOptionalEnum("landpad", "type", l.Type),
		optionalInRange("landpad", "latitude", l.Latitude, -90, 90),
		optionalInRange("landpad", "longitude", l.Longitude, -180, 180),
	)
}
