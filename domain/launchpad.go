package domain

import "context"

// LaunchpadRepository defines the interface for managing Launchpads, the physical launch sites.
// The launch counters of a launchpad are derived from the launches referencing it and
// cannot be written through this interface.
type LaunchpadRepository interface {
	// CreateLaunchpad inserts a new launchpad owned by an existing agency.
	// Counters always start at zero regardless of the values on the argument.
	CreateLaunchpad(ctx context.Context, launchpad *Launchpad) (int64, error)

	// GetLaunchpad retrieves a launchpad by id, including its current counters.
	GetLaunchpad(ctx context.Context, id int64) (*Launchpad, error)

	// FindLaunchpadByName retrieves the first launchpad with the given name.
	FindLaunchpadByName(ctx context.Context, name string) (*Launchpad, error)

	// ListLaunchpads returns every launchpad ordered by name.
	ListLaunchpads(ctx context.Context) ([]*Launchpad, error)

	// UpdateLaunchpad replaces the descriptive attributes of a launchpad. Counters are left untouched.
	UpdateLaunchpad(ctx context.Context, launchpad *Launchpad) error

	// DeleteLaunchpad removes a launchpad and every launch made from it.
	DeleteLaunchpad(ctx context.Context, id int64) error
}

// Launchpad is a physical launch site.
type Launchpad struct {
	ID              int64
	Name            string
	FullName        string
	AgencyID        int64 // Mandatory owning agency.
	Status          LaunchpadStatus
	Locality        string
	Region          string
	Latitude        *float64
	Longitude       *float64
	LaunchAttempts  int // Derived: launches referencing this pad.
	LaunchSuccesses int // Derived: successful launches referencing this pad.
}

// Validate checks the attribute domains of the launchpad.
func (l *Launchpad) Validate() error {
	return firstError(
		requireText("launchpad", "name", l.Name),
		requireRef("launchpad", "agency_id", "agency", l.AgencyID),
		checkEnum("launchpad", "status", l.Status),
		optionalInRange("launchpad", "latitude", l.Latitude, -90, 90),
		optionalInRange("launchpad", "longitude", l.Longitude, -180, 180),
	)
}
